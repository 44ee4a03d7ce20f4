package utils

import (
	"errors"
	"fmt"
)

// Error kinds. Every service error wraps exactly one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrConflict          = errors.New("conflict")
	ErrInvitationExpired = errors.New("invitation expired")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrDatabaseError     = errors.New("database error")
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrPlanNotFound       = fmt.Errorf("plan %w", ErrNotFound)
	ErrDailyPlanNotFound  = fmt.Errorf("daily plan %w", ErrNotFound)
	ErrSpotNotFound       = fmt.Errorf("spot %w", ErrNotFound)
	ErrSegmentNotFound    = fmt.Errorf("travel segment %w", ErrNotFound)
	ErrExpenseNotFound    = fmt.Errorf("expense %w", ErrNotFound)
	ErrMemberNotFound     = fmt.Errorf("member %w", ErrNotFound)
	ErrInvitationNotFound = fmt.Errorf("invitation %w", ErrNotFound)

	ErrNotPlanMember     = fmt.Errorf("not a plan member: %w", ErrPermissionDenied)
	ErrOwnerOrEditorOnly = fmt.Errorf("owner or editor role required: %w", ErrPermissionDenied)
	ErrOwnerOnly         = fmt.Errorf("owner role required: %w", ErrPermissionDenied)
	ErrOwnerImmutable    = fmt.Errorf("owner cannot be changed or removed: %w", ErrPermissionDenied)
	ErrOwnerNotGrantable = fmt.Errorf("owner role cannot be granted: %w", ErrPermissionDenied)
	ErrInviteeMismatch   = fmt.Errorf("invitation was issued to another email: %w", ErrPermissionDenied)

	ErrAlreadyMember       = fmt.Errorf("user is already a plan member: %w", ErrConflict)
	ErrDuplicateVisitDate  = fmt.Errorf("daily plan already exists for date: %w", ErrConflict)
	ErrEmailAlreadyExists  = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrNicknameTaken       = fmt.Errorf("nickname already taken: %w", ErrConflict)
	ErrInvitationNotActive = fmt.Errorf("invitation is not pending: %w", ErrInvalidState)

	ErrInvalidRole         = fmt.Errorf("unknown member role: %w", ErrInvalidInput)
	ErrInvalidTravelMode   = fmt.Errorf("unknown travel mode: %w", ErrInvalidInput)
	ErrInvalidDateRange    = fmt.Errorf("start date must not be after end date: %w", ErrInvalidInput)
	ErrDateOutOfRange      = fmt.Errorf("date outside the plan range: %w", ErrInvalidInput)
	ErrCrossDaySegment     = fmt.Errorf("segment spots must belong to the segment's daily plan: %w", ErrInvalidInput)
	ErrInvalidVerification = fmt.Errorf("verification code is invalid or expired: %w", ErrInvalidInput)

	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
)

// DBError tags an unexpected storage failure so callers see ErrDatabaseError
// while logs keep the driver message.
func DBError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDatabaseError, err)
}
