package db_models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
	// InvitationExpired is never stored; see EffectiveStatus.
	InvitationExpired InvitationStatus = "EXPIRED"
)

type PlanInvitation struct {
	BaseModel
	PlanID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_plan_email"`
	InviteeEmail string           `gorm:"size:255;not null;uniqueIndex:idx_invitation_plan_email"`
	InviterID    uuid.UUID        `gorm:"type:uuid;not null"`
	Token        string           `gorm:"size:64;not null;uniqueIndex"`
	Role         MemberRole       `gorm:"size:10;not null"`
	Status       InvitationStatus `gorm:"size:10;not null"`
	ExpiresAt    int64            `gorm:"not null"`

	Plan    Plan `gorm:"foreignKey:PlanID"`
	Inviter User `gorm:"foreignKey:InviterID"`
}

func (i PlanInvitation) Expired(now time.Time) bool {
	return now.Unix() > i.ExpiresAt
}

// IsValid reports whether the invitation can still be accepted at now.
func (i PlanInvitation) IsValid(now time.Time) bool {
	return i.Status == InvitationPending && !i.Expired(now)
}

func (i PlanInvitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && i.Expired(now) {
		return InvitationExpired
	}
	return i.Status
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailMatches compares two addresses ignoring case and surrounding space.
func EmailMatches(a, b string) bool {
	na, nb := NormalizeEmail(a), NormalizeEmail(b)
	return na != "" && na == nb
}
