package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

// Next steps reported by CheckByToken and ResolveInvitation.
const (
	InvitationNextAccepted = "ACCEPTED"
	InvitationNextLogin    = "LOGIN"
	InvitationNextSignup   = "SIGNUP"
)

type InvitationServiceInterface interface {
	Invite(ctx context.Context, planID, inviterID uuid.UUID, req request_models.InviteRequest) (*response_models.InvitationResponse, error)
	Accept(ctx context.Context, token string, userID uuid.UUID) (*response_models.AcceptInvitationResponse, error)
	Reject(ctx context.Context, token string, userID uuid.UUID) error
	CheckByToken(ctx context.Context, token string) (*response_models.InvitationCheckResponse, error)
	EmailMatches(ctx context.Context, token, candidateEmail string) (bool, error)
	// ResolveInvitation accepts on the spot when principal owns the invited
	// address, otherwise it reports whether to log in or sign up.
	ResolveInvitation(ctx context.Context, token string, principal *Principal) (*response_models.InvitationCheckResponse, error)
	ListInvitations(ctx context.Context, planID, userID uuid.UUID) ([]response_models.InvitationResponse, error)
	CancelInvitation(ctx context.Context, planID, invitationID, userID uuid.UUID) error
}

type InvitationSettings struct {
	TTL               time.Duration
	DeleteAfterAccept bool
}

type InvitationService struct {
	invitationRepo repositories.InvitationRepository
	memberRepo     repositories.MemberRepository
	userRepo       repositories.UserRepository
	planRepo       repositories.PlanRepository
	perms          PermissionServiceInterface
	tx             infra.Transactor
	mailer         IMailService
	log            *zap.Logger
	settings       InvitationSettings

	now      func() time.Time
	newToken func() (string, error)
}

func NewInvitationService(
	invitationRepo repositories.InvitationRepository,
	memberRepo repositories.MemberRepository,
	userRepo repositories.UserRepository,
	planRepo repositories.PlanRepository,
	perms PermissionServiceInterface,
	tx infra.Transactor,
	mailer IMailService,
	log *zap.Logger,
	settings InvitationSettings,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		memberRepo:     memberRepo,
		userRepo:       userRepo,
		planRepo:       planRepo,
		perms:          perms,
		tx:             tx,
		mailer:         mailer,
		log:            log,
		settings:       settings,
		now:            time.Now,
		newToken:       utils.GenerateInvitationToken,
	}
}

func (s *InvitationService) Invite(ctx context.Context, planID, inviterID uuid.UUID, req request_models.InviteRequest) (*response_models.InvitationResponse, error) {
	role, ok := db_models.ParseMemberRole(req.Role)
	if !ok {
		return nil, utils.ErrInvalidRole
	}
	if role == db_models.RoleOwner {
		return nil, fmt.Errorf("cannot invite as %s: %w", role, utils.ErrInvalidRole)
	}
	email := db_models.NormalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("invitee email: %w", utils.ErrInvalidInput)
	}

	var (
		invitation *db_models.PlanInvitation
		plan       *db_models.Plan
		inviter    *db_models.User
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if _, err = s.perms.RequireOwnerOrEditor(ctx, planID, inviterID); err != nil {
			return err
		}
		if plan, err = requirePlan(ctx, s.planRepo, planID); err != nil {
			return err
		}
		if inviter, err = s.userRepo.FindByID(ctx, inviterID); err != nil {
			return utils.DBError(err)
		}
		if inviter == nil {
			return utils.ErrUserNotFound
		}

		invitee, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return utils.DBError(err)
		}
		if invitee != nil {
			member, err := s.memberRepo.Find(ctx, planID, invitee.ID)
			if err != nil {
				return utils.DBError(err)
			}
			if member != nil {
				return utils.ErrAlreadyMember
			}
		}

		// Re-inviting replaces whatever row exists for the address.
		if _, err = s.invitationRepo.DeleteByPlanAndEmail(ctx, planID, email); err != nil {
			return utils.DBError(err)
		}
		token, err := s.newToken()
		if err != nil {
			return fmt.Errorf("generate invitation token: %w", err)
		}
		invitation = &db_models.PlanInvitation{
			PlanID:       planID,
			InviteeEmail: email,
			InviterID:    inviterID,
			Token:        token,
			Role:         role,
			Status:       db_models.InvitationPending,
			ExpiresAt:    s.now().Add(s.settings.TTL).Unix(),
		}
		if err = s.invitationRepo.Create(ctx, invitation); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendInvitationMail(email, inviter.Nickname, plan.Title, invitation.Token); err != nil {
		s.log.Warn("invitation mail not sent",
			zap.String("invitation_id", invitation.ID.String()),
			zap.String("plan_id", planID.String()),
			zap.Error(err))
	}

	resp := s.toResponse(invitation, inviter.Nickname)
	resp.Token = invitation.Token
	return &resp, nil
}

func (s *InvitationService) Accept(ctx context.Context, token string, userID uuid.UUID) (*response_models.AcceptInvitationResponse, error) {
	var planID uuid.UUID
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.usableInvitation(ctx, token)
		if err != nil {
			return err
		}
		if _, err := s.requireInvitee(ctx, inv, userID); err != nil {
			return err
		}

		existing, err := s.memberRepo.Find(ctx, inv.PlanID, userID)
		if err != nil {
			return utils.DBError(err)
		}
		if existing != nil {
			return utils.ErrAlreadyMember
		}
		member := &db_models.PlanMember{PlanID: inv.PlanID, UserID: userID, Role: inv.Role}
		if err := s.memberRepo.Create(ctx, member); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrAlreadyMember
			}
			return utils.DBError(err)
		}

		if err := s.invitationRepo.UpdateStatus(ctx, inv.ID, db_models.InvitationAccepted); err != nil {
			return utils.DBError(err)
		}
		if s.settings.DeleteAfterAccept {
			if err := s.invitationRepo.Delete(ctx, inv.ID); err != nil {
				return utils.DBError(err)
			}
		}
		planID = inv.PlanID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invitation accepted", zap.String("plan_id", planID.String()), zap.String("user_id", userID.String()))
	return &response_models.AcceptInvitationResponse{
		PlanID:       planID.String(),
		RedirectPath: PlanRedirectPath(planID),
	}, nil
}

func (s *InvitationService) Reject(ctx context.Context, token string, userID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.usableInvitation(ctx, token)
		if err != nil {
			return err
		}
		if _, err := s.requireInvitee(ctx, inv, userID); err != nil {
			return err
		}
		if err := s.invitationRepo.UpdateStatus(ctx, inv.ID, db_models.InvitationRejected); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
}

func (s *InvitationService) CheckByToken(ctx context.Context, token string) (*response_models.InvitationCheckResponse, error) {
	inv, err := s.usableInvitation(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByEmail(ctx, inv.InviteeEmail)
	if err != nil {
		return nil, utils.DBError(err)
	}

	next := InvitationNextSignup
	if user != nil {
		next = InvitationNextLogin
	}
	return &response_models.InvitationCheckResponse{
		PlanID:       inv.PlanID.String(),
		PlanTitle:    inv.Plan.Title,
		InviterName:  inv.Inviter.Nickname,
		InviteeEmail: inv.InviteeEmail,
		Role:         string(inv.Role),
		Status:       string(inv.EffectiveStatus(s.now())),
		ExpiresAt:    utils.FormatRFC3339(inv.ExpiresAt),
		UserExists:   user != nil,
		Next:         next,
	}, nil
}

func (s *InvitationService) EmailMatches(ctx context.Context, token, candidateEmail string) (bool, error) {
	inv, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return false, utils.DBError(err)
	}
	if inv == nil {
		return false, utils.ErrInvitationNotFound
	}
	return db_models.EmailMatches(inv.InviteeEmail, candidateEmail), nil
}

func (s *InvitationService) ResolveInvitation(ctx context.Context, token string, principal *Principal) (*response_models.InvitationCheckResponse, error) {
	check, err := s.CheckByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if principal == nil || !db_models.EmailMatches(principal.Email, check.InviteeEmail) {
		return check, nil
	}

	accepted, err := s.Accept(ctx, token, principal.UserID)
	if err != nil {
		return nil, err
	}
	check.Next = InvitationNextAccepted
	check.Status = string(db_models.InvitationAccepted)
	check.RedirectPath = accepted.RedirectPath
	return check, nil
}

func (s *InvitationService) ListInvitations(ctx context.Context, planID, userID uuid.UUID) ([]response_models.InvitationResponse, error) {
	if _, err := s.perms.RequireOwnerOrEditor(ctx, planID, userID); err != nil {
		return nil, err
	}
	if _, err := requirePlan(ctx, s.planRepo, planID); err != nil {
		return nil, err
	}
	invitations, err := s.invitationRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := make([]response_models.InvitationResponse, 0, len(invitations))
	for i := range invitations {
		out = append(out, s.toResponse(&invitations[i], invitations[i].Inviter.Nickname))
	}
	return out, nil
}

func (s *InvitationService) CancelInvitation(ctx context.Context, planID, invitationID, userID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.perms.RequireOwnerOrEditor(ctx, planID, userID); err != nil {
			return err
		}
		inv, err := s.invitationRepo.FindByID(ctx, invitationID)
		if err != nil {
			return utils.DBError(err)
		}
		if inv == nil || inv.PlanID != planID {
			return utils.ErrInvitationNotFound
		}
		if err := s.invitationRepo.Delete(ctx, inv.ID); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
}

// usableInvitation loads the invitation for token and checks it can still be
// acted on. Expiry wins over the stored status.
func (s *InvitationService) usableInvitation(ctx context.Context, token string) (*db_models.PlanInvitation, error) {
	if token == "" {
		return nil, utils.ErrInvitationNotFound
	}
	inv, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if inv == nil {
		return nil, utils.ErrInvitationNotFound
	}
	if inv.Expired(s.now()) {
		return nil, utils.ErrInvitationExpired
	}
	if inv.Status != db_models.InvitationPending {
		return nil, utils.ErrInvitationNotActive
	}
	return inv, nil
}

// requireInvitee loads the user and checks they own the invited address.
func (s *InvitationService) requireInvitee(ctx context.Context, inv *db_models.PlanInvitation, userID uuid.UUID) (*db_models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	if !db_models.EmailMatches(user.Email, inv.InviteeEmail) {
		s.log.Warn("invitation email mismatch",
			zap.String("invitation_id", inv.ID.String()),
			zap.String("user_id", userID.String()))
		return nil, utils.ErrInviteeMismatch
	}
	return user, nil
}

func (s *InvitationService) toResponse(inv *db_models.PlanInvitation, inviterName string) response_models.InvitationResponse {
	return response_models.InvitationResponse{
		ID:           inv.ID.String(),
		PlanID:       inv.PlanID.String(),
		InviteeEmail: inv.InviteeEmail,
		Role:         string(inv.Role),
		Status:       string(inv.EffectiveStatus(s.now())),
		ExpiresAt:    utils.FormatRFC3339(inv.ExpiresAt),
		InviterName:  inviterName,
	}
}
