package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

type MemberServiceInterface interface {
	ListMembers(ctx context.Context, planID, userID uuid.UUID) ([]response_models.MemberResponse, error)
	ChangeRole(ctx context.Context, planID, actorID, targetID uuid.UUID, role string) (*response_models.MemberResponse, error)
	RemoveMember(ctx context.Context, planID, actorID, targetID uuid.UUID) error
	LeavePlan(ctx context.Context, planID, userID uuid.UUID) error
}

type MemberService struct {
	memberRepo repositories.MemberRepository
	planRepo   repositories.PlanRepository
	perms      PermissionServiceInterface
	tx         infra.Transactor
	log        *zap.Logger
}

func NewMemberService(
	memberRepo repositories.MemberRepository,
	planRepo repositories.PlanRepository,
	perms PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
) MemberServiceInterface {
	return &MemberService{memberRepo: memberRepo, planRepo: planRepo, perms: perms, tx: tx, log: log}
}

func (m *MemberService) ListMembers(ctx context.Context, planID, userID uuid.UUID) ([]response_models.MemberResponse, error) {
	if _, err := m.perms.RequireMember(ctx, planID, userID); err != nil {
		return nil, err
	}
	if _, err := requirePlan(ctx, m.planRepo, planID); err != nil {
		return nil, err
	}
	members, err := m.memberRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := make([]response_models.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i]))
	}
	return out, nil
}

// ChangeRole never touches the owner and never hands out OWNER.
func (m *MemberService) ChangeRole(ctx context.Context, planID, actorID, targetID uuid.UUID, roleName string) (*response_models.MemberResponse, error) {
	role, ok := db_models.ParseMemberRole(roleName)
	if !ok {
		return nil, utils.ErrInvalidRole
	}

	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := m.perms.RequireOwnerOrEditor(ctx, planID, actorID); err != nil {
			return err
		}
		if _, err := requirePlan(ctx, m.planRepo, planID); err != nil {
			return err
		}
		if role == db_models.RoleOwner {
			return utils.ErrOwnerNotGrantable
		}
		target, err := m.findTarget(ctx, planID, targetID)
		if err != nil {
			return err
		}
		if target.Role == role {
			return nil
		}
		if err := m.memberRepo.UpdateRole(ctx, planID, targetID, role); err != nil {
			return utils.DBError(err)
		}
		m.log.Info("member role changed",
			zap.String("plan_id", planID.String()),
			zap.String("user_id", targetID.String()),
			zap.String("role", string(role)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.memberResponse(ctx, planID, targetID)
}

func (m *MemberService) RemoveMember(ctx context.Context, planID, actorID, targetID uuid.UUID) error {
	return m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := m.perms.RequireOwnerOrEditor(ctx, planID, actorID); err != nil {
			return err
		}
		if _, err := requirePlan(ctx, m.planRepo, planID); err != nil {
			return err
		}
		if _, err := m.findTarget(ctx, planID, targetID); err != nil {
			return err
		}
		if err := m.memberRepo.Delete(ctx, planID, targetID); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
}

// LeavePlan lets any member but the owner drop themself from the plan.
func (m *MemberService) LeavePlan(ctx context.Context, planID, userID uuid.UUID) error {
	return m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		member, err := m.perms.RequireMember(ctx, planID, userID)
		if err != nil {
			return err
		}
		if member.Role == db_models.RoleOwner {
			return utils.ErrOwnerImmutable
		}
		if err := m.memberRepo.Delete(ctx, planID, userID); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
}

// findTarget loads a member that may be modified, which excludes the owner.
func (m *MemberService) findTarget(ctx context.Context, planID, targetID uuid.UUID) (*db_models.PlanMember, error) {
	target, err := m.memberRepo.Find(ctx, planID, targetID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if target == nil {
		return nil, utils.ErrMemberNotFound
	}
	if target.Role == db_models.RoleOwner {
		return nil, utils.ErrOwnerImmutable
	}
	return target, nil
}

func (m *MemberService) memberResponse(ctx context.Context, planID, userID uuid.UUID) (*response_models.MemberResponse, error) {
	members, err := m.memberRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	for i := range members {
		if members[i].UserID == userID {
			resp := toMemberResponse(&members[i])
			return &resp, nil
		}
	}
	return nil, utils.ErrMemberNotFound
}
