package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabi/internal/models/db_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

// PermissionServiceInterface gates plan-scoped operations on the caller's
// PlanMember row. Every check denies when the row is missing or cannot be read.
type PermissionServiceInterface interface {
	IsMember(ctx context.Context, planID, userID uuid.UUID) (bool, error)
	RequireMember(ctx context.Context, planID, userID uuid.UUID) (*db_models.PlanMember, error)
	RequireOwnerOrEditor(ctx context.Context, planID, userID uuid.UUID) (*db_models.PlanMember, error)
	RequireOwner(ctx context.Context, planID, userID uuid.UUID) (*db_models.PlanMember, error)
}

type PermissionService struct {
	memberRepo repositories.MemberRepository
	log        *zap.Logger
}

func NewPermissionService(memberRepo repositories.MemberRepository, log *zap.Logger) PermissionServiceInterface {
	return &PermissionService{memberRepo: memberRepo, log: log}
}

func (p *PermissionService) IsMember(ctx context.Context, planID, userID uuid.UUID) (bool, error) {
	member, err := p.memberRepo.Find(ctx, planID, userID)
	if err != nil {
		return false, utils.DBError(err)
	}
	return member != nil, nil
}

func (p *PermissionService) RequireMember(ctx context.Context, planID, userID uuid.UUID) (*db_models.PlanMember, error) {
	member, err := p.memberRepo.Find(ctx, planID, userID)
	if err != nil {
		p.log.Error("membership lookup failed", zap.String("plan_id", planID.String()), zap.Error(err))
		return nil, utils.DBError(err)
	}
	if member == nil {
		return nil, utils.ErrNotPlanMember
	}
	return member, nil
}

func (p *PermissionService) RequireOwnerOrEditor(ctx context.Context, planID, userID uuid.UUID) (*db_models.PlanMember, error) {
	member, err := p.RequireMember(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	if !member.Role.CanEdit() {
		return nil, utils.ErrOwnerOrEditorOnly
	}
	return member, nil
}

func (p *PermissionService) RequireOwner(ctx context.Context, planID, userID uuid.UUID) (*db_models.PlanMember, error) {
	member, err := p.RequireMember(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != db_models.RoleOwner {
		return nil, utils.ErrOwnerOnly
	}
	return member, nil
}
