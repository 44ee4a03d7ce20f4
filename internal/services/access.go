package services

import (
	"context"

	"github.com/google/uuid"

	"tabi/internal/models/db_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

// Principal is the authenticated caller as reported by the auth layer.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

// requirePlan loads a plan. Callers run their permission check first so a
// non-member cannot tell a missing plan from one they were not invited to.
func requirePlan(ctx context.Context, plans repositories.PlanRepository, planID uuid.UUID) (*db_models.Plan, error) {
	plan, err := plans.FindByID(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}

// dayGate resolves a daily plan and checks the caller's role on its plan.
type dayGate struct {
	days  repositories.DailyPlanRepository
	perms PermissionServiceInterface
}

// forRead requires plain membership.
func (g dayGate) forRead(ctx context.Context, dayID, userID uuid.UUID) (*db_models.DailyPlan, error) {
	day, err := g.days.FindByID(ctx, dayID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if day == nil {
		return nil, utils.ErrDailyPlanNotFound
	}
	if _, err := g.perms.RequireMember(ctx, day.PlanID, userID); err != nil {
		return nil, err
	}
	return day, nil
}

// forWrite requires OWNER or EDITOR and locks the daily plan row for the
// rest of the transaction in ctx.
func (g dayGate) forWrite(ctx context.Context, dayID, userID uuid.UUID) (*db_models.DailyPlan, error) {
	day, err := g.days.LockByID(ctx, dayID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if day == nil {
		return nil, utils.ErrDailyPlanNotFound
	}
	if _, err := g.perms.RequireOwnerOrEditor(ctx, day.PlanID, userID); err != nil {
		return nil, err
	}
	return day, nil
}
