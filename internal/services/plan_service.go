package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

type PlanServiceInterface interface {
	CreatePlan(ctx context.Context, userID uuid.UUID, req request_models.CreatePlanRequest) (*response_models.PlanDetailResponse, error)
	GetPlan(ctx context.Context, planID, userID uuid.UUID) (*response_models.PlanDetailResponse, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]response_models.PlanResponse, error)
	UpdatePlan(ctx context.Context, planID, userID uuid.UUID, req request_models.UpdatePlanRequest) (*response_models.PlanDetailResponse, error)
	DeletePlan(ctx context.Context, planID, userID uuid.UUID) error
}

type PlanService struct {
	planRepo       repositories.PlanRepository
	dayRepo        repositories.DailyPlanRepository
	memberRepo     repositories.MemberRepository
	invitationRepo repositories.InvitationRepository
	expenseRepo    repositories.ExpenseRepository
	perms          PermissionServiceInterface
	tx             infra.Transactor
	log            *zap.Logger
	maxDays        int
}

func NewPlanService(
	planRepo repositories.PlanRepository,
	dayRepo repositories.DailyPlanRepository,
	memberRepo repositories.MemberRepository,
	invitationRepo repositories.InvitationRepository,
	expenseRepo repositories.ExpenseRepository,
	perms PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
	maxDays int,
) PlanServiceInterface {
	return &PlanService{
		planRepo:       planRepo,
		dayRepo:        dayRepo,
		memberRepo:     memberRepo,
		invitationRepo: invitationRepo,
		expenseRepo:    expenseRepo,
		perms:          perms,
		tx:             tx,
		log:            log,
		maxDays:        maxDays,
	}
}

// CreatePlan stores the plan, the creator's OWNER membership and one daily
// plan per day of the range in a single transaction.
func (p *PlanService) CreatePlan(ctx context.Context, userID uuid.UUID, req request_models.CreatePlanRequest) (*response_models.PlanDetailResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title: %w", utils.ErrInvalidInput)
	}
	start, end, days, err := p.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	plan := &db_models.Plan{
		UserID:      userID,
		Title:       title,
		StartDate:   start,
		EndDate:     end,
		TotalBudget: req.TotalBudget,
	}
	err = p.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := p.planRepo.Create(ctx, plan); err != nil {
			return utils.DBError(err)
		}
		owner := &db_models.PlanMember{PlanID: plan.ID, UserID: userID, Role: db_models.RoleOwner}
		if err := p.memberRepo.Create(ctx, owner); err != nil {
			return utils.DBError(err)
		}
		if err := p.dayRepo.CreateBatch(ctx, newDailyPlans(plan.ID, days)); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Info("plan created", zap.String("plan_id", plan.ID.String()), zap.Int("days", len(days)))
	return p.detail(ctx, plan.ID, db_models.RoleOwner)
}

func (p *PlanService) GetPlan(ctx context.Context, planID, userID uuid.UUID) (*response_models.PlanDetailResponse, error) {
	member, err := p.perms.RequireMember(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := requirePlan(ctx, p.planRepo, planID); err != nil {
		return nil, err
	}
	return p.detail(ctx, planID, member.Role)
}

func (p *PlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]response_models.PlanResponse, error) {
	plans, err := p.planRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	memberships, err := p.memberRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	roles := make(map[uuid.UUID]db_models.MemberRole, len(memberships))
	for _, m := range memberships {
		roles[m.PlanID] = m.Role
	}

	out := make([]response_models.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, toPlanResponse(&plans[i], roles[plans[i].ID]))
	}
	return out, nil
}

// UpdatePlan applies the given fields. A new date range drops daily plans
// that fall outside it and adds the missing days.
func (p *PlanService) UpdatePlan(ctx context.Context, planID, userID uuid.UUID, req request_models.UpdatePlanRequest) (*response_models.PlanDetailResponse, error) {
	var role db_models.MemberRole
	err := p.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		member, err := p.perms.RequireOwnerOrEditor(ctx, planID, userID)
		if err != nil {
			return err
		}
		plan, err := requirePlan(ctx, p.planRepo, planID)
		if err != nil {
			return err
		}
		role = member.Role

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return fmt.Errorf("title: %w", utils.ErrInvalidInput)
			}
			plan.Title = title
		}
		if req.TotalBudget != nil {
			plan.TotalBudget = *req.TotalBudget
		}

		rangeChanged := req.StartDate != nil || req.EndDate != nil
		if rangeChanged {
			startStr, endStr := utils.FormatDate(plan.StartDate), utils.FormatDate(plan.EndDate)
			if req.StartDate != nil {
				startStr = *req.StartDate
			}
			if req.EndDate != nil {
				endStr = *req.EndDate
			}
			start, end, days, err := p.parseRange(startStr, endStr)
			if err != nil {
				return err
			}
			plan.StartDate, plan.EndDate = start, end
			if err := p.syncDays(ctx, planID, start, end, days); err != nil {
				return err
			}
		}

		if err := p.planRepo.Update(ctx, plan); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.detail(ctx, planID, role)
}

func (p *PlanService) DeletePlan(ctx context.Context, planID, userID uuid.UUID) error {
	err := p.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := p.perms.RequireOwner(ctx, planID, userID); err != nil {
			return err
		}
		if _, err := requirePlan(ctx, p.planRepo, planID); err != nil {
			return err
		}
		if err := p.invitationRepo.DeleteByPlan(ctx, planID); err != nil {
			return utils.DBError(err)
		}
		if err := p.expenseRepo.DeleteByPlan(ctx, planID); err != nil {
			return utils.DBError(err)
		}
		if err := p.memberRepo.DeleteByPlan(ctx, planID); err != nil {
			return utils.DBError(err)
		}
		// daily plans, spots and segments go with the plan row
		if err := p.planRepo.Delete(ctx, planID); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.log.Info("plan deleted", zap.String("plan_id", planID.String()))
	return nil
}

func (p *PlanService) parseRange(startStr, endStr string) (datatypes.Date, datatypes.Date, []datatypes.Date, error) {
	start, err := utils.ParseDate(startStr)
	if err != nil {
		return datatypes.Date{}, datatypes.Date{}, nil, err
	}
	end, err := utils.ParseDate(endStr)
	if err != nil {
		return datatypes.Date{}, datatypes.Date{}, nil, err
	}
	if utils.DateOf(start).After(utils.DateOf(end)) {
		return datatypes.Date{}, datatypes.Date{}, nil, utils.ErrInvalidDateRange
	}
	if span := utils.DaySpan(start, end); span > p.maxDays {
		return datatypes.Date{}, datatypes.Date{}, nil,
			fmt.Errorf("plan spans %d days, limit is %d: %w", span, p.maxDays, utils.ErrInvalidInput)
	}
	return start, end, utils.DaysBetween(start, end), nil
}

func (p *PlanService) syncDays(ctx context.Context, planID uuid.UUID, start, end datatypes.Date, days []datatypes.Date) error {
	existing, err := p.dayRepo.ListByPlan(ctx, planID)
	if err != nil {
		return utils.DBError(err)
	}

	have := make(map[time.Time]bool, len(existing))
	var outside []uuid.UUID
	for _, d := range existing {
		date := utils.DateOf(d.VisitDate)
		if date.Before(utils.DateOf(start)) || date.After(utils.DateOf(end)) {
			outside = append(outside, d.ID)
			continue
		}
		have[date] = true
	}
	if len(outside) > 0 {
		if err := p.expenseRepo.DeleteBySpotsOfDays(ctx, outside); err != nil {
			return utils.DBError(err)
		}
		if err := p.dayRepo.DeleteOutsideRange(ctx, planID, start, end); err != nil {
			return utils.DBError(err)
		}
	}

	var missing []datatypes.Date
	for _, d := range days {
		if !have[utils.DateOf(d)] {
			missing = append(missing, d)
		}
	}
	if err := p.dayRepo.CreateBatch(ctx, newDailyPlans(planID, missing)); err != nil {
		return utils.DBError(err)
	}
	return nil
}

func (p *PlanService) detail(ctx context.Context, planID uuid.UUID, role db_models.MemberRole) (*response_models.PlanDetailResponse, error) {
	plan, err := p.planRepo.FindDetail(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	out := &response_models.PlanDetailResponse{
		PlanResponse: toPlanResponse(plan, role),
		DailyPlans:   make([]response_models.DailyPlanResponse, 0, len(plan.DailyPlans)),
	}
	for i := range plan.DailyPlans {
		out.DailyPlans = append(out.DailyPlans, toDailyPlanResponse(&plan.DailyPlans[i]))
	}
	return out, nil
}

func newDailyPlans(planID uuid.UUID, dates []datatypes.Date) []db_models.DailyPlan {
	out := make([]db_models.DailyPlan, 0, len(dates))
	for _, d := range dates {
		out = append(out, db_models.DailyPlan{PlanID: planID, VisitDate: d})
	}
	return out
}
