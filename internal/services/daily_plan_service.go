package services

import (
	"context"
	"errors"

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

type DailyPlanServiceInterface interface {
	AddDailyPlan(ctx context.Context, planID, userID uuid.UUID, req request_models.AddDailyPlanRequest) (*response_models.DailyPlanResponse, error)
	GetDailyPlan(ctx context.Context, dayID, userID uuid.UUID) (*response_models.DailyPlanResponse, error)
	ListDailyPlans(ctx context.Context, planID, userID uuid.UUID) ([]response_models.DailyPlanResponse, error)
	UpdateDailyPlan(ctx context.Context, dayID, userID uuid.UUID, req request_models.UpdateDailyPlanRequest) (*response_models.DailyPlanResponse, error)
	DeleteDailyPlan(ctx context.Context, dayID, userID uuid.UUID) error
}

type DailyPlanService struct {
	planRepo    repositories.PlanRepository
	dayRepo     repositories.DailyPlanRepository
	spotRepo    repositories.SpotRepository
	segmentRepo repositories.TravelSegmentRepository
	expenseRepo repositories.ExpenseRepository
	perms       PermissionServiceInterface
	tx          infra.Transactor
	log         *zap.Logger
	gate        dayGate
}

func NewDailyPlanService(
	planRepo repositories.PlanRepository,
	dayRepo repositories.DailyPlanRepository,
	spotRepo repositories.SpotRepository,
	segmentRepo repositories.TravelSegmentRepository,
	expenseRepo repositories.ExpenseRepository,
	perms PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
) DailyPlanServiceInterface {
	return &DailyPlanService{
		planRepo:    planRepo,
		dayRepo:     dayRepo,
		spotRepo:    spotRepo,
		segmentRepo: segmentRepo,
		expenseRepo: expenseRepo,
		perms:       perms,
		tx:          tx,
		log:         log,
		gate:        dayGate{days: dayRepo, perms: perms},
	}
}

func (d *DailyPlanService) AddDailyPlan(ctx context.Context, planID, userID uuid.UUID, req request_models.AddDailyPlanRequest) (*response_models.DailyPlanResponse, error) {
	date, err := utils.ParseDate(req.VisitDate)
	if err != nil {
		return nil, err
	}
	departure, err := utils.ParseClock(req.DepartureTime)
	if err != nil {
		return nil, err
	}

	day := &db_models.DailyPlan{PlanID: planID, VisitDate: date, DepartureTime: departure}
	err = d.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := d.perms.RequireOwnerOrEditor(ctx, planID, userID); err != nil {
			return err
		}
		plan, err := requirePlan(ctx, d.planRepo, planID)
		if err != nil {
			return err
		}
		visit := utils.DateOf(date)
		if visit.Before(utils.DateOf(plan.StartDate)) || visit.After(utils.DateOf(plan.EndDate)) {
			return utils.ErrDateOutOfRange
		}
		existing, err := d.dayRepo.FindByPlanAndDate(ctx, planID, date)
		if err != nil {
			return utils.DBError(err)
		}
		if existing != nil {
			return utils.ErrDuplicateVisitDate
		}
		if err := d.dayRepo.Create(ctx, day); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrDuplicateVisitDate
			}
			return utils.DBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toDailyPlanResponse(day)
	return &resp, nil
}

func (d *DailyPlanService) GetDailyPlan(ctx context.Context, dayID, userID uuid.UUID) (*response_models.DailyPlanResponse, error) {
	day, err := d.gate.forRead(ctx, dayID, userID)
	if err != nil {
		return nil, err
	}
	return d.withChildren(ctx, day)
}

func (d *DailyPlanService) ListDailyPlans(ctx context.Context, planID, userID uuid.UUID) ([]response_models.DailyPlanResponse, error) {
	if _, err := d.perms.RequireMember(ctx, planID, userID); err != nil {
		return nil, err
	}
	if _, err := requirePlan(ctx, d.planRepo, planID); err != nil {
		return nil, err
	}
	days, err := d.dayRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := make([]response_models.DailyPlanResponse, 0, len(days))
	for i := range days {
		resp, err := d.withChildren(ctx, &days[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (d *DailyPlanService) UpdateDailyPlan(ctx context.Context, dayID, userID uuid.UUID, req request_models.UpdateDailyPlanRequest) (*response_models.DailyPlanResponse, error) {
	departure, err := utils.ParseClock(req.DepartureTime)
	if err != nil {
		return nil, err
	}
	var day *db_models.DailyPlan
	err = d.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if day, err = d.gate.forWrite(ctx, dayID, userID); err != nil {
			return err
		}
		if err := d.dayRepo.UpdateDepartureTime(ctx, dayID, departure); err != nil {
			return utils.DBError(err)
		}
		day.DepartureTime = departure
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d.withChildren(ctx, day)
}

// DeleteDailyPlan removes the day with its spots, segments and the expenses
// created for its spots.
func (d *DailyPlanService) DeleteDailyPlan(ctx context.Context, dayID, userID uuid.UUID) error {
	return d.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := d.gate.forWrite(ctx, dayID, userID); err != nil {
			return err
		}
		if err := d.expenseRepo.DeleteBySpotsOfDays(ctx, []uuid.UUID{dayID}); err != nil {
			return utils.DBError(err)
		}
		if err := d.dayRepo.Delete(ctx, dayID); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
}

func (d *DailyPlanService) withChildren(ctx context.Context, day *db_models.DailyPlan) (*response_models.DailyPlanResponse, error) {
	spots, err := d.spotRepo.ListByDailyPlan(ctx, day.ID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	segments, err := d.segmentRepo.ListByDailyPlan(ctx, day.ID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	day.Spots, day.TravelSegments = spots, segments
	resp := toDailyPlanResponse(day)
	return &resp, nil
}
