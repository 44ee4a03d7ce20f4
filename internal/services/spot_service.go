package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

type SpotServiceInterface interface {
	AddSpot(ctx context.Context, dayID, userID uuid.UUID, req request_models.AddSpotRequest) (*response_models.SpotResponse, error)
	GetSpot(ctx context.Context, spotID, userID uuid.UUID) (*response_models.SpotResponse, error)
	ListSpots(ctx context.Context, dayID, userID uuid.UUID) ([]response_models.SpotResponse, error)
	UpdateSpot(ctx context.Context, spotID, userID uuid.UUID, req request_models.UpdateSpotRequest) (*response_models.SpotResponse, error)
	DeleteSpot(ctx context.Context, spotID, userID uuid.UUID) error
}

type SpotService struct {
	spotRepo    repositories.SpotRepository
	segmentRepo repositories.TravelSegmentRepository
	expenseRepo repositories.ExpenseRepository
	ordering    OrderingEngine
	tx          infra.Transactor
	log         *zap.Logger
	gate        dayGate
}

func NewSpotService(
	spotRepo repositories.SpotRepository,
	segmentRepo repositories.TravelSegmentRepository,
	expenseRepo repositories.ExpenseRepository,
	dayRepo repositories.DailyPlanRepository,
	perms PermissionServiceInterface,
	ordering OrderingEngine,
	tx infra.Transactor,
	log *zap.Logger,
) SpotServiceInterface {
	return &SpotService{
		spotRepo:    spotRepo,
		segmentRepo: segmentRepo,
		expenseRepo: expenseRepo,
		ordering:    ordering,
		tx:          tx,
		log:         log,
		gate:        dayGate{days: dayRepo, perms: perms},
	}
}

// AddSpot appends a spot to the day. A spot with a cost also gets a linked
// expense on the plan.
func (s *SpotService) AddSpot(ctx context.Context, dayID, userID uuid.UUID, req request_models.AddSpotRequest) (*response_models.SpotResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("spot name: %w", utils.ErrInvalidInput)
	}
	if req.Cost < 0 || req.Duration < 0 {
		return nil, fmt.Errorf("negative cost or duration: %w", utils.ErrInvalidInput)
	}

	var spotID uuid.UUID
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		day, err := s.gate.forWrite(ctx, dayID, userID)
		if err != nil {
			return err
		}
		order, err := s.ordering.Insert(ctx, s.spotRepo, day.ID, req.Order)
		if err != nil {
			return err
		}

		spot := &db_models.Spot{
			DailyPlanID: day.ID,
			Name:        name,
			Address:     strings.TrimSpace(req.Address),
			Category:    strings.TrimSpace(req.Category),
			VisitOrder:  order,
			Duration:    req.Duration,
			Cost:        req.Cost,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		}
		if err := s.spotRepo.Create(ctx, spot); err != nil {
			return utils.DBError(err)
		}
		if err := s.ordering.Reorder(ctx, s.spotRepo, day.ID); err != nil {
			return err
		}
		if err := s.syncExpense(ctx, day, spot); err != nil {
			return err
		}
		spotID = spot.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, spotID)
}

func (s *SpotService) GetSpot(ctx context.Context, spotID, userID uuid.UUID) (*response_models.SpotResponse, error) {
	spot, err := s.find(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.forRead(ctx, spot.DailyPlanID, userID); err != nil {
		return nil, err
	}
	resp := toSpotResponse(spot)
	return &resp, nil
}

func (s *SpotService) ListSpots(ctx context.Context, dayID, userID uuid.UUID) ([]response_models.SpotResponse, error) {
	if _, err := s.gate.forRead(ctx, dayID, userID); err != nil {
		return nil, err
	}
	spots, err := s.spotRepo.ListByDailyPlan(ctx, dayID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := make([]response_models.SpotResponse, 0, len(spots))
	for i := range spots {
		out = append(out, toSpotResponse(&spots[i]))
	}
	return out, nil
}

func (s *SpotService) UpdateSpot(ctx context.Context, spotID, userID uuid.UUID, req request_models.UpdateSpotRequest) (*response_models.SpotResponse, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		spot, err := s.find(ctx, spotID)
		if err != nil {
			return err
		}
		day, err := s.gate.forWrite(ctx, spot.DailyPlanID, userID)
		if err != nil {
			return err
		}
		// re-read under the day lock
		if spot, err = s.find(ctx, spotID); err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("spot name: %w", utils.ErrInvalidInput)
			}
			spot.Name = name
		}
		if req.Address != nil {
			spot.Address = strings.TrimSpace(*req.Address)
		}
		if req.Category != nil {
			spot.Category = strings.TrimSpace(*req.Category)
		}
		if req.Duration != nil {
			if *req.Duration < 0 {
				return fmt.Errorf("duration: %w", utils.ErrInvalidInput)
			}
			spot.Duration = *req.Duration
		}
		if req.Cost != nil {
			if *req.Cost < 0 {
				return fmt.Errorf("cost: %w", utils.ErrInvalidInput)
			}
			spot.Cost = *req.Cost
		}
		if req.Latitude != nil {
			spot.Latitude = req.Latitude
		}
		if req.Longitude != nil {
			spot.Longitude = req.Longitude
		}
		if err := s.spotRepo.Update(ctx, spot); err != nil {
			return utils.DBError(err)
		}

		if req.Order != nil {
			if _, err := s.ordering.UpdateOrder(ctx, s.spotRepo, day.ID, spot.OrderKey(), *req.Order); err != nil {
				return err
			}
		}
		if req.Cost != nil || req.Name != nil {
			return s.syncExpense(ctx, day, spot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, spotID)
}

// DeleteSpot removes the spot, the segments that start or end at it and its
// linked expense, then closes the gaps in both orders.
func (s *SpotService) DeleteSpot(ctx context.Context, spotID, userID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		spot, err := s.find(ctx, spotID)
		if err != nil {
			return err
		}
		day, err := s.gate.forWrite(ctx, spot.DailyPlanID, userID)
		if err != nil {
			return err
		}

		removed, err := s.segmentRepo.DeleteTouchingSpot(ctx, spot.ID)
		if err != nil {
			return utils.DBError(err)
		}
		if err := s.expenseRepo.DeleteBySpotID(ctx, spot.ID); err != nil {
			return utils.DBError(err)
		}
		if err := s.spotRepo.Delete(ctx, spot.ID); err != nil {
			return utils.DBError(err)
		}
		if err := s.ordering.Reorder(ctx, s.spotRepo, day.ID); err != nil {
			return err
		}
		if removed > 0 {
			if err := s.ordering.Reorder(ctx, s.segmentRepo, day.ID); err != nil {
				return err
			}
		}
		s.log.Debug("spot deleted",
			zap.String("spot_id", spot.ID.String()),
			zap.Int64("segments_removed", removed))
		return nil
	})
}

// syncExpense keeps the spot's linked expense in line with its cost.
func (s *SpotService) syncExpense(ctx context.Context, day *db_models.DailyPlan, spot *db_models.Spot) error {
	expense, err := s.expenseRepo.FindBySpotID(ctx, spot.ID)
	if err != nil {
		return utils.DBError(err)
	}

	switch {
	case spot.Cost <= 0 && expense != nil:
		err = s.expenseRepo.Delete(ctx, expense.ID)
	case spot.Cost > 0 && expense == nil:
		category := spot.Category
		if category == "" {
			category = db_models.ExpenseCategorySpot
		}
		id := spot.ID
		err = s.expenseRepo.Create(ctx, &db_models.Expense{
			PlanID:   day.PlanID,
			SpotID:   &id,
			Item:     spot.Name,
			Amount:   spot.Cost,
			Category: category,
			Date:     day.VisitDate,
		})
	case spot.Cost > 0:
		expense.Item = spot.Name
		expense.Amount = spot.Cost
		err = s.expenseRepo.Update(ctx, expense)
	}
	if err != nil {
		return utils.DBError(err)
	}
	return nil
}

func (s *SpotService) find(ctx context.Context, spotID uuid.UUID) (*db_models.Spot, error) {
	spot, err := s.spotRepo.FindByID(ctx, spotID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if spot == nil {
		return nil, utils.ErrSpotNotFound
	}
	return spot, nil
}

func (s *SpotService) load(ctx context.Context, spotID uuid.UUID) (*response_models.SpotResponse, error) {
	spot, err := s.find(ctx, spotID)
	if err != nil {
		return nil, err
	}
	resp := toSpotResponse(spot)
	return &resp, nil
}
