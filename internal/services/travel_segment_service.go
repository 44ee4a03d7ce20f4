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

type TravelSegmentServiceInterface interface {
	AddSegment(ctx context.Context, dayID, userID uuid.UUID, req request_models.AddTravelSegmentRequest) (*response_models.TravelSegmentResponse, error)
	ListSegments(ctx context.Context, dayID, userID uuid.UUID) ([]response_models.TravelSegmentResponse, error)
	UpdateSegment(ctx context.Context, segmentID, userID uuid.UUID, req request_models.UpdateTravelSegmentRequest) (*response_models.TravelSegmentResponse, error)
	DeleteSegment(ctx context.Context, segmentID, userID uuid.UUID) error
}

type TravelSegmentService struct {
	segmentRepo repositories.TravelSegmentRepository
	spotRepo    repositories.SpotRepository
	ordering    OrderingEngine
	tx          infra.Transactor
	log         *zap.Logger
	gate        dayGate
}

func NewTravelSegmentService(
	segmentRepo repositories.TravelSegmentRepository,
	spotRepo repositories.SpotRepository,
	dayRepo repositories.DailyPlanRepository,
	perms PermissionServiceInterface,
	ordering OrderingEngine,
	tx infra.Transactor,
	log *zap.Logger,
) TravelSegmentServiceInterface {
	return &TravelSegmentService{
		segmentRepo: segmentRepo,
		spotRepo:    spotRepo,
		ordering:    ordering,
		tx:          tx,
		log:         log,
		gate:        dayGate{days: dayRepo, perms: perms},
	}
}

func ParseTravelMode(s string) (db_models.TravelMode, error) {
	mode := db_models.TravelMode(strings.ToUpper(strings.TrimSpace(s)))
	if !mode.Valid() {
		return "", utils.ErrInvalidTravelMode
	}
	return mode, nil
}

func (t *TravelSegmentService) AddSegment(ctx context.Context, dayID, userID uuid.UUID, req request_models.AddTravelSegmentRequest) (*response_models.TravelSegmentResponse, error) {
	mode, err := ParseTravelMode(req.TravelMode)
	if err != nil {
		return nil, err
	}
	from, to, err := parseEndpoints(req.FromSpotID, req.ToSpotID)
	if err != nil {
		return nil, err
	}
	if req.Duration < 0 {
		return nil, fmt.Errorf("duration: %w", utils.ErrInvalidInput)
	}

	var segmentID uuid.UUID
	err = t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		day, err := t.gate.forWrite(ctx, dayID, userID)
		if err != nil {
			return err
		}
		if err := t.checkEndpoints(ctx, day.ID, from, to); err != nil {
			return err
		}
		order, err := t.ordering.Insert(ctx, t.segmentRepo, day.ID, req.Order)
		if err != nil {
			return err
		}
		segment := &db_models.TravelSegment{
			DailyPlanID:  day.ID,
			FromSpotID:   from,
			ToSpotID:     to,
			SegmentOrder: order,
			Duration:     req.Duration,
			TravelMode:   mode,
		}
		if err := t.segmentRepo.Create(ctx, segment); err != nil {
			return utils.DBError(err)
		}
		if err := t.ordering.Reorder(ctx, t.segmentRepo, day.ID); err != nil {
			return err
		}
		segmentID = segment.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t.load(ctx, segmentID)
}

func (t *TravelSegmentService) ListSegments(ctx context.Context, dayID, userID uuid.UUID) ([]response_models.TravelSegmentResponse, error) {
	if _, err := t.gate.forRead(ctx, dayID, userID); err != nil {
		return nil, err
	}
	segments, err := t.segmentRepo.ListByDailyPlan(ctx, dayID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := make([]response_models.TravelSegmentResponse, 0, len(segments))
	for i := range segments {
		out = append(out, toSegmentResponse(&segments[i]))
	}
	return out, nil
}

func (t *TravelSegmentService) UpdateSegment(ctx context.Context, segmentID, userID uuid.UUID, req request_models.UpdateTravelSegmentRequest) (*response_models.TravelSegmentResponse, error) {
	err := t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		segment, err := t.find(ctx, segmentID)
		if err != nil {
			return err
		}
		day, err := t.gate.forWrite(ctx, segment.DailyPlanID, userID)
		if err != nil {
			return err
		}
		// re-read under the day lock
		if segment, err = t.find(ctx, segmentID); err != nil {
			return err
		}

		if req.TravelMode != nil {
			mode, err := ParseTravelMode(*req.TravelMode)
			if err != nil {
				return err
			}
			segment.TravelMode = mode
		}
		if req.Duration != nil {
			if *req.Duration < 0 {
				return fmt.Errorf("duration: %w", utils.ErrInvalidInput)
			}
			segment.Duration = *req.Duration
		}
		if req.FromSpotID != nil || req.ToSpotID != nil {
			fromStr, toStr := segment.FromSpotID.String(), segment.ToSpotID.String()
			if req.FromSpotID != nil {
				fromStr = *req.FromSpotID
			}
			if req.ToSpotID != nil {
				toStr = *req.ToSpotID
			}
			from, to, err := parseEndpoints(fromStr, toStr)
			if err != nil {
				return err
			}
			if err := t.checkEndpoints(ctx, day.ID, from, to); err != nil {
				return err
			}
			segment.FromSpotID, segment.ToSpotID = from, to
		}
		if err := t.segmentRepo.Update(ctx, segment); err != nil {
			return utils.DBError(err)
		}

		if req.Order != nil {
			if _, err := t.ordering.UpdateOrder(ctx, t.segmentRepo, day.ID, segment.OrderKey(), *req.Order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t.load(ctx, segmentID)
}

func (t *TravelSegmentService) DeleteSegment(ctx context.Context, segmentID, userID uuid.UUID) error {
	return t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		segment, err := t.find(ctx, segmentID)
		if err != nil {
			return err
		}
		day, err := t.gate.forWrite(ctx, segment.DailyPlanID, userID)
		if err != nil {
			return err
		}
		if err := t.segmentRepo.Delete(ctx, segment.ID); err != nil {
			return utils.DBError(err)
		}
		return t.ordering.Reorder(ctx, t.segmentRepo, day.ID)
	})
}

// checkEndpoints requires both spots to exist on the segment's own day.
func (t *TravelSegmentService) checkEndpoints(ctx context.Context, dayID, from, to uuid.UUID) error {
	spots, err := t.spotRepo.FindByIDs(ctx, from, to)
	if err != nil {
		return utils.DBError(err)
	}
	if len(spots) != 2 {
		return utils.ErrSpotNotFound
	}
	for _, sp := range spots {
		if sp.DailyPlanID != dayID {
			return utils.ErrCrossDaySegment
		}
	}
	return nil
}

func (t *TravelSegmentService) find(ctx context.Context, segmentID uuid.UUID) (*db_models.TravelSegment, error) {
	segment, err := t.segmentRepo.FindByID(ctx, segmentID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if segment == nil {
		return nil, utils.ErrSegmentNotFound
	}
	return segment, nil
}

func (t *TravelSegmentService) load(ctx context.Context, segmentID uuid.UUID) (*response_models.TravelSegmentResponse, error) {
	segment, err := t.find(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	resp := toSegmentResponse(segment)
	return &resp, nil
}

func parseEndpoints(fromStr, toStr string) (uuid.UUID, uuid.UUID, error) {
	from, err := uuid.Parse(fromStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("from_spot_id: %w", utils.ErrInvalidInput)
	}
	to, err := uuid.Parse(toStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("to_spot_id: %w", utils.ErrInvalidInput)
	}
	if from == to {
		return uuid.Nil, uuid.Nil, fmt.Errorf("segment must join two different spots: %w", utils.ErrInvalidInput)
	}
	return from, to, nil
}
