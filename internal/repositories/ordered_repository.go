package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	dbm "tabi/internal/models/db_models"
)

// OrderedRepository exposes the order column of children of a DailyPlan.
// SpotRepository (visit_order) and TravelSegmentRepository (segment_order)
// both satisfy it.
type OrderedRepository interface {
	// ListOrderKeys returns children sorted by order, then creation time.
	ListOrderKeys(ctx context.Context, dailyPlanID uuid.UUID) ([]dbm.OrderedItem, error)
	// MaxOrder returns -1 when the daily plan has no children.
	MaxOrder(ctx context.Context, dailyPlanID uuid.UUID) (int, error)
	SetOrder(ctx context.Context, id uuid.UUID, order int) error
}

func nowUnix() int64 { return time.Now().Unix() }
