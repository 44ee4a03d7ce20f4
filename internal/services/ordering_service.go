package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"tabi/internal/models/db_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

// OrderingEngine keeps visit_order and segment_order dense and zero-based
// within one daily plan. Callers hold the daily plan lock for the whole
// transaction.
type OrderingEngine interface {
	// Insert returns the order a new child gets: never below currentMax+1.
	Insert(ctx context.Context, repo repositories.OrderedRepository, dailyPlanID uuid.UUID, requested int) (int, error)
	// Reorder renumbers every child 0..n-1 in ascending order.
	Reorder(ctx context.Context, repo repositories.OrderedRepository, dailyPlanID uuid.UUID) error
	// UpdateOrder stores newOrder for item then renumbers. It reports
	// whether anything changed.
	UpdateOrder(ctx context.Context, repo repositories.OrderedRepository, dailyPlanID uuid.UUID, item db_models.OrderedItem, newOrder int) (bool, error)
}

type orderingEngine struct{}

func NewOrderingEngine() OrderingEngine {
	return &orderingEngine{}
}

// MoveHint breaks ties between a moved item and the item already holding its
// new order. Up means the item moved towards the front.
type MoveHint struct {
	ID uuid.UUID
	Up bool
}

type OrderChange struct {
	ID    uuid.UUID
	Order int
}

// EffectiveOrder is the insert policy: a requested order that would collide
// with or precede existing children is pushed to the end.
func EffectiveOrder(requested, currentMax int) int {
	if requested > currentMax+1 {
		return requested
	}
	return currentMax + 1
}

// Renumber sorts items by order, then creation time, then id, and returns the
// assignments whose order differs from the stored one.
func Renumber(items []db_models.OrderedItem, hint *MoveHint) []OrderChange {
	sorted := make([]db_models.OrderedItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if hint != nil {
			if a.ID == hint.ID {
				return hint.Up
			}
			if b.ID == hint.ID {
				return !hint.Up
			}
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.ID.String() < b.ID.String()
	})

	var changes []OrderChange
	for pos, it := range sorted {
		if it.Order != pos {
			changes = append(changes, OrderChange{ID: it.ID, Order: pos})
		}
	}
	return changes
}

func (e *orderingEngine) Insert(ctx context.Context, repo repositories.OrderedRepository, dailyPlanID uuid.UUID, requested int) (int, error) {
	if requested < 0 {
		requested = 0
	}
	currentMax, err := repo.MaxOrder(ctx, dailyPlanID)
	if err != nil {
		return 0, utils.DBError(err)
	}
	return EffectiveOrder(requested, currentMax), nil
}

func (e *orderingEngine) Reorder(ctx context.Context, repo repositories.OrderedRepository, dailyPlanID uuid.UUID) error {
	return e.reorder(ctx, repo, dailyPlanID, nil)
}

func (e *orderingEngine) UpdateOrder(ctx context.Context, repo repositories.OrderedRepository, dailyPlanID uuid.UUID, item db_models.OrderedItem, newOrder int) (bool, error) {
	if newOrder < 0 {
		return false, utils.ErrInvalidInput
	}
	if newOrder == item.Order {
		return false, nil
	}
	if err := repo.SetOrder(ctx, item.ID, newOrder); err != nil {
		return false, utils.DBError(err)
	}
	hint := &MoveHint{ID: item.ID, Up: newOrder < item.Order}
	if err := e.reorder(ctx, repo, dailyPlanID, hint); err != nil {
		return false, err
	}
	return true, nil
}

func (e *orderingEngine) reorder(ctx context.Context, repo repositories.OrderedRepository, dailyPlanID uuid.UUID, hint *MoveHint) error {
	items, err := repo.ListOrderKeys(ctx, dailyPlanID)
	if err != nil {
		return utils.DBError(err)
	}
	for _, ch := range Renumber(items, hint) {
		if err := repo.SetOrder(ctx, ch.ID, ch.Order); err != nil {
			return utils.DBError(err)
		}
	}
	return nil
}
