package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tabi/internal/infra"
	dbm "tabi/internal/models/db_models"
)

type SpotRepository interface {
	OrderedRepository
	Create(ctx context.Context, spot *dbm.Spot) error
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.Spot, error)
	FindByIDs(ctx context.Context, ids ...uuid.UUID) ([]dbm.Spot, error)
	ListByDailyPlan(ctx context.Context, dailyPlanID uuid.UUID) ([]dbm.Spot, error)
	Update(ctx context.Context, spot *dbm.Spot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type spotRepository struct {
	db *gorm.DB
}

func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) Create(ctx context.Context, spot *dbm.Spot) error {
	return infra.Conn(ctx, r.db).Omit(clause.Associations).Create(spot).Error
}

func (r *spotRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.Spot, error) {
	var spot dbm.Spot
	err := infra.Conn(ctx, r.db).First(&spot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &spot, nil
}

func (r *spotRepository) FindByIDs(ctx context.Context, ids ...uuid.UUID) ([]dbm.Spot, error) {
	var spots []dbm.Spot
	if len(ids) == 0 {
		return spots, nil
	}
	err := infra.Conn(ctx, r.db).Where("id IN ?", ids).Find(&spots).Error
	return spots, err
}

func (r *spotRepository) ListByDailyPlan(ctx context.Context, dailyPlanID uuid.UUID) ([]dbm.Spot, error) {
	var spots []dbm.Spot
	err := infra.Conn(ctx, r.db).
		Where("daily_plan_id = ?", dailyPlanID).
		Order("visit_order ASC, created_at ASC, id ASC").
		Find(&spots).Error
	return spots, err
}

// Update writes the editable columns. VisitOrder only changes through SetOrder.
func (r *spotRepository) Update(ctx context.Context, spot *dbm.Spot) error {
	return infra.Conn(ctx, r.db).
		Model(spot).
		Select("Name", "Address", "Category", "Duration", "Cost", "Latitude", "Longitude", "UpdatedAt").
		Updates(spot).Error
}

func (r *spotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return infra.Conn(ctx, r.db).Delete(&dbm.Spot{}, "id = ?", id).Error
}

func (r *spotRepository) ListOrderKeys(ctx context.Context, dailyPlanID uuid.UUID) ([]dbm.OrderedItem, error) {
	var items []dbm.OrderedItem
	err := infra.Conn(ctx, r.db).
		Model(&dbm.Spot{}).
		Select("id, visit_order AS sort_order, created_at").
		Where("daily_plan_id = ?", dailyPlanID).
		Order("visit_order ASC, created_at ASC, id ASC").
		Scan(&items).Error
	return items, err
}

func (r *spotRepository) MaxOrder(ctx context.Context, dailyPlanID uuid.UUID) (int, error) {
	var maxOrder int
	err := infra.Conn(ctx, r.db).
		Model(&dbm.Spot{}).
		Select("COALESCE(MAX(visit_order), -1)").
		Where("daily_plan_id = ?", dailyPlanID).
		Scan(&maxOrder).Error
	return maxOrder, err
}

func (r *spotRepository) SetOrder(ctx context.Context, id uuid.UUID, order int) error {
	return infra.Conn(ctx, r.db).
		Model(&dbm.Spot{}).
		Where("id = ?", id).
		UpdateColumn("visit_order", order).Error
}
