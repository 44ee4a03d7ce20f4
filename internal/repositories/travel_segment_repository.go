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

type TravelSegmentRepository interface {
	OrderedRepository
	Create(ctx context.Context, segment *dbm.TravelSegment) error
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.TravelSegment, error)
	ListByDailyPlan(ctx context.Context, dailyPlanID uuid.UUID) ([]dbm.TravelSegment, error)
	Update(ctx context.Context, segment *dbm.TravelSegment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteTouchingSpot removes every segment starting or ending at spotID.
	DeleteTouchingSpot(ctx context.Context, spotID uuid.UUID) (int64, error)
}

type travelSegmentRepository struct {
	db *gorm.DB
}

func NewTravelSegmentRepository(db *gorm.DB) TravelSegmentRepository {
	return &travelSegmentRepository{db: db}
}

func (r *travelSegmentRepository) Create(ctx context.Context, segment *dbm.TravelSegment) error {
	return infra.Conn(ctx, r.db).Omit(clause.Associations).Create(segment).Error
}

func (r *travelSegmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.TravelSegment, error) {
	var segment dbm.TravelSegment
	err := infra.Conn(ctx, r.db).First(&segment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &segment, nil
}

func (r *travelSegmentRepository) ListByDailyPlan(ctx context.Context, dailyPlanID uuid.UUID) ([]dbm.TravelSegment, error) {
	var segments []dbm.TravelSegment
	err := infra.Conn(ctx, r.db).
		Where("daily_plan_id = ?", dailyPlanID).
		Order("segment_order ASC, created_at ASC, id ASC").
		Find(&segments).Error
	return segments, err
}

// Update writes the editable columns. SegmentOrder only changes through SetOrder.
func (r *travelSegmentRepository) Update(ctx context.Context, segment *dbm.TravelSegment) error {
	return infra.Conn(ctx, r.db).
		Model(segment).
		Omit(clause.Associations).
		Select("FromSpotID", "ToSpotID", "Duration", "TravelMode", "UpdatedAt").
		Updates(segment).Error
}

func (r *travelSegmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return infra.Conn(ctx, r.db).Delete(&dbm.TravelSegment{}, "id = ?", id).Error
}

func (r *travelSegmentRepository) DeleteTouchingSpot(ctx context.Context, spotID uuid.UUID) (int64, error) {
	res := infra.Conn(ctx, r.db).
		Where("from_spot_id = ? OR to_spot_id = ?", spotID, spotID).
		Delete(&dbm.TravelSegment{})
	return res.RowsAffected, res.Error
}

func (r *travelSegmentRepository) ListOrderKeys(ctx context.Context, dailyPlanID uuid.UUID) ([]dbm.OrderedItem, error) {
	var items []dbm.OrderedItem
	err := infra.Conn(ctx, r.db).
		Model(&dbm.TravelSegment{}).
		Select("id, segment_order AS sort_order, created_at").
		Where("daily_plan_id = ?", dailyPlanID).
		Order("segment_order ASC, created_at ASC, id ASC").
		Scan(&items).Error
	return items, err
}

func (r *travelSegmentRepository) MaxOrder(ctx context.Context, dailyPlanID uuid.UUID) (int, error) {
	var maxOrder int
	err := infra.Conn(ctx, r.db).
		Model(&dbm.TravelSegment{}).
		Select("COALESCE(MAX(segment_order), -1)").
		Where("daily_plan_id = ?", dailyPlanID).
		Scan(&maxOrder).Error
	return maxOrder, err
}

func (r *travelSegmentRepository) SetOrder(ctx context.Context, id uuid.UUID, order int) error {
	return infra.Conn(ctx, r.db).
		Model(&dbm.TravelSegment{}).
		Where("id = ?", id).
		UpdateColumn("segment_order", order).Error
}
