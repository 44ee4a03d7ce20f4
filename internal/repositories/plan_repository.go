package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *db_models.Plan) error
	FindByID(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
	// FindDetail loads daily plans by visit date with their spots and
	// segments in visit/segment order.
	FindDetail(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]db_models.Plan, error)
	Update(ctx context.Context, plan *db_models.Plan) error
	Delete(ctx context.Context, planID uuid.UUID) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (p *planRepository) Create(ctx context.Context, plan *db_models.Plan) error {
	return infra.Conn(ctx, p.db).Omit("User", "DailyPlans", "Expenses").Create(plan).Error
}

func (p *planRepository) FindByID(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := infra.Conn(ctx, p.db).First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (p *planRepository) FindDetail(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := infra.Conn(ctx, p.db).
		Preload("DailyPlans", func(db *gorm.DB) *gorm.DB {
			return db.Order("visit_date ASC")
		}).
		Preload("DailyPlans.Spots", func(db *gorm.DB) *gorm.DB {
			return db.Order("visit_order ASC, created_at ASC")
		}).
		Preload("DailyPlans.TravelSegments", func(db *gorm.DB) *gorm.DB {
			return db.Order("segment_order ASC, created_at ASC")
		}).
		First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (p *planRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]db_models.Plan, error) {
	memberPlans := infra.Conn(ctx, p.db).
		Model(&db_models.PlanMember{}).
		Select("plan_id").
		Where("user_id = ?", userID)

	var plans []db_models.Plan
	err := infra.Conn(ctx, p.db).
		Where("id IN (?)", memberPlans).
		Order("start_date ASC, created_at ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (p *planRepository) Update(ctx context.Context, plan *db_models.Plan) error {
	return infra.Conn(ctx, p.db).
		Model(plan).
		Select("Title", "StartDate", "EndDate", "TotalBudget", "UpdatedAt").
		Updates(plan).Error
}

func (p *planRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	return infra.Conn(ctx, p.db).Delete(&db_models.Plan{}, "id = ?", planID).Error
}
