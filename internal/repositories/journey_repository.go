package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tabi/internal/infra"
	dbm "tabi/internal/models/db_models"
)

type DailyPlanRepository interface {
	Create(ctx context.Context, day *dbm.DailyPlan) error
	CreateBatch(ctx context.Context, days []dbm.DailyPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.DailyPlan, error)
	// LockByID reads the daily plan with a row lock held until the
	// surrounding transaction ends, serializing order mutations per day.
	LockByID(ctx context.Context, id uuid.UUID) (*dbm.DailyPlan, error)
	FindByPlanAndDate(ctx context.Context, planID uuid.UUID, date datatypes.Date) (*dbm.DailyPlan, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.DailyPlan, error)
	UpdateDepartureTime(ctx context.Context, id uuid.UUID, departure string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOutsideRange(ctx context.Context, planID uuid.UUID, start, end datatypes.Date) error
}

type dailyPlanRepository struct {
	db *gorm.DB
}

func NewDailyPlanRepository(db *gorm.DB) DailyPlanRepository {
	return &dailyPlanRepository{db: db}
}

func (r *dailyPlanRepository) Create(ctx context.Context, day *dbm.DailyPlan) error {
	return infra.Conn(ctx, r.db).Omit(clause.Associations).Create(day).Error
}

func (r *dailyPlanRepository) CreateBatch(ctx context.Context, days []dbm.DailyPlan) error {
	if len(days) == 0 {
		return nil
	}
	return infra.Conn(ctx, r.db).Omit(clause.Associations).Create(&days).Error
}

func (r *dailyPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.DailyPlan, error) {
	return r.first(infra.Conn(ctx, r.db), "id = ?", id)
}

func (r *dailyPlanRepository) LockByID(ctx context.Context, id uuid.UUID) (*dbm.DailyPlan, error) {
	return r.first(infra.Conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *dailyPlanRepository) FindByPlanAndDate(ctx context.Context, planID uuid.UUID, date datatypes.Date) (*dbm.DailyPlan, error) {
	return r.first(infra.Conn(ctx, r.db), "plan_id = ? AND visit_date = ?", planID, date)
}

func (r *dailyPlanRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.DailyPlan, error) {
	var days []dbm.DailyPlan
	err := infra.Conn(ctx, r.db).
		Where("plan_id = ?", planID).
		Order("visit_date ASC").
		Find(&days).Error
	return days, err
}

func (r *dailyPlanRepository) UpdateDepartureTime(ctx context.Context, id uuid.UUID, departure string) error {
	return infra.Conn(ctx, r.db).
		Model(&dbm.DailyPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"departure_time": departure, "updated_at": nowUnix()}).Error
}

func (r *dailyPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return infra.Conn(ctx, r.db).Delete(&dbm.DailyPlan{}, "id = ?", id).Error
}

func (r *dailyPlanRepository) DeleteOutsideRange(ctx context.Context, planID uuid.UUID, start, end datatypes.Date) error {
	return infra.Conn(ctx, r.db).
		Where("plan_id = ? AND (visit_date < ? OR visit_date > ?)", planID, start, end).
		Delete(&dbm.DailyPlan{}).Error
}

func (r *dailyPlanRepository) first(db *gorm.DB, query string, args ...interface{}) (*dbm.DailyPlan, error) {
	var day dbm.DailyPlan
	err := db.Where(query, args...).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}
