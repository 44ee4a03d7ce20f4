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

type CategoryTotal struct {
	Category string `gorm:"column:category"`
	Total    int64  `gorm:"column:total"`
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *dbm.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.Expense, error)
	FindBySpotID(ctx context.Context, spotID uuid.UUID) (*dbm.Expense, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.Expense, error)
	Update(ctx context.Context, expense *dbm.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySpotID(ctx context.Context, spotID uuid.UUID) error
	// DeleteBySpotsOfDays removes expenses linked to spots of the given daily plans.
	DeleteBySpotsOfDays(ctx context.Context, dailyPlanIDs []uuid.UUID) error
	DeleteByPlan(ctx context.Context, planID uuid.UUID) error
	SumByPlan(ctx context.Context, planID uuid.UUID) (int64, error)
	TotalsByCategory(ctx context.Context, planID uuid.UUID) ([]CategoryTotal, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *dbm.Expense) error {
	return infra.Conn(ctx, r.db).Omit(clause.Associations).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.Expense, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *expenseRepository) FindBySpotID(ctx context.Context, spotID uuid.UUID) (*dbm.Expense, error) {
	return r.first(ctx, "spot_id = ?", spotID)
}

func (r *expenseRepository) first(ctx context.Context, query string, args ...interface{}) (*dbm.Expense, error) {
	var expense dbm.Expense
	err := infra.Conn(ctx, r.db).Where(query, args...).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.Expense, error) {
	var expenses []dbm.Expense
	err := infra.Conn(ctx, r.db).
		Where("plan_id = ?", planID).
		Order("date ASC, created_at ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) Update(ctx context.Context, expense *dbm.Expense) error {
	return infra.Conn(ctx, r.db).
		Model(expense).
		Omit(clause.Associations).
		Select("Item", "Amount", "Category", "Date", "SpotID", "UpdatedAt").
		Updates(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return infra.Conn(ctx, r.db).Delete(&dbm.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) DeleteBySpotID(ctx context.Context, spotID uuid.UUID) error {
	return infra.Conn(ctx, r.db).Where("spot_id = ?", spotID).Delete(&dbm.Expense{}).Error
}

func (r *expenseRepository) DeleteBySpotsOfDays(ctx context.Context, dailyPlanIDs []uuid.UUID) error {
	if len(dailyPlanIDs) == 0 {
		return nil
	}
	conn := infra.Conn(ctx, r.db)
	spotIDs := conn.Model(&dbm.Spot{}).Select("id").Where("daily_plan_id IN ?", dailyPlanIDs)
	return conn.Where("spot_id IN (?)", spotIDs).Delete(&dbm.Expense{}).Error
}

func (r *expenseRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) error {
	return infra.Conn(ctx, r.db).Where("plan_id = ?", planID).Delete(&dbm.Expense{}).Error
}

func (r *expenseRepository) SumByPlan(ctx context.Context, planID uuid.UUID) (int64, error) {
	var total int64
	err := infra.Conn(ctx, r.db).
		Model(&dbm.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("plan_id = ?", planID).
		Scan(&total).Error
	return total, err
}

func (r *expenseRepository) TotalsByCategory(ctx context.Context, planID uuid.UUID) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := infra.Conn(ctx, r.db).
		Model(&dbm.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("plan_id = ?", planID).
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	return rows, err
}
