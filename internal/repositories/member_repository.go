package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tabi/internal/infra"
	dbm "tabi/internal/models/db_models"
)

type MemberRepository interface {
	Create(ctx context.Context, member *dbm.PlanMember) error
	Find(ctx context.Context, planID, userID uuid.UUID) (*dbm.PlanMember, error)
	// ListByPlan returns members with their User, owner first.
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.PlanMember, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dbm.PlanMember, error)
	UpdateRole(ctx context.Context, planID, userID uuid.UUID, role dbm.MemberRole) error
	Delete(ctx context.Context, planID, userID uuid.UUID) error
	DeleteByPlan(ctx context.Context, planID uuid.UUID) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *dbm.PlanMember) error {
	return infra.Conn(ctx, r.db).Omit("User").Create(member).Error
}

func (r *memberRepository) Find(ctx context.Context, planID, userID uuid.UUID) (*dbm.PlanMember, error) {
	var member dbm.PlanMember
	err := infra.Conn(ctx, r.db).
		Where("plan_id = ? AND user_id = ?", planID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.PlanMember, error) {
	var members []dbm.PlanMember
	err := infra.Conn(ctx, r.db).
		Preload("User").
		Where("plan_id = ?", planID).
		Order("CASE role WHEN 'OWNER' THEN 0 WHEN 'EDITOR' THEN 1 ELSE 2 END, created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]dbm.PlanMember, error) {
	var members []dbm.PlanMember
	err := infra.Conn(ctx, r.db).Where("user_id = ?", userID).Find(&members).Error
	return members, err
}

func (r *memberRepository) UpdateRole(ctx context.Context, planID, userID uuid.UUID, role dbm.MemberRole) error {
	return infra.Conn(ctx, r.db).
		Model(&dbm.PlanMember{}).
		Where("plan_id = ? AND user_id = ?", planID, userID).
		Updates(map[string]interface{}{"role": role, "updated_at": nowUnix()}).Error
}

func (r *memberRepository) Delete(ctx context.Context, planID, userID uuid.UUID) error {
	return infra.Conn(ctx, r.db).
		Where("plan_id = ? AND user_id = ?", planID, userID).
		Delete(&dbm.PlanMember{}).Error
}

func (r *memberRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) error {
	return infra.Conn(ctx, r.db).Where("plan_id = ?", planID).Delete(&dbm.PlanMember{}).Error
}
