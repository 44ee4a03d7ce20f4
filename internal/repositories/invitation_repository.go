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

type InvitationRepository interface {
	Create(ctx context.Context, invitation *dbm.PlanInvitation) error
	// FindByToken preloads Plan and Inviter.
	FindByToken(ctx context.Context, token string) (*dbm.PlanInvitation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.PlanInvitation, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.PlanInvitation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status dbm.InvitationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByPlanAndEmail removes any invitation for the pair regardless of status.
	DeleteByPlanAndEmail(ctx context.Context, planID uuid.UUID, email string) (int64, error)
	DeleteByPlan(ctx context.Context, planID uuid.UUID) error
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *dbm.PlanInvitation) error {
	return infra.Conn(ctx, r.db).Omit(clause.Associations).Create(invitation).Error
}

func (r *invitationRepository) FindByToken(ctx context.Context, token string) (*dbm.PlanInvitation, error) {
	var invitation dbm.PlanInvitation
	err := infra.Conn(ctx, r.db).
		Preload("Plan").
		Preload("Inviter").
		Where("token = ?", token).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.PlanInvitation, error) {
	var invitation dbm.PlanInvitation
	err := infra.Conn(ctx, r.db).First(&invitation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]dbm.PlanInvitation, error) {
	var invitations []dbm.PlanInvitation
	err := infra.Conn(ctx, r.db).
		Preload("Inviter").
		Where("plan_id = ?", planID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status dbm.InvitationStatus) error {
	return infra.Conn(ctx, r.db).
		Model(&dbm.PlanInvitation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": nowUnix()}).Error
}

func (r *invitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return infra.Conn(ctx, r.db).Delete(&dbm.PlanInvitation{}, "id = ?", id).Error
}

func (r *invitationRepository) DeleteByPlanAndEmail(ctx context.Context, planID uuid.UUID, email string) (int64, error) {
	res := infra.Conn(ctx, r.db).
		Where("plan_id = ? AND invitee_email = ?", planID, dbm.NormalizeEmail(email)).
		Delete(&dbm.PlanInvitation{})
	return res.RowsAffected, res.Error
}

func (r *invitationRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) error {
	return infra.Conn(ctx, r.db).Where("plan_id = ?", planID).Delete(&dbm.PlanInvitation{}).Error
}
