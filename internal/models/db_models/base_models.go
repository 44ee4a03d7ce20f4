package db_models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"time"
)

// BaseModel rows are hard-deleted; unique indexes such as (plan_id, visit_date)
// must not collide with tombstones.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt int64     `gorm:"autoCreateTime"`
	UpdatedAt int64     `gorm:"autoUpdateTime"`
}

// Hooks to manage int64 timestamps
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().Unix()
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now().Unix()
	return nil
}

// AllModels is the AutoMigrate set, parents before children.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Plan{},
		&DailyPlan{},
		&Spot{},
		&TravelSegment{},
		&Expense{},
		&PlanMember{},
		&PlanInvitation{},
		&VerificationCode{},
	}
}
