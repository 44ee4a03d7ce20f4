package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const ExpenseCategorySpot = "SPOT"

type Expense struct {
	BaseModel
	PlanID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	SpotID   *uuid.UUID `gorm:"type:uuid;index"`
	Item     string     `gorm:"size:100;not null"`
	Amount   int64      `gorm:"not null"`
	Category string     `gorm:"size:50"`
	Date     datatypes.Date

	Spot *Spot `gorm:"foreignKey:SpotID;constraint:OnDelete:SET NULL"`
}
