package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Plan struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"size:100;not null"`
	StartDate   datatypes.Date
	EndDate     datatypes.Date
	TotalBudget int64

	User       User        `gorm:"foreignKey:UserID"`
	DailyPlans []DailyPlan `gorm:"constraint:OnDelete:CASCADE"`
	Expenses   []Expense   `gorm:"constraint:OnDelete:CASCADE"`
}

type DailyPlan struct {
	BaseModel
	PlanID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_daily_plan_date"`
	VisitDate     datatypes.Date `gorm:"not null;uniqueIndex:idx_daily_plan_date"`
	DepartureTime string         `gorm:"size:5"` // HH:MM, empty when unset

	Spots          []Spot          `gorm:"constraint:OnDelete:CASCADE"`
	TravelSegments []TravelSegment `gorm:"constraint:OnDelete:CASCADE"`
}
