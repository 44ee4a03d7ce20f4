package db_models

import (
	"github.com/google/uuid"
)

type Spot struct {
	BaseModel
	DailyPlanID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"size:100;not null"`
	Address     string
	Category    string `gorm:"size:50"`
	VisitOrder  int    `gorm:"not null;default:0"`
	Duration    int    // minutes
	Cost        int64
	Latitude    *float64
	Longitude   *float64
}

func (s Spot) OrderKey() OrderedItem {
	return OrderedItem{ID: s.ID, Order: s.VisitOrder, CreatedAt: s.CreatedAt}
}

type TravelMode string

const (
	TravelModeWalk    TravelMode = "WALK"
	TravelModeTransit TravelMode = "TRANSIT"
	TravelModeCar     TravelMode = "CAR"
	TravelModeBicycle TravelMode = "BICYCLE"
	TravelModeFlight  TravelMode = "FLIGHT"
	TravelModeOther   TravelMode = "OTHER"
)

func (m TravelMode) Valid() bool {
	switch m {
	case TravelModeWalk, TravelModeTransit, TravelModeCar, TravelModeBicycle, TravelModeFlight, TravelModeOther:
		return true
	}
	return false
}

type TravelSegment struct {
	BaseModel
	DailyPlanID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	FromSpotID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ToSpotID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	SegmentOrder int        `gorm:"not null;default:0"`
	Duration     int        // minutes
	TravelMode   TravelMode `gorm:"size:20;not null"`

	FromSpot Spot `gorm:"foreignKey:FromSpotID;constraint:OnDelete:CASCADE"`
	ToSpot   Spot `gorm:"foreignKey:ToSpotID;constraint:OnDelete:CASCADE"`
}

func (t TravelSegment) OrderKey() OrderedItem {
	return OrderedItem{ID: t.ID, Order: t.SegmentOrder, CreatedAt: t.CreatedAt}
}

// OrderedItem is the slice of a Spot or TravelSegment the ordering engine works on.
type OrderedItem struct {
	ID        uuid.UUID
	Order     int `gorm:"column:sort_order"`
	CreatedAt int64
}
