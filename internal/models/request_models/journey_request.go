package request_models

// Dates use YYYY-MM-DD, departure times HH:MM.

type CreatePlanRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	TotalBudget int64  `json:"total_budget" binding:"min=0"`
}

type UpdatePlanRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	TotalBudget *int64  `json:"total_budget" binding:"omitempty,min=0"`
}

type AddDailyPlanRequest struct {
	VisitDate     string `json:"visit_date" binding:"required"`
	DepartureTime string `json:"departure_time"`
}

type UpdateDailyPlanRequest struct {
	DepartureTime string `json:"departure_time" binding:"required"`
}

type AddSpotRequest struct {
	Name      string   `json:"name" binding:"required,max=200"`
	Address   string   `json:"address"`
	Category  string   `json:"category"`
	Order     int      `json:"visit_order" binding:"min=0"`
	Duration  int      `json:"duration" binding:"min=0"`
	Cost      int64    `json:"cost" binding:"min=0"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type UpdateSpotRequest struct {
	Name      *string  `json:"name" binding:"omitempty,max=200"`
	Address   *string  `json:"address"`
	Category  *string  `json:"category"`
	Order     *int     `json:"visit_order" binding:"omitempty,min=0"`
	Duration  *int     `json:"duration" binding:"omitempty,min=0"`
	Cost      *int64   `json:"cost" binding:"omitempty,min=0"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type AddTravelSegmentRequest struct {
	FromSpotID string `json:"from_spot_id" binding:"required,uuid"`
	ToSpotID   string `json:"to_spot_id" binding:"required,uuid"`
	Order      int    `json:"segment_order" binding:"min=0"`
	Duration   int    `json:"duration" binding:"min=0"`
	TravelMode string `json:"travel_mode" binding:"required"`
}

type UpdateTravelSegmentRequest struct {
	FromSpotID *string `json:"from_spot_id" binding:"omitempty,uuid"`
	ToSpotID   *string `json:"to_spot_id" binding:"omitempty,uuid"`
	Order      *int    `json:"segment_order" binding:"omitempty,min=0"`
	Duration   *int    `json:"duration" binding:"omitempty,min=0"`
	TravelMode *string `json:"travel_mode"`
}
