package response_models

type PlanResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TotalBudget int64  `json:"total_budget"`
	Role        string `json:"role,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type PlanDetailResponse struct {
	PlanResponse
	DailyPlans []DailyPlanResponse `json:"daily_plans"`
}

type DailyPlanResponse struct {
	ID             string                  `json:"id"`
	PlanID         string                  `json:"plan_id"`
	VisitDate      string                  `json:"visit_date"`
	DepartureTime  string                  `json:"departure_time"`
	Spots          []SpotResponse          `json:"spots"`
	TravelSegments []TravelSegmentResponse `json:"travel_segments"`
}

type SpotResponse struct {
	ID          string   `json:"id"`
	DailyPlanID string   `json:"daily_plan_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Category    string   `json:"category"`
	VisitOrder  int      `json:"visit_order"`
	Duration    int      `json:"duration"`
	Cost        int64    `json:"cost"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

type TravelSegmentResponse struct {
	ID           string `json:"id"`
	DailyPlanID  string `json:"daily_plan_id"`
	FromSpotID   string `json:"from_spot_id"`
	ToSpotID     string `json:"to_spot_id"`
	SegmentOrder int    `json:"segment_order"`
	Duration     int    `json:"duration"`
	TravelMode   string `json:"travel_mode"`
}
