package services

import (
	"github.com/google/uuid"

	"tabi/internal/models/db_models"
	"tabi/internal/models/response_models"
	"tabi/pkg/utils"
)

// PlanRedirectPath is where the front end lands after joining a plan.
func PlanRedirectPath(planID uuid.UUID) string {
	return "/plans/" + planID.String()
}

func toUserResponse(u *db_models.User) response_models.UserResponse {
	return response_models.UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
	}
}

func toPlanResponse(p *db_models.Plan, role db_models.MemberRole) response_models.PlanResponse {
	return response_models.PlanResponse{
		ID:          p.ID.String(),
		OwnerID:     p.UserID.String(),
		Title:       p.Title,
		StartDate:   utils.FormatDate(p.StartDate),
		EndDate:     utils.FormatDate(p.EndDate),
		TotalBudget: p.TotalBudget,
		Role:        string(role),
		CreatedAt:   p.CreatedAt,
	}
}

func toDailyPlanResponse(d *db_models.DailyPlan) response_models.DailyPlanResponse {
	out := response_models.DailyPlanResponse{
		ID:             d.ID.String(),
		PlanID:         d.PlanID.String(),
		VisitDate:      utils.FormatDate(d.VisitDate),
		DepartureTime:  d.DepartureTime,
		Spots:          make([]response_models.SpotResponse, 0, len(d.Spots)),
		TravelSegments: make([]response_models.TravelSegmentResponse, 0, len(d.TravelSegments)),
	}
	for i := range d.Spots {
		out.Spots = append(out.Spots, toSpotResponse(&d.Spots[i]))
	}
	for i := range d.TravelSegments {
		out.TravelSegments = append(out.TravelSegments, toSegmentResponse(&d.TravelSegments[i]))
	}
	return out
}

func toSpotResponse(s *db_models.Spot) response_models.SpotResponse {
	return response_models.SpotResponse{
		ID:          s.ID.String(),
		DailyPlanID: s.DailyPlanID.String(),
		Name:        s.Name,
		Address:     s.Address,
		Category:    s.Category,
		VisitOrder:  s.VisitOrder,
		Duration:    s.Duration,
		Cost:        s.Cost,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
	}
}

func toSegmentResponse(t *db_models.TravelSegment) response_models.TravelSegmentResponse {
	return response_models.TravelSegmentResponse{
		ID:           t.ID.String(),
		DailyPlanID:  t.DailyPlanID.String(),
		FromSpotID:   t.FromSpotID.String(),
		ToSpotID:     t.ToSpotID.String(),
		SegmentOrder: t.SegmentOrder,
		Duration:     t.Duration,
		TravelMode:   string(t.TravelMode),
	}
}

func toExpenseResponse(e *db_models.Expense) response_models.ExpenseResponse {
	out := response_models.ExpenseResponse{
		ID:       e.ID.String(),
		PlanID:   e.PlanID.String(),
		Item:     e.Item,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     utils.FormatDate(e.Date),
	}
	if e.SpotID != nil {
		out.SpotID = e.SpotID.String()
	}
	return out
}

func toMemberResponse(m *db_models.PlanMember) response_models.MemberResponse {
	return response_models.MemberResponse{
		UserID:   m.UserID.String(),
		Email:    m.User.Email,
		Nickname: m.User.Nickname,
		Role:     string(m.Role),
		JoinedAt: m.CreatedAt,
	}
}
