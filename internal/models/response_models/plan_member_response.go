package response_models

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joined_at"`
}

type InvitationResponse struct {
	ID           string `json:"id"`
	PlanID       string `json:"plan_id"`
	InviteeEmail string `json:"invitee_email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	ExpiresAt    string `json:"expires_at"`
	InviterName  string `json:"inviter_name,omitempty"`
	Token        string `json:"token,omitempty"`
}

// Next is one of ACCEPTED, LOGIN or SIGNUP.
type InvitationCheckResponse struct {
	PlanID       string `json:"plan_id"`
	PlanTitle    string `json:"plan_title"`
	InviterName  string `json:"inviter_name"`
	InviteeEmail string `json:"invitee_email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	ExpiresAt    string `json:"expires_at"`
	UserExists   bool   `json:"user_exists"`
	Next         string `json:"next"`
	RedirectPath string `json:"redirect_path,omitempty"`
}

type AcceptInvitationResponse struct {
	PlanID       string `json:"plan_id"`
	RedirectPath string `json:"redirect_path"`
}

type ExpenseResponse struct {
	ID       string `json:"id"`
	PlanID   string `json:"plan_id"`
	SpotID   string `json:"spot_id,omitempty"`
	Item     string `json:"item"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date,omitempty"`
}

type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

type BudgetSummaryResponse struct {
	PlanID      string                  `json:"plan_id"`
	TotalBudget int64                   `json:"total_budget"`
	Spent       int64                   `json:"spent"`
	Remaining   int64                   `json:"remaining"`
	ByCategory  []CategoryTotalResponse `json:"by_category"`
}

type WarikanShare struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Amount   int64  `json:"amount"`
}

type WarikanResponse struct {
	PlanID      string         `json:"plan_id"`
	Total       int64          `json:"total"`
	MemberCount int            `json:"member_count"`
	PerPerson   int64          `json:"per_person"`
	Remainder   int64          `json:"remainder"`
	Shares      []WarikanShare `json:"shares"`
}

type WarikanNotifyResponse struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
