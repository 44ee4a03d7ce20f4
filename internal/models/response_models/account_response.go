package response_models

type AccountLoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
	// Set when sign up also accepted an invitation.
	AcceptedPlanID string `json:"accepted_plan_id,omitempty"`
	RedirectPath   string `json:"redirect_path,omitempty"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

type SignupCodeResponse struct {
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expires_in"`
}
