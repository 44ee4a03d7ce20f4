package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Nickname string `json:"nickname" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Code     string `json:"code" binding:"required"`
	// Optional. When set the invitation is accepted right after sign up.
	InvitationToken string `json:"invitation_token"`
}

type SignupCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}
