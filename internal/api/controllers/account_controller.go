package controllers

import (
	"github.com/gin-gonic/gin"

	"tabi/internal/models/request_models"
	"tabi/internal/services"
	"tabi/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// RequestSignupCode godoc
// @Summary Send a sign up verification code
// @Description E-mails a 6 digit code that Register consumes
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignupCodeRequest true "Email to verify"
// @Success 200 {object} response_models.SignupCodeResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/signup-code [post]
func (a *AccountController) RequestSignupCode(c *gin.Context) {
	var req request_models.SignupCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := a.accountService.RequestSignupCode(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Verification code sent")
}

// Register godoc
// @Summary Register a new account
// @Description Creates the account with a verification code. An optional invitation token is accepted right away.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} response_models.AccountLoginResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user and return a token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} response_models.AccountLoginResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Login successful")
}

// Me godoc
// @Summary Current user
// @Tags Accounts
// @Produce json
// @Success 200 {object} response_models.UserResponse
// @Security BearerAuth
// @Router /me [get]
func (a *AccountController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := a.accountService.Me(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, user, "User fetched successfully")
}
