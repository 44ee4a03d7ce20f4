package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tabi/internal/models/request_models"
	"tabi/internal/services"
	"tabi/pkg/utils"
)

type InvitationController struct {
	invitationService services.InvitationServiceInterface
}

func NewInvitationController(invitationService services.InvitationServiceInterface) *InvitationController {
	return &InvitationController{invitationService: invitationService}
}

func invitationToken(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invitation token is required")
		return "", false
	}
	return token, true
}

// Invite godoc
// @Summary Invite someone to a plan by e-mail
// @Description Re-inviting the same address replaces the pending invitation
// @Tags Invitations
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body request_models.InviteRequest true "Email and EDITOR or VIEWER"
// @Success 201 {object} response_models.InvitationResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/invitations [post]
func (i *InvitationController) Invite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	var req request_models.InviteRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := i.invitationService.Invite(c.Request.Context(), planID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, inv, "Invitation sent")
}

// ListInvitations godoc
// @Summary Invitations of a plan
// @Tags Invitations
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {array} response_models.InvitationResponse
// @Security BearerAuth
// @Router /plans/{planId}/invitations [get]
func (i *InvitationController) ListInvitations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	list, err := i.invitationService.ListInvitations(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "Invitations fetched successfully")
}

// CancelInvitation godoc
// @Summary Withdraw an invitation
// @Tags Invitations
// @Param planId path string true "Plan ID"
// @Param invitationId path string true "Invitation ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/invitations/{invitationId} [delete]
func (i *InvitationController) CancelInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	invitationID, ok := pathUUID(c, "invitationId")
	if !ok {
		return
	}

	if err := i.invitationService.CancelInvitation(c.Request.Context(), planID, invitationID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Invitation cancelled")
}

// ResolveInvitation godoc
// @Summary Look up an invitation from its link
// @Description Signed-in invitees whose e-mail matches are added to the plan right away. Otherwise next tells the client to log in or sign up.
// @Tags Invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} response_models.InvitationCheckResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 410 {object} utils.APIResponse
// @Router /invitations/{token} [get]
func (i *InvitationController) ResolveInvitation(c *gin.Context) {
	token, ok := invitationToken(c)
	if !ok {
		return
	}

	check, err := i.invitationService.ResolveInvitation(c.Request.Context(), token, principal(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, check, "Invitation fetched successfully")
}

// AcceptInvitation godoc
// @Summary Accept an invitation
// @Tags Invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} response_models.AcceptInvitationResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 410 {object} utils.APIResponse
// @Security BearerAuth
// @Router /invitations/{token}/accept [post]
func (i *InvitationController) AcceptInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	token, ok := invitationToken(c)
	if !ok {
		return
	}

	accepted, err := i.invitationService.Accept(c.Request.Context(), token, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, accepted, "Invitation accepted")
}

// RejectInvitation godoc
// @Summary Decline an invitation
// @Tags Invitations
// @Param token path string true "Invitation token"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /invitations/{token}/reject [post]
func (i *InvitationController) RejectInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	token, ok := invitationToken(c)
	if !ok {
		return
	}

	if err := i.invitationService.Reject(c.Request.Context(), token, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Invitation declined")
}
