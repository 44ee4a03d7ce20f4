package controllers

import (
	"github.com/gin-gonic/gin"

	"tabi/internal/models/request_models"
	"tabi/internal/services"
	"tabi/pkg/utils"
)

type MemberController struct {
	memberService services.MemberServiceInterface
}

func NewMemberController(memberService services.MemberServiceInterface) *MemberController {
	return &MemberController{memberService: memberService}
}

// ListMembers godoc
// @Summary Members of a plan, owner first
// @Tags Members
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {array} response_models.MemberResponse
// @Security BearerAuth
// @Router /plans/{planId}/members [get]
func (m *MemberController) ListMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	members, err := m.memberService.ListMembers(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, members, "Members fetched successfully")
}

// ChangeRole godoc
// @Summary Change a member's role
// @Description OWNER or EDITOR only. The owner cannot be changed and OWNER cannot be granted.
// @Tags Members
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param userId path string true "Member user ID"
// @Param request body request_models.ChangeRoleRequest true "EDITOR or VIEWER"
// @Success 200 {object} response_models.MemberResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/members/{userId} [patch]
func (m *MemberController) ChangeRole(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	targetID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	var req request_models.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := m.memberService.ChangeRole(c.Request.Context(), planID, actorID, targetID, req.Role)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, member, "Role changed successfully")
}

// RemoveMember godoc
// @Summary Remove a member
// @Tags Members
// @Param planId path string true "Plan ID"
// @Param userId path string true "Member user ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/members/{userId} [delete]
func (m *MemberController) RemoveMember(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	targetID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	if err := m.memberService.RemoveMember(c.Request.Context(), planID, actorID, targetID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Member removed successfully")
}

// LeavePlan godoc
// @Summary Leave a plan
// @Tags Members
// @Param planId path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/leave [post]
func (m *MemberController) LeavePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	if err := m.memberService.LeavePlan(c.Request.Context(), planID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Left the plan")
}
