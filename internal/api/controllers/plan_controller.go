package controllers

import (
	"github.com/gin-gonic/gin"

	"tabi/internal/models/request_models"
	"tabi/internal/services"
	"tabi/pkg/utils"
)

type PlanController struct {
	planService      services.PlanServiceInterface
	dailyPlanService services.DailyPlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface, dailyPlanService services.DailyPlanServiceInterface) *PlanController {
	return &PlanController{
		planService:      planService,
		dailyPlanService: dailyPlanService,
	}
}

// CreatePlan godoc
// @Summary Create a plan
// @Description Creates the plan, makes the caller its OWNER and adds one daily plan per day in the range
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlanRequest true "Plan"
// @Success 201 {object} response_models.PlanDetailResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans [post]
func (p *PlanController) CreatePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request_models.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := p.planService.CreatePlan(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, plan, "Plan created successfully")
}

// ListPlans godoc
// @Summary Plans of the current user
// @Tags Plans
// @Produce json
// @Success 200 {array} response_models.PlanResponse
// @Security BearerAuth
// @Router /plans [get]
func (p *PlanController) ListPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plans, err := p.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// GetPlan godoc
// @Summary Plan details
// @Description Plan with its daily plans, spots and travel segments in order
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response_models.PlanDetailResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId} [get]
func (p *PlanController) GetPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	plan, err := p.planService.GetPlan(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}

// UpdatePlan godoc
// @Summary Update a plan
// @Description Changing the date range adds and removes daily plans to match
// @Tags Plans
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body request_models.UpdatePlanRequest true "Fields to change"
// @Success 200 {object} response_models.PlanDetailResponse
// @Security BearerAuth
// @Router /plans/{planId} [patch]
func (p *PlanController) UpdatePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	var req request_models.UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := p.planService.UpdatePlan(c.Request.Context(), planID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan updated successfully")
}

// DeletePlan godoc
// @Summary Delete a plan
// @Tags Plans
// @Param planId path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId} [delete]
func (p *PlanController) DeletePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	if err := p.planService.DeletePlan(c.Request.Context(), planID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan deleted successfully")
}

// ListDailyPlans godoc
// @Summary Daily plans of a plan
// @Tags Daily plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {array} response_models.DailyPlanResponse
// @Security BearerAuth
// @Router /plans/{planId}/days [get]
func (p *PlanController) ListDailyPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	days, err := p.dailyPlanService.ListDailyPlans(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, days, "Daily plans fetched successfully")
}

// AddDailyPlan godoc
// @Summary Add a daily plan
// @Tags Daily plans
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body request_models.AddDailyPlanRequest true "Visit date and departure time"
// @Success 201 {object} response_models.DailyPlanResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/days [post]
func (p *PlanController) AddDailyPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	var req request_models.AddDailyPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	day, err := p.dailyPlanService.AddDailyPlan(c.Request.Context(), planID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, day, "Daily plan added successfully")
}

// GetDailyPlan godoc
// @Summary Daily plan with spots and segments
// @Tags Daily plans
// @Produce json
// @Param dayId path string true "Daily plan ID"
// @Success 200 {object} response_models.DailyPlanResponse
// @Security BearerAuth
// @Router /days/{dayId} [get]
func (p *PlanController) GetDailyPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathUUID(c, "dayId")
	if !ok {
		return
	}

	day, err := p.dailyPlanService.GetDailyPlan(c.Request.Context(), dayID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, day, "Daily plan fetched successfully")
}

// UpdateDailyPlan godoc
// @Summary Change a daily plan's departure time
// @Tags Daily plans
// @Accept json
// @Produce json
// @Param dayId path string true "Daily plan ID"
// @Param request body request_models.UpdateDailyPlanRequest true "Departure time HH:MM"
// @Success 200 {object} response_models.DailyPlanResponse
// @Security BearerAuth
// @Router /days/{dayId} [patch]
func (p *PlanController) UpdateDailyPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathUUID(c, "dayId")
	if !ok {
		return
	}
	var req request_models.UpdateDailyPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	day, err := p.dailyPlanService.UpdateDailyPlan(c.Request.Context(), dayID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, day, "Daily plan updated successfully")
}

// DeleteDailyPlan godoc
// @Summary Delete a daily plan with its spots and segments
// @Tags Daily plans
// @Param dayId path string true "Daily plan ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /days/{dayId} [delete]
func (p *PlanController) DeleteDailyPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathUUID(c, "dayId")
	if !ok {
		return
	}

	if err := p.dailyPlanService.DeleteDailyPlan(c.Request.Context(), dayID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Daily plan deleted successfully")
}
