package controllers

import (
	"github.com/gin-gonic/gin"

	"tabi/internal/models/request_models"
	"tabi/internal/services"
	"tabi/pkg/utils"
)

type ExpenseController struct {
	expenseService services.ExpenseServiceInterface
	warikanService services.WarikanServiceInterface
}

func NewExpenseController(expenseService services.ExpenseServiceInterface, warikanService services.WarikanServiceInterface) *ExpenseController {
	return &ExpenseController{
		expenseService: expenseService,
		warikanService: warikanService,
	}
}

// ListExpenses godoc
// @Summary Expenses of a plan
// @Tags Expenses
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {array} response_models.ExpenseResponse
// @Security BearerAuth
// @Router /plans/{planId}/expenses [get]
func (e *ExpenseController) ListExpenses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	expenses, err := e.expenseService.ListExpenses(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, expenses, "Expenses fetched successfully")
}

// AddExpense godoc
// @Summary Record an expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body request_models.ExpenseRequest true "Expense"
// @Success 201 {object} response_models.ExpenseResponse
// @Security BearerAuth
// @Router /plans/{planId}/expenses [post]
func (e *ExpenseController) AddExpense(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	var req request_models.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := e.expenseService.AddExpense(c.Request.Context(), planID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, expense, "Expense added successfully")
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param expenseId path string true "Expense ID"
// @Param request body request_models.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} response_models.ExpenseResponse
// @Security BearerAuth
// @Router /plans/{planId}/expenses/{expenseId} [patch]
func (e *ExpenseController) UpdateExpense(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(c, "expenseId")
	if !ok {
		return
	}
	var req request_models.UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := e.expenseService.UpdateExpense(c.Request.Context(), planID, expenseID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, expense, "Expense updated successfully")
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags Expenses
// @Param planId path string true "Plan ID"
// @Param expenseId path string true "Expense ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/expenses/{expenseId} [delete]
func (e *ExpenseController) DeleteExpense(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(c, "expenseId")
	if !ok {
		return
	}

	if err := e.expenseService.DeleteExpense(c.Request.Context(), planID, expenseID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Expense deleted successfully")
}

// BudgetSummary godoc
// @Summary Budget against spending
// @Tags Expenses
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response_models.BudgetSummaryResponse
// @Security BearerAuth
// @Router /plans/{planId}/budget [get]
func (e *ExpenseController) BudgetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	summary, err := e.expenseService.BudgetSummary(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, summary, "Budget summary fetched successfully")
}

// Warikan godoc
// @Summary Split the plan's spending evenly between members
// @Tags Expenses
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response_models.WarikanResponse
// @Security BearerAuth
// @Router /plans/{planId}/warikan [get]
func (e *ExpenseController) Warikan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	split, err := e.warikanService.Warikan(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, split, "Warikan calculated successfully")
}

// NotifyWarikan godoc
// @Summary E-mail every member their share
// @Tags Expenses
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response_models.WarikanNotifyResponse
// @Security BearerAuth
// @Router /plans/{planId}/warikan/notify [post]
func (e *ExpenseController) NotifyWarikan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "planId")
	if !ok {
		return
	}

	result, err := e.warikanService.NotifyWarikan(c.Request.Context(), planID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Warikan notices sent")
}
