package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tabi/internal/api/controllers"
	"tabi/pkg/middleware"
	"tabi/pkg/utils"
)

type Controllers struct {
	Account    *controllers.AccountController
	Plan       *controllers.PlanController
	Itinerary  *controllers.ItineraryController
	Expense    *controllers.ExpenseController
	Member     *controllers.MemberController
	Invitation *controllers.InvitationController
}

func NewRouter(ctrl Controllers, tokens *utils.TokenIssuer, log *zap.Logger, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(corsOrigins))
	r.Use(middleware.RequestLogger(log))

	RegisterRoutes(r, ctrl, tokens)
	return r
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers, tokens *utils.TokenIssuer) {
	apiGroup := r.Group("/api")

	auth := apiGroup.Group("/auth")
	auth.POST("/signup-code", ctrl.Account.RequestSignupCode)
	auth.POST("/register", ctrl.Account.Register)
	auth.POST("/login", ctrl.Account.Login)

	// the invitation link works before the invitee has an account
	apiGroup.GET("/invitations/:token", middleware.OptionalJWTMiddleware(tokens), ctrl.Invitation.ResolveInvitation)

	secured := apiGroup.Group("")
	secured.Use(middleware.JWTAuthMiddleware(tokens))

	secured.GET("/me", ctrl.Account.Me)

	secured.POST("/invitations/:token/accept", ctrl.Invitation.AcceptInvitation)
	secured.POST("/invitations/:token/reject", ctrl.Invitation.RejectInvitation)

	plans := secured.Group("/plans")
	plans.POST("", ctrl.Plan.CreatePlan)
	plans.GET("", ctrl.Plan.ListPlans)
	plans.GET("/:planId", ctrl.Plan.GetPlan)
	plans.PATCH("/:planId", ctrl.Plan.UpdatePlan)
	plans.DELETE("/:planId", ctrl.Plan.DeletePlan)

	plans.GET("/:planId/days", ctrl.Plan.ListDailyPlans)
	plans.POST("/:planId/days", ctrl.Plan.AddDailyPlan)

	plans.GET("/:planId/expenses", ctrl.Expense.ListExpenses)
	plans.POST("/:planId/expenses", ctrl.Expense.AddExpense)
	plans.PATCH("/:planId/expenses/:expenseId", ctrl.Expense.UpdateExpense)
	plans.DELETE("/:planId/expenses/:expenseId", ctrl.Expense.DeleteExpense)
	plans.GET("/:planId/budget", ctrl.Expense.BudgetSummary)
	plans.GET("/:planId/warikan", ctrl.Expense.Warikan)
	plans.POST("/:planId/warikan/notify", ctrl.Expense.NotifyWarikan)

	plans.GET("/:planId/members", ctrl.Member.ListMembers)
	plans.PATCH("/:planId/members/:userId", ctrl.Member.ChangeRole)
	plans.DELETE("/:planId/members/:userId", ctrl.Member.RemoveMember)
	plans.POST("/:planId/leave", ctrl.Member.LeavePlan)

	plans.GET("/:planId/invitations", ctrl.Invitation.ListInvitations)
	plans.POST("/:planId/invitations", ctrl.Invitation.Invite)
	plans.DELETE("/:planId/invitations/:invitationId", ctrl.Invitation.CancelInvitation)

	days := secured.Group("/days")
	days.GET("/:dayId", ctrl.Plan.GetDailyPlan)
	days.PATCH("/:dayId", ctrl.Plan.UpdateDailyPlan)
	days.DELETE("/:dayId", ctrl.Plan.DeleteDailyPlan)
	days.GET("/:dayId/spots", ctrl.Itinerary.ListSpots)
	days.POST("/:dayId/spots", ctrl.Itinerary.AddSpot)
	days.GET("/:dayId/segments", ctrl.Itinerary.ListSegments)
	days.POST("/:dayId/segments", ctrl.Itinerary.AddSegment)

	spots := secured.Group("/spots")
	spots.GET("/:spotId", ctrl.Itinerary.GetSpot)
	spots.PATCH("/:spotId", ctrl.Itinerary.UpdateSpot)
	spots.DELETE("/:spotId", ctrl.Itinerary.DeleteSpot)

	segments := secured.Group("/segments")
	segments.PATCH("/:segmentId", ctrl.Itinerary.UpdateSegment)
	segments.DELETE("/:segmentId", ctrl.Itinerary.DeleteSegment)

	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondSuccess(c, nil, "ok")
	})
}
