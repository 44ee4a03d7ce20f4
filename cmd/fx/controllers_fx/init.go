package controllers_fx

import (
	"go.uber.org/fx"

	"tabi/internal/api"
	"tabi/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewExpenseController),
	fx.Provide(controllers.NewMemberController),
	fx.Provide(controllers.NewInvitationController),
	fx.Provide(provideControllers),
)

type params struct {
	fx.In

	Account    *controllers.AccountController
	Plan       *controllers.PlanController
	Itinerary  *controllers.ItineraryController
	Expense    *controllers.ExpenseController
	Member     *controllers.MemberController
	Invitation *controllers.InvitationController
}

func provideControllers(p params) api.Controllers {
	return api.Controllers{
		Account:    p.Account,
		Plan:       p.Plan,
		Itinerary:  p.Itinerary,
		Expense:    p.Expense,
		Member:     p.Member,
		Invitation: p.Invitation,
	}
}
