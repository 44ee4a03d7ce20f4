package expense_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tabi/internal/infra"
	"tabi/internal/repositories"
	"tabi/internal/services"
)

var Module = fx.Provide(
	provideExpenseService, provideWarikanService)

func provideExpenseService(
	expenseRepo repositories.ExpenseRepository,
	planRepo repositories.PlanRepository,
	dayRepo repositories.DailyPlanRepository,
	spotRepo repositories.SpotRepository,
	perms services.PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
) services.ExpenseServiceInterface {
	return services.NewExpenseService(expenseRepo, planRepo, dayRepo, spotRepo, perms, tx, log.Named("expense"))
}

func provideWarikanService(
	planRepo repositories.PlanRepository,
	memberRepo repositories.MemberRepository,
	expenseRepo repositories.ExpenseRepository,
	perms services.PermissionServiceInterface,
	mailService services.IMailService,
	log *zap.Logger,
) services.WarikanServiceInterface {
	return services.NewWarikanService(planRepo, memberRepo, expenseRepo, perms, mailService, log.Named("warikan"))
}
