package journey_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tabi/internal/config"
	"tabi/internal/infra"
	"tabi/internal/repositories"
	"tabi/internal/services"
)

// Module provides plans and the ordered itinerary inside each day.
var Module = fx.Provide(
	services.NewOrderingEngine,
	providePlanService,
	provideDailyPlanService,
	provideSpotService,
	provideTravelSegmentService,
)

func providePlanService(
	cfg config.Config,
	planRepo repositories.PlanRepository,
	dayRepo repositories.DailyPlanRepository,
	memberRepo repositories.MemberRepository,
	invitationRepo repositories.InvitationRepository,
	expenseRepo repositories.ExpenseRepository,
	perms services.PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
) services.PlanServiceInterface {
	return services.NewPlanService(planRepo, dayRepo, memberRepo, invitationRepo, expenseRepo, perms, tx, log.Named("plan"), cfg.MaxPlanDays)
}

func provideDailyPlanService(
	planRepo repositories.PlanRepository,
	dayRepo repositories.DailyPlanRepository,
	spotRepo repositories.SpotRepository,
	segmentRepo repositories.TravelSegmentRepository,
	expenseRepo repositories.ExpenseRepository,
	perms services.PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
) services.DailyPlanServiceInterface {
	return services.NewDailyPlanService(planRepo, dayRepo, spotRepo, segmentRepo, expenseRepo, perms, tx, log.Named("daily_plan"))
}

func provideSpotService(
	spotRepo repositories.SpotRepository,
	segmentRepo repositories.TravelSegmentRepository,
	expenseRepo repositories.ExpenseRepository,
	dayRepo repositories.DailyPlanRepository,
	perms services.PermissionServiceInterface,
	ordering services.OrderingEngine,
	tx infra.Transactor,
	log *zap.Logger,
) services.SpotServiceInterface {
	return services.NewSpotService(spotRepo, segmentRepo, expenseRepo, dayRepo, perms, ordering, tx, log.Named("spot"))
}

func provideTravelSegmentService(
	segmentRepo repositories.TravelSegmentRepository,
	spotRepo repositories.SpotRepository,
	dayRepo repositories.DailyPlanRepository,
	perms services.PermissionServiceInterface,
	ordering services.OrderingEngine,
	tx infra.Transactor,
	log *zap.Logger,
) services.TravelSegmentServiceInterface {
	return services.NewTravelSegmentService(segmentRepo, spotRepo, dayRepo, perms, ordering, tx, log.Named("segment"))
}
