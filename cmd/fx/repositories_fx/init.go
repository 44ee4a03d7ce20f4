package repositories_fx

import (
	"go.uber.org/fx"

	"tabi/internal/repositories"
)

var Module = fx.Provide(
	repositories.NewUserRepository,
	repositories.NewPlanRepository,
	repositories.NewDailyPlanRepository,
	repositories.NewSpotRepository,
	repositories.NewTravelSegmentRepository,
	repositories.NewExpenseRepository,
	repositories.NewMemberRepository,
	repositories.NewInvitationRepository,
	repositories.NewVerificationCodeRepository,
)
