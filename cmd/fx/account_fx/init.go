package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tabi/internal/config"
	"tabi/internal/repositories"
	"tabi/internal/services"
	"tabi/pkg/utils"
)

var Module = fx.Provide(
	provideTokenIssuer, provideAccountService)

func provideTokenIssuer(cfg config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
}

func provideAccountService(
	cfg config.Config,
	userRepo repositories.UserRepository,
	codes services.VerificationCodeStore,
	invitations services.InvitationServiceInterface,
	mailService services.IMailService,
	tokens *utils.TokenIssuer,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, codes, invitations, mailService, tokens, log.Named("account"), cfg.VerificationCodeTTL)
}
