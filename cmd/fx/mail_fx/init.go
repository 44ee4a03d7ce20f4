package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tabi/internal/config"
	"tabi/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg config.Config, log *zap.Logger) services.IMailService {
	if cfg.SMTP.Username == "" || cfg.SMTP.From == "" {
		log.Warn("SMTP not configured, mails will only be logged")
		return services.NewLogMailService(log.Named("mail"), cfg.AppBaseURL)
	}
	log.Info("SMTP mail service ready",
		zap.String("host", cfg.SMTP.Host),
		zap.Int("port", cfg.SMTP.Port))
	return services.NewSMTPMailService(cfg.SMTP, cfg.AppName, cfg.AppBaseURL)
}
