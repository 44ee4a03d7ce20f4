package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tabi/cmd/fx/account_fx"
	"tabi/cmd/fx/collaboration_fx"
	"tabi/cmd/fx/config_fx"
	"tabi/cmd/fx/controllers_fx"
	"tabi/cmd/fx/db_fx"
	"tabi/cmd/fx/expense_fx"
	"tabi/cmd/fx/journey_fx"
	"tabi/cmd/fx/logger_fx"
	"tabi/cmd/fx/mail_fx"
	"tabi/cmd/fx/memcache_fx"
	"tabi/cmd/fx/repositories_fx"
	"tabi/internal/api"
	"tabi/internal/config"
	"tabi/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		repositories_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		collaboration_fx.Module,
		journey_fx.Module,
		expense_fx.Module,
		account_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideRouter(cfg config.Config, ctrl api.Controllers, tokens *utils.TokenIssuer, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return api.NewRouter(ctrl, tokens, log.Named("http"), cfg.CORSOrigins)
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
