package logger_fx

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tabi/internal/config"
)

var Module = fx.Options(
	fx.Provide(provideLogger),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
	fx.Invoke(registerGlobal),
)

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = log.Sync()
	}))
	return log, nil
}

// registerGlobal lets code without an injected logger use zap.L().
func registerGlobal(log *zap.Logger) {
	zap.ReplaceGlobals(log)
}
