package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tabi/internal/config"
	"tabi/internal/repositories"
	"tabi/internal/services"
	mem "tabi/pkg/memcache"
)

const purgeInterval = 5 * time.Minute

var Module = fx.Provide(provideCodeStore)

type expiringStore interface {
	services.VerificationCodeStore
	DeleteExpired(ctx context.Context) (int64, error)
}

func provideCodeStore(lc fx.Lifecycle, cfg config.Config, dbStore *repositories.VerificationCodeRepository, log *zap.Logger) services.VerificationCodeStore {
	var store expiringStore = dbStore
	if cfg.VerificationStore == "memory" {
		store = mem.NewCodeStore()
	}
	log = log.With(zap.String("store", cfg.VerificationStore))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go purgeLoop(ctx, store, log, done)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
	return store
}

func purgeLoop(ctx context.Context, store expiringStore, log *zap.Logger, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				log.Warn("purge verification codes", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged verification codes", zap.Int64("count", n))
			}
		}
	}
}
