package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/postgres/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

// Module — журнал сигналов в postgres. Пустой DSN — модуль ничего не делает.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, bot *runner.Bot) {
			if cfg.DB == "" {
				logger.Info("[PG] db_dsn not set, journal disabled")
				return
			}

			var (
				tm     *db.PgTxManager
				cancel context.CancelFunc
			)
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
					if err != nil {
						return fmt.Errorf("failed to create poolMaster: %w", err)
					}
					if err := pool.Ping(ctx); err != nil {
						pool.Close()
						return fmt.Errorf("ping postgres: %w", err)
					}
					tm = db.NewPgTxManager(pool)

					j := service.NewJournal(tm)
					if err := j.EnsureSchema(ctx); err != nil {
						tm.Close()
						return fmt.Errorf("journal schema: %w", err)
					}

					var runCtx context.Context
					runCtx, cancel = context.WithCancel(context.Background())
					go j.Run(runCtx)
					bot.AddSink(j)
					logger.Info("[PG] signal journal enabled")
					return nil
				},
				OnStop: func(_ context.Context) error {
					if cancel != nil {
						cancel()
					}
					if tm != nil {
						tm.Close()
					}
					return nil
				},
			})
		}),
	)
}
