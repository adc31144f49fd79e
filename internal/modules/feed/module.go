package feed

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/feed/service"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

// Module поднимает коллекторы, если заданы адреса. Без адресов данные
// приходят только через POST /ingest.
func Module() fx.Option {
	return fx.Module("feed",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, bot *runner.Bot, state *health.State) {
			var runs []func(context.Context)
			if cfg.Feed.WSURL != "" {
				runs = append(runs, service.NewStream(cfg.Feed.WSURL, cfg.Feed.Reconnect, bot, state).Run)
			}
			if cfg.Feed.PollURL != "" {
				runs = append(runs, service.NewPoller(cfg.Feed.PollURL, cfg.Feed.PollEvery, bot, state).Run)
			}
			if len(runs) == 0 {
				logger.Info("[FEED] no collector configured, waiting for /ingest")
				return
			}

			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					for _, run := range runs {
						go run(ctx)
					}
					return nil
				},
				OnStop: func(_ context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
