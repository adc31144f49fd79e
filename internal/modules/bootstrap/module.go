package bootstrap

import (
	"context"

	"go.uber.org/fx"

	bootstrap "signal_bot/internal/modules/bootstrap/service"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, bot *runner.Bot) {
			path := cfg.Bootstrap.HistoryFile
			if path == "" {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					n, err := bootstrap.Warmup(bot, path)
					if err != nil {
						// прогрев не обязателен, стартуем с пустой историей
						logger.Error("[BOOT] warmup error: %v", err)
						return nil
					}
					logger.Info("[BOOT] warmup done: %d outcomes from %s", n, path)
					return nil
				},
			})
		}),
	)
}
