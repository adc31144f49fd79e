package runner

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy/service"
	"signal_bot/pkg/logger"
)

// Module — бот как синглтон. Получатели сигналов подписываются через AddSink.
func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(func(cfg *config.Config, src service.Source) *Bot {
			return NewBot(cfg, src)
		}),
		fx.Invoke(func(lc fx.Lifecycle, b *Bot) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					s := b.Settings()
					logger.Info("[BOT] ready: bot_on=%v mode=%s confluence=%d/%d risk=%s",
						s.BotOn, s.Mode, s.ConfluenceWhite, s.ConfluenceColor, s.Risk)
					return nil
				},
			})
		}),
	)
}
