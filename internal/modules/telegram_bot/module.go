package telegram

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

// Module подписывает уведомления на сигналы бота. Без токена — только лог.
func Module() fx.Option {
	return fx.Module("telegram",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, bot *runner.Bot) error {
			if cfg.Telegram.Token == "" {
				logger.Info("[TG] token not set, signals go to log")
				bot.AddSink(service.LogNotifier{})
				return nil
			}

			t, err := service.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, bot)
			if err != nil {
				return err
			}
			bot.AddSink(t)

			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					t.Start(ctx)
					return nil
				},
				OnStop: func(_ context.Context) error {
					cancel()
					t.Stop()
					return nil
				},
			})
			return nil
		}),
	)
}
