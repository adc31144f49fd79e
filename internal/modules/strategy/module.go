package strategy

import (
	"signal_bot/internal/modules/strategy/service"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			service.NewSource, // service.Source
		),
		fx.Invoke(func(src service.Source) {
			logger.Info("[STRAT] source=%s white=%d color=%d",
				src.Name(), len(service.WhiteCatalog), len(service.ColorCatalog))
		}),
	)
}
