package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"

	"signal_bot/internal/modules/api/service"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
)

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, s *service.Server) {
	addr := cfg.Service.HTTPAddr
	if addr == "" {
		addr = ":5000"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: service.ReadHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("[API] listening on %s", addr)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("[API] serve: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(service.NewServer),
		fx.Invoke(RunHTTP),
	)
}
