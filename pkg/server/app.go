package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"QuantDesk/pkg/cache"
	"QuantDesk/pkg/config"
	xhttp "QuantDesk/pkg/http"
	"QuantDesk/pkg/logger"
)

// App ties together configuration, the HTTP server and shared resources,
// and owns the startup/shutdown sequence.
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	server *xhttp.Server
	cache  cache.Service
}

func New(cfg *config.Config, handler xhttp.Handler, c cache.Service) (*App, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	srv := xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	return &App{cfg: cfg, log: log, server: srv, cache: c}, nil
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM,
// then shuts everything down gracefully.
func (a *App) Run() error {
	a.log.Info("starting application",
		logger.String("environment", a.cfg.Environment),
		logger.Int("port", a.cfg.Server.Port),
	)

	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	a.log.Info("shutdown signal received", logger.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Stop(ctx); err != nil {
		a.log.Error("http server shutdown", logger.Error(err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Error("cache close", logger.Error(err))
		}
	}

	a.log.Info("application stopped")
	return nil
}
