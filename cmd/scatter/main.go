package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/disaster-scatter/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/disaster-scatter/internal/adapter/http"
	"github.com/couchcryptid/disaster-scatter/internal/adapter/plot"
	"github.com/couchcryptid/disaster-scatter/internal/chart"
	"github.com/couchcryptid/disaster-scatter/internal/config"
	"github.com/couchcryptid/disaster-scatter/internal/observability"
	"github.com/couchcryptid/disaster-scatter/internal/pipeline"
	"github.com/couchcryptid/disaster-scatter/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source, err := dataset.NewFileSource(cfg.DataPath)
	if err != nil {
		logger.Error("invalid data source", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	dashboard := view.NewDashboard(chart.DefaultLayout(), logger)
	p := pipeline.New(source, dashboard, logger, metrics, clockwork.NewRealClock(), cfg.ReloadInterval)

	exporter := plot.NewCachedExporter(plot.DefaultOptions(), cfg.ChartCacheSize)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, dashboard, exporter, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start dataset pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
