package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/prosemirror-api/api/routes"
	"github.com/angelmondragon/prosemirror-api/internal/conversion"
	"github.com/angelmondragon/prosemirror-api/pkg/config"
	"github.com/angelmondragon/prosemirror-api/pkg/instance"
	"github.com/angelmondragon/prosemirror-api/pkg/logger"
	"github.com/angelmondragon/prosemirror-api/pkg/metrics"
	"github.com/angelmondragon/prosemirror-api/pkg/prosemirror"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logFormat, err := cfg.App.ResolveLogFormat()
	if err != nil {
		logg.Error(context.Background(), "invalid log format", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      logFormat.String(),
	})

	opts := prosemirror.DefaultOptions()
	opts.Link.Target = cfg.Editor.LinkTarget
	opts.Link.Rel = cfg.Editor.LinkRel
	schema, err := prosemirror.NewDefaultSchema(opts)
	if err != nil {
		logg.Error(context.Background(), "failed to build document schema", err)
		os.Exit(1)
	}

	var (
		registerer prometheus.Registerer
		gatherer   prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		registerer, gatherer = reg, reg
	}

	conversionService, err := conversion.NewService(conversion.ServiceParams{
		Schema:  schema,
		Logger:  logg,
		Metrics: metrics.NewConversionMetrics(registerer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create conversion service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, conversionService, gatherer),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
		return
	case <-runCtx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
