package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dejobratic/restoadmin/internal/config"
	"github.com/dejobratic/restoadmin/internal/database"
	"github.com/dejobratic/restoadmin/internal/kafka"
	httpadapter "github.com/dejobratic/restoadmin/internal/orders/adapters/http"
	ordersapp "github.com/dejobratic/restoadmin/internal/orders/app"
	ordersmetrics "github.com/dejobratic/restoadmin/internal/orders/metrics"
	"github.com/dejobratic/restoadmin/internal/telemetry"
)

func main() {
	configPath := flag.String("config", os.Getenv("RESTOADMIN_CONFIG"), "JSONC config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("restoadmin-api exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := telemetry.ParseLevel(cfg.Telemetry.LogLevel)
	if err != nil {
		return err
	}
	logger := telemetry.NewLogger(os.Stdout, level,
		slog.String("service", cfg.Service.Name),
		slog.String("version", cfg.Service.Version),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := tel.Meter("restoadmin")
	ordersMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		return err
	}
	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		return err
	}
	kafkaMetrics, err := kafka.NewMetrics(meter)
	if err != nil {
		return err
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		return err
	}

	st, err := openStorage(ctx, cfg, dbMetrics, logger)
	if err != nil {
		return err
	}
	defer st.close()

	events, closeEvents := newEventBus(cfg, kafkaMetrics, logger)
	defer func() {
		if err := closeEvents(); err != nil {
			logger.Warn("event bus close failed", "error", err)
		}
	}()

	source, err := newBackendClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	loc, err := cfg.Orders.Location()
	if err != nil {
		return err
	}
	service := ordersapp.NewService(source, st.snapshots, events, st.idempotency, logger, ordersMetrics,
		ordersapp.WithLocation(loc),
		ordersapp.WithRecentCount(cfg.Orders.RecentCount),
	)

	// Deferred after the stores, so it runs before they are closed.
	stopPoller := ordersapp.NewPoller(service, cfg.Orders.RefreshInterval(), logger).Start(ctx)
	defer stopPoller()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ordersmetrics.NewSnapshotCollector(st.snapshots),
	)

	ui, err := httpadapter.NewUI(service, logger, httpMetrics)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	httpadapter.NewHandler(service, logger).Register(mux)
	ui.Register(mux)
	httpadapter.RegisterOps(mux, st.snapshots, registry, cfg.HTTP.MetricsPath)

	var handler http.Handler = mux
	handler = httpadapter.WithMetrics(handler, httpMetrics)
	handler = httpadapter.WithLogging(handler, logger)
	handler = httpadapter.WithRequestID(handler)
	handler = httpadapter.WithRecovery(handler, logger)
	handler = otelhttp.NewHandler(handler, "restoadmin-api")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// The board feed is a long-lived SSE stream.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port, "store", cfg.Orders.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	logger.Info("http server stopped")
	return nil
}
