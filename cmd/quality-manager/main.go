// cmd/quality-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"manufacturer-quality/internal/api"
	"manufacturer-quality/internal/common/camunda"
	"manufacturer-quality/internal/common/config"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/common/observability"
	"manufacturer-quality/internal/manufacturing/quality"
	"manufacturer-quality/pkg/registry"
)

func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s interrupted: %w", operationName, ctx.Err())
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting quality manager",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.NewTracerProvider(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracer provider init failed", zap.Error(err))
	}
	obs := observability.New(cfg.Observability.ServiceName,
		observability.WithTracerProvider(tp),
		observability.WithLogger(log),
	)
	defer obs.Shutdown()

	activities, err := loadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	service := quality.NewService(&quality.Config{
		Latency: quality.DefaultLatency().Scaled(cfg.Simulation.LatencyScale),
		Seed:    cfg.Simulation.Seed,
	}, log)

	var (
		zeebe   *camunda.Client
		workers []*camunda.CamundaWorker
	)
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(ctx, func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFromSettings(cfg.Camunda))
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

		workers = startWorkers(zeebe.GetClient(), cfg, service, activities, obs, log)
		zapLog.Info("workers registered", zap.Int("count", len(workers)))
	} else {
		zapLog.Info("camunda disabled, serving the HTTP API only")
	}

	opts := []api.Option{api.WithRequestTimeout(cfg.Server.WriteTimeoutDuration())}
	if zeebe != nil {
		opts = append(opts, api.WithReadinessCheck(zeebe.HealthCheck))
	}
	server := api.NewServer(service, log, opts...).NewHTTPServer(
		fmt.Sprintf(":%d", cfg.Server.Port),
		cfg.Server.ReadTimeoutDuration(),
		cfg.Server.WriteTimeoutDuration(),
	)

	serverErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("shutdown signal received, stopping workers...")
	case err := <-serverErr:
		zapLog.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("quality manager stopped gracefully")
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	var (
		reg *registry.ActivityRegistry
		err error
	)
	if path != "" {
		reg, err = registry.LoadRegistry(path)
	} else {
		reg, err = registry.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
