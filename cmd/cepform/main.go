package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/cep-lookup/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/cep-lookup/internal/adapter/kafka"
	"github.com/couchcryptid/cep-lookup/internal/adapter/viacep"
	"github.com/couchcryptid/cep-lookup/internal/config"
	"github.com/couchcryptid/cep-lookup/internal/form"
	"github.com/couchcryptid/cep-lookup/internal/observability"
)

// Per-IP rate limit buckets idle this long are dropped.
const (
	limiterSweepInterval = time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := viacep.NewClient(cfg.ViaCEPBaseURL, cfg.ViaCEPTimeout, metrics, logger)
	logger.Info("viacep client configured", "base_url", cfg.ViaCEPBaseURL, "timeout", cfg.ViaCEPTimeout)

	// Lookup event publishing is feature-flagged via KAFKA_ENABLED.
	var formOpts []form.Option
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		formOpts = append(formOpts, form.WithEventSink(writer))
		metrics.EventsEnabled.Set(1)
		logger.Info("lookup events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("lookup events disabled")
	}

	limiter := httpadapter.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, client, client, limiter, metrics, logger, formOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go limiter.Run(ctx, limiterSweepInterval, limiterIdleTTL)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
