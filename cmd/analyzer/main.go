package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrivision/backend/internal/adapters/detector"
	natsadapter "github.com/agrivision/backend/internal/adapters/nats"
	"github.com/agrivision/backend/internal/adapters/openweather"
	"github.com/agrivision/backend/internal/adapters/postgres"
	"github.com/agrivision/backend/internal/core/ports"
	"github.com/agrivision/backend/internal/core/usecases"
	"github.com/agrivision/backend/internal/pkg/config"
	"github.com/agrivision/backend/internal/pkg/logging"
	"github.com/agrivision/backend/internal/pkg/metrics"
	"github.com/agrivision/backend/internal/pkg/telemetry"
)

// The analyzer drains the ANALYSIS_JOBS work queue: for each submitted image
// it calls the detection sidecar, infers the growth stage, and writes the
// fertilizer plan back onto the session.
func main() {
	cfg, err := config.Load("agrivision-analyzer")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	detectorClient := detector.New(cfg.Detector.BaseURL)
	weatherClient := openweather.New(cfg.Weather.APIKey, cfg.Weather.BaseURL)

	sessionRepo := postgres.NewSessionRepo(db)
	analysisSvc := usecases.NewAnalysisService(sessionRepo, detectorClient, weatherClient, publisher, slog.Default())

	handler := func(ctx context.Context, job *ports.AnalysisJob) error {
		start := time.Now()
		err := analysisSvc.Process(ctx, job)
		if err != nil {
			metrics.AnalysesCompleted.WithLabelValues("failed").Inc()
			slog.Error("process analysis", "session_id", job.SessionID, "error", err)
			return err
		}
		metrics.AnalysesCompleted.WithLabelValues("completed").Inc()
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		slog.Info("analysis processed", "session_id", job.SessionID, "duration", time.Since(start))
		return nil
	}

	if err := subscriber.SubscribeAnalysisJobs(ctx, handler); err != nil {
		log.Fatalf("subscribe analysis jobs: %v", err)
	}

	// Metrics endpoint for scraping; the worker has no other HTTP surface.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("analyzer worker started", "metrics_addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("metrics server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())
	cancel()
	slog.Info("analyzer stopped")
}
