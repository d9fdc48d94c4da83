package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agrivision/backend/internal/adapters/detector"
	"github.com/agrivision/backend/internal/adapters/http"
	natsadapter "github.com/agrivision/backend/internal/adapters/nats"
	"github.com/agrivision/backend/internal/adapters/openweather"
	"github.com/agrivision/backend/internal/adapters/postgres"
	"github.com/agrivision/backend/internal/adapters/valkey"
	"github.com/agrivision/backend/internal/core/ports"
	"github.com/agrivision/backend/internal/core/usecases"
	"github.com/agrivision/backend/internal/pkg/config"
	"github.com/agrivision/backend/internal/pkg/logging"
	"github.com/agrivision/backend/internal/pkg/metrics"
	"github.com/agrivision/backend/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("agrivision-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	var cache ports.CacheService
	vk, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		cache = vk
		defer vk.Close()
	}

	// NATS
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = nc
		defer nc.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// External providers
	weatherClient := openweather.New(cfg.Weather.APIKey, cfg.Weather.BaseURL)
	detectorClient := detector.New(cfg.Detector.BaseURL)

	if cfg.Auth.Secret == "" {
		slog.Warn("auth.secret is empty, tokens are not safe for production")
	}

	// Repos
	fieldRepo := postgres.NewFieldRepo(db)
	layoutRepo := postgres.NewLayoutRepo(db)
	calcRepo := postgres.NewCalculationRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	qualityRepo := postgres.NewQualityRepo(db)
	userRepo := postgres.NewUserRepo(db)

	// Use cases
	fieldSvc := usecases.NewFieldService(fieldRepo, cache)
	layoutSvc := usecases.NewLayoutService(layoutRepo, fieldRepo, publisher, cache, nil)
	plantingSvc := usecases.NewPlantingService(calcRepo, nil)
	analysisSvc := usecases.NewAnalysisService(sessionRepo, detectorClient, weatherClient, publisher, slog.Default())
	qualitySvc := usecases.NewQualityService(qualityRepo, detectorClient)
	weatherSvc := usecases.NewWeatherService(weatherClient, cache)
	authSvc := usecases.NewAuthService(userRepo, cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	deps := &http.Dependencies{
		Fields:   fieldSvc,
		Layouts:  layoutSvc,
		Planting: plantingSvc,
		Analyses: analysisSvc,
		Quality:  qualitySvc,
		Weather:  weatherSvc,
		Auth:     authSvc,
		Detector: detectorClient,
		NATS:     natsConn,
		DB:       db,
		Cache:    vk,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "AgriVision API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.agrivision.app",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Feed connection pool gauges while the server runs
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
