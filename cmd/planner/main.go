package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/agrivision/backend/internal/adapters/nats"
	"github.com/agrivision/backend/internal/adapters/openweather"
	"github.com/agrivision/backend/internal/adapters/postgres"
	"github.com/agrivision/backend/internal/core/usecases"
	"github.com/agrivision/backend/internal/pkg/config"
	"github.com/agrivision/backend/internal/workflows"
)

func main() {
	cfg, err := config.Load("agrivision-planner")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Printf("nats unavailable, recommendations are logged only: %v", err)
	} else {
		defer publisher.Close()
	}

	weatherClient := openweather.New(cfg.Weather.APIKey, cfg.Weather.BaseURL)

	layoutRepo := postgres.NewLayoutRepo(db)
	fieldRepo := postgres.NewFieldRepo(db)
	calcRepo := postgres.NewCalculationRepo(db)

	activities := &workflows.PipelineActivities{
		Planting: usecases.NewPlantingService(calcRepo, nil),
		Layouts:  usecases.NewLayoutService(layoutRepo, fieldRepo, nil, nil, nil),
		Weather:  weatherClient,
	}
	if publisher != nil {
		activities.Publisher = publisher
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.PlantingPipelineWorkflow)
	w.RegisterActivity(activities)

	log.Println("planner worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
