package http

import (
	"github.com/nats-io/nats.go"

	"github.com/agrivision/backend/internal/adapters/postgres"
	"github.com/agrivision/backend/internal/adapters/valkey"
	"github.com/agrivision/backend/internal/core/ports"
	"github.com/agrivision/backend/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Fields   *usecases.FieldService
	Layouts  *usecases.LayoutService
	Planting *usecases.PlantingService
	Analyses *usecases.AnalysisService
	Quality  *usecases.QualityService
	Weather  *usecases.WeatherService
	Auth     *usecases.AuthService
	Detector ports.Detector
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
