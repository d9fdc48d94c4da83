package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/planting"
	"github.com/agrivision/backend/internal/core/usecases"
	"github.com/agrivision/backend/internal/pkg/metrics"
)

// serviceError maps service-layer errors to HTTP responses. Input validation
// failures are the caller's fault; anything else is ours.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "resource not found")
	case errors.Is(err, planting.ErrInvalidBoundary),
		errors.Is(err, planting.ErrInvalidSpacing),
		errors.Is(err, planting.ErrInvalidArea),
		errors.Is(err, planting.ErrInvalidSoilScore):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		return errConflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errUnauthorized(c, "invalid credentials")
	default:
		return errInternal(c, err.Error())
	}
}

func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterHandler creates a new account.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		user, err := deps.Auth.Register(c.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				return errConflict(c, err.Error())
			}
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(user)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler verifies credentials and returns a bearer token.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		token, user, err := deps.Auth.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"token": token, "user": user})
	}
}

// MeHandler returns the authenticated user.
func MeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if claims == nil {
			return errUnauthorized(c, "authentication required")
		}
		return c.JSON(fiber.Map{"user_id": claims.UserID, "role": claims.Role})
	}
}

// --- Fields ---

// CreateFieldHandler registers a field.
func CreateFieldHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var field domain.Field
		if err := c.BodyParser(&field); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		field.UserID = userIDFromCtx(c)
		created, err := deps.Fields.Create(c.Context(), &field)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(created)
	}
}

// ListFieldsHandler returns a page of the user's fields.
func ListFieldsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageParams(c)
		fields, total, err := deps.Fields.List(c.Context(), userIDFromCtx(c), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: fields, Pagination: pg})
	}
}

// GetFieldHandler returns one field.
func GetFieldHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		field, err := deps.Fields.Get(c.Context(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(field)
	}
}

// UpdateFieldHandler modifies a field.
func UpdateFieldHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var field domain.Field
		if err := c.BodyParser(&field); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		field.FieldID = c.Params("id")
		updated, err := deps.Fields.Update(c.Context(), &field)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	}
}

// DeleteFieldHandler removes a field.
func DeleteFieldHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Fields.Delete(c.Context(), c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(204)
	}
}

// FieldLayoutsHandler returns a page of a field's layouts.
func FieldLayoutsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageParams(c)
		layouts, total, err := deps.Layouts.ListByField(c.Context(), c.Params("id"), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: layouts, Pagination: pg})
	}
}

// --- Planting layouts ---

// GenerateLayoutHandler runs the grid sweep for a boundary, field, or area.
func GenerateLayoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.LayoutRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		layout, err := deps.Layouts.Generate(c.Context(), &req)
		if err != nil {
			return serviceError(c, err)
		}
		metrics.LayoutsGenerated.Inc()
		status := 200
		if req.Persist {
			status = 201
		}
		return c.Status(status).JSON(layout)
	}
}

type optimizeRequest struct {
	AreaM2    float64 `json:"area_m2"`
	SoilScore float64 `json:"soil_score"`
}

// OptimizeSpacingHandler runs the genetic spacing search.
func OptimizeSpacingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req optimizeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		start := time.Now()
		result, err := deps.Layouts.Optimize(c.Context(), req.AreaM2, req.SoilScore)
		if err != nil {
			return serviceError(c, err)
		}
		metrics.OptimizationRuns.Inc()
		metrics.OptimizationDuration.Observe(time.Since(start).Seconds())
		return c.JSON(result)
	}
}

// GetLayoutHandler returns one persisted layout.
func GetLayoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		layout, err := deps.Layouts.Get(c.Context(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(layout)
	}
}

// ValidateLayoutHandler checks a layout's plant count against its density.
func ValidateLayoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := deps.Layouts.Validate(c.Context(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(result)
	}
}

// DeleteLayoutHandler removes a persisted layout.
func DeleteLayoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Layouts.Delete(c.Context(), c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(204)
	}
}

// --- Planting calculations ---

// CalculatePlantingHandler runs the full planting calculation.
func CalculatePlantingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.CalculationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		req.UserID = userIDFromCtx(c)
		calc, err := deps.Planting.Calculate(c.Context(), &req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(calc)
	}
}

// PlantingHistoryHandler returns a page of past calculations.
func PlantingHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageParams(c)
		calcs, total, err := deps.Planting.History(c.Context(), userIDFromCtx(c), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: calcs, Pagination: pg})
	}
}

// GetCalculationHandler returns one calculation.
func GetCalculationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		calc, err := deps.Planting.Get(c.Context(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(calc)
	}
}

// --- Image analyses ---

// SubmitAnalysisHandler queues an image analysis and returns the session.
func SubmitAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.AnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		req.UserID = userIDFromCtx(c)
		session, err := deps.Analyses.Submit(c.Context(), &req)
		if err != nil {
			return serviceError(c, err)
		}
		metrics.AnalysesSubmitted.Inc()
		return c.Status(202).JSON(session)
	}
}

// ListAnalysesHandler returns a page of the user's sessions.
func ListAnalysesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageParams(c)
		sessions, total, err := deps.Analyses.List(c.Context(), userIDFromCtx(c), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: sessions, Pagination: pg})
	}
}

// GetAnalysisHandler returns one session; clients poll this for completion.
func GetAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := deps.Analyses.Get(c.Context(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(session)
	}
}

// --- Fruit quality ---

type gradeRequest struct {
	ImageURLs []string `json:"image_urls"`
}

// GradeQualityHandler grades a batch of fruit images synchronously.
func GradeQualityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req gradeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		report, err := deps.Quality.Grade(c.Context(), userIDFromCtx(c), req.ImageURLs)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(report)
	}
}

// ListQualityReportsHandler returns a page of the user's reports.
func ListQualityReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageParams(c)
		reports, total, err := deps.Quality.List(c.Context(), userIDFromCtx(c), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: reports, Pagination: pg})
	}
}

// GetQualityReportHandler returns one report.
func GetQualityReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := deps.Quality.Get(c.Context(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(report)
	}
}

// --- Weather ---

func coordParams(c *fiber.Ctx) (lat, lon float64, ok bool) {
	lat = c.QueryFloat("lat", 0)
	lon = c.QueryFloat("lon", 0)
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 || (lat == 0 && lon == 0) {
		return 0, 0, false
	}
	return lat, lon, true
}

// CurrentWeatherHandler returns current conditions for a coordinate.
func CurrentWeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, ok := coordParams(c)
		if !ok {
			return errBadRequest(c, "valid lat and lon are required")
		}
		weather, err := deps.Weather.Current(c.Context(), lat, lon)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(weather)
	}
}

// ForecastHandler returns up to seven days of forecast.
func ForecastHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, ok := coordParams(c)
		if !ok {
			return errBadRequest(c, "valid lat and lon are required")
		}
		days := c.QueryInt("days", 7)
		forecast, err := deps.Weather.Forecast(c.Context(), lat, lon, days)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=1800")
		return c.JSON(fiber.Map{"forecast": forecast})
	}
}
