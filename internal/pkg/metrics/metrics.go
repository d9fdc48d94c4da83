package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agrivision",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agrivision",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Analysis pipeline metrics
	AnalysesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "analysis",
		Name:      "submitted_total",
		Help:      "Total image analysis sessions queued",
	})

	AnalysesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "analysis",
		Name:      "completed_total",
		Help:      "Total image analyses finished, by outcome",
	}, []string{"status"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agrivision",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "End-to-end analysis time from dequeue to completion",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	DetectorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "detector",
		Name:      "requests_total",
		Help:      "Total calls to the detection sidecar",
	}, []string{"endpoint", "outcome"})

	DetectorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agrivision",
		Subsystem: "detector",
		Name:      "latency_seconds",
		Help:      "Detection sidecar call latency",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"endpoint"})

	// Planting metrics
	LayoutsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "planting",
		Name:      "layouts_generated_total",
		Help:      "Total planting layouts generated",
	})

	OptimizationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "planting",
		Name:      "optimization_runs_total",
		Help:      "Total genetic spacing optimizations executed",
	})

	OptimizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agrivision",
		Subsystem: "planting",
		Name:      "optimization_duration_seconds",
		Help:      "Genetic spacing search duration",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	// Weather provider metrics
	WeatherFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "weather",
		Name:      "fetches_total",
		Help:      "Total upstream weather API calls",
	}, []string{"kind", "outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "agrivision",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "agrivision",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "agrivision",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "agrivision",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})

	DBPoolEmptyAcquires = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "db",
		Name:      "pool_empty_acquires_total",
		Help:      "Total times a connection had to be established when acquiring from pool",
	})

	DBPoolWaitCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agrivision",
		Subsystem: "db",
		Name:      "pool_wait_count_total",
		Help:      "Total times waiting for a connection from pool",
	})

	DBPoolWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agrivision",
		Subsystem: "db",
		Name:      "pool_wait_duration_seconds",
		Help:      "Duration waiting for a database connection",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates database pool metrics from pgx pool stats.
func UpdateDBPoolMetrics(stat interface{}) {
	// Use a local interface to avoid importing pgxpool directly into the
	// metrics package.
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
