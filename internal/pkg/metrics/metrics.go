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
		Namespace: "parksy",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parksy",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	// Pipeline metrics
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "search",
		Name:      "searches_total",
		Help:      "Total parking searches executed",
	})

	SearchPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "search",
		Name:      "passes_total",
		Help:      "Total provider search passes issued",
	}, []string{"kind"})

	SearchPassFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "search",
		Name:      "pass_failures_total",
		Help:      "Total provider search passes skipped after a failure",
	}, []string{"kind"})

	SpotsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "parksy",
		Subsystem: "search",
		Name:      "spots_returned",
		Help:      "Real candidates surviving normalization and dedup per search",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
	})

	SyntheticBackfills = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "search",
		Name:      "synthetic_backfills_total",
		Help:      "Total searches padded with synthetic spots",
	})

	// Conversation metrics
	FollowUpAnswers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "chat",
		Name:      "followup_answers_total",
		Help:      "Total follow-up questions answered from cached results",
	})

	GeocodeMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "chat",
		Name:      "geocode_misses_total",
		Help:      "Total location phrases the geocoder could not resolve",
	})

	ReplyFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "chat",
		Name:      "reply_fallbacks_total",
		Help:      "Total replies served from the deterministic fallback",
	})

	// Session metrics
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "parksy",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Sessions currently held in the store",
	})

	SessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parksy",
		Subsystem: "sessions",
		Name:      "evicted_total",
		Help:      "Sessions evicted after their TTL expired",
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

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
