package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/orbitalbot/dashboard/backend/utils"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	upstreamFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_upstream_fallbacks_total",
			Help: "Responses served from local data because Discord was unavailable",
		},
		[]string{"resource"},
	)
)

// routePath returns the matched route pattern, which keeps path label
// cardinality bounded.
func routePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return "unmatched"
}

// Metrics records Prometheus request metrics and counts local-data fallbacks
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		path := routePath(c)
		status := strconv.Itoa(statusOf(c, err))

		httpRequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		if utils.DataSource(c) == "local" {
			upstreamFallbacksTotal.WithLabelValues(strings.TrimPrefix(path, "/api/")).Inc()
		}

		return err
	}
}
