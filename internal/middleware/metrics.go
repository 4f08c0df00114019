package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	gameSessionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_sessions_created_total",
			Help: "Total number of game sessions generated",
		},
		[]string{"game"},
	)

	scoreValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_validations_total",
			Help: "Total number of score validations by outcome",
		},
		[]string{"game", "outcome"},
	)

	scoreUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_uploads_total",
			Help: "Total number of stored score outcomes",
		},
		[]string{"game", "result"},
	)
)

// MetricsMiddleware collects Prometheus metrics for every HTTP request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordSessionCreated counts generated sessions per game.
func RecordSessionCreated(game string) {
	gameSessionsCreatedTotal.WithLabelValues(game).Inc()
}

// RecordValidation counts validation outcomes: valid, invalid, malformed,
// not_found, already_validated, error.
func RecordValidation(game, outcome string) {
	scoreValidationsTotal.WithLabelValues(game, outcome).Inc()
}

// RecordScoreUpload counts stored score results: created, updated,
// unchanged, validated.
func RecordScoreUpload(game, result string) {
	scoreUploadsTotal.WithLabelValues(game, result).Inc()
}
