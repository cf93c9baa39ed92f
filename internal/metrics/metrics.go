package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// NotificationsEmitted counts notifications by type
	NotificationsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewdesk_notifications_emitted_total",
			Help: "Notifications created by the dispatcher",
		},
		[]string{"type"},
	)

	// TaskTransitions counts task status changes caused by step toggles
	TaskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewdesk_task_transitions_total",
			Help: "Task status transitions",
		},
		[]string{"transition"},
	)

	// ImportRows counts directory import rows by outcome
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewdesk_import_rows_total",
			Help: "Directory import rows by outcome",
		},
		[]string{"outcome"},
	)

	registerOnce sync.Once
)

// Register adds every collector to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			NotificationsEmitted,
			TaskTransitions,
			ImportRows,
		)
	})
}

// Middleware records request count and latency.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		RequestCounter.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDurationHistogram.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the metrics for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
