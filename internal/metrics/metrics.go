package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	tenantSelectionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_selection_total",
			Help: "Tenant selection attempts by outcome",
		},
		[]string{"service", "outcome"},
	)

	assignmentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_assignment_total",
			Help: "Tenant assignment operations by outcome",
		},
		[]string{"service", "outcome"},
	)

	authzDenialCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denials_total",
			Help: "Permission boundary denials by permission",
		},
		[]string{"service", "permission"},
	)
)

var serviceName = "timesheet-api"

// HTTPMetrics collects request metrics for one service.
type HTTPMetrics struct {
	ServiceName string
}

// NewHTTPMetrics registers the collectors and returns a collector handle.
func NewHTTPMetrics(service string) *HTTPMetrics {
	serviceName = service
	for _, c := range []prometheus.Collector{
		requestCounter, requestDuration,
		tenantSelectionCounter, assignmentCounter, authzDenialCounter,
	} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
	return &HTTPMetrics{ServiceName: service}
}

// Middleware records per-request counters and latency.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		requestCounter.WithLabelValues(m.ServiceName, c.Request.Method, path, status).Inc()
		requestDuration.WithLabelValues(m.ServiceName, c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the /metrics endpoint.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordTenantSelection counts a tenant selection attempt.
func RecordTenantSelection(outcome string) {
	tenantSelectionCounter.WithLabelValues(serviceName, outcome).Inc()
}

// RecordAssignment counts a tenant assignment operation.
func RecordAssignment(outcome string) {
	assignmentCounter.WithLabelValues(serviceName, outcome).Inc()
}

// RecordAuthzDenial counts a permission boundary denial.
func RecordAuthzDenial(permission string) {
	authzDenialCounter.WithLabelValues(serviceName, permission).Inc()
}
