// Package metrics exposes prometheus collectors for HTTP traffic, AI calls,
// mentor sessions and pantry deductions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups every collector the service records into
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec
	aiFallbacksTotal  *prometheus.CounterVec

	sessionsStarted prometheus.Counter
	sessionsEnded   *prometheus.CounterVec
	sessionsActive  prometheus.Gauge

	deductionsApplied *prometheus.CounterVec
	itemsExhausted    prometheus.Counter
}

// New creates a collector backed by its own registry
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Calls made to the AI collaborator",
			},
			[]string{"operation", "status"},
		),
		aiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_seconds",
				Help:    "AI collaborator latency in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		aiFallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_fallbacks_total",
				Help: "Responses served from a deterministic fallback",
			},
			[]string{"operation"},
		),
		sessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "mentor_sessions_started_total",
			Help: "Cooking sessions started",
		}),
		sessionsEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_sessions_ended_total",
				Help: "Cooking sessions ended, by outcome",
			},
			[]string{"outcome"},
		),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mentor_sessions_active",
			Help: "Cooking sessions currently held in the registry",
		}),
		deductionsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_deductions_total",
				Help: "Inventory decrements applied at session end, by plan source",
			},
			[]string{"source"},
		),
		itemsExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pantry_items_exhausted_total",
			Help: "Inventory rows driven to zero by deduction",
		}),
	}
}

// Handler serves the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())
		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, path, status).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveAI records one AI collaborator call
func (c *Collector) ObserveAI(operation string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.aiRequestsTotal.WithLabelValues(operation, status).Inc()
	c.aiRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Fallback records that a deterministic fallback replaced an AI response
func (c *Collector) Fallback(operation string) {
	if c == nil {
		return
	}
	c.aiFallbacksTotal.WithLabelValues(operation).Inc()
}

// SessionStarted records a new mentor session
func (c *Collector) SessionStarted() {
	if c == nil {
		return
	}
	c.sessionsStarted.Inc()
}

// SessionEnded records the outcome of an end-session call
func (c *Collector) SessionEnded(outcome string) {
	if c == nil {
		return
	}
	c.sessionsEnded.WithLabelValues(outcome).Inc()
}

// SetActiveSessions reports the registry size
func (c *Collector) SetActiveSessions(n int) {
	if c == nil {
		return
	}
	c.sessionsActive.Set(float64(n))
}

// Deductions records applied decrements and exhausted rows
func (c *Collector) Deductions(source string, applied, exhausted int) {
	if c == nil {
		return
	}
	c.deductionsApplied.WithLabelValues(source).Add(float64(applied))
	c.itemsExhausted.Add(float64(exhausted))
}
