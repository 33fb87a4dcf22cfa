package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Quotes created, partitioned by domain and submission source
	quotesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_created_total",
			Help: "Total number of quotes created",
		},
		[]string{"domain", "source"},
	)

	// Document number allocations partitioned by domain and allocator outcome
	numberAllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_number_allocations_total",
			Help: "Total number of document number allocation attempts",
		},
		[]string{"domain", "outcome"},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// RecordQuoteCreated counts one created quote. Source is "staff" or "client".
func RecordQuoteCreated(domain, source string) {
	quotesCreatedTotal.With(prometheus.Labels{"domain": domain, "source": source}).Inc()
}

// RecordNumberAllocation counts one allocation attempt. Outcome is "ok" or "retry" or "exhausted".
func RecordNumberAllocation(domain, outcome string) {
	numberAllocationsTotal.With(prometheus.Labels{"domain": domain, "outcome": outcome}).Inc()
}
