// Package metrics provides Prometheus metrics for the formwizard server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formwizard/pkg/submission"
)

const namespace = "formwizard"

// Metrics groups the collectors registered on a private registry, so tests
// and multiple servers never collide on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	// SubmissionsTotal tracks prediction requests by final status.
	SubmissionsTotal *prometheus.CounterVec
	// SubmissionDuration tracks how long prediction requests take.
	SubmissionDuration *prometheus.HistogramVec
	// NavigationTotal tracks navigation actions by action and result.
	NavigationTotal *prometheus.CounterVec
	// HTTPRequestsTotal tracks inbound requests.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration tracks inbound request latency.
	HTTPRequestDuration *prometheus.HistogramVec
	// RateLimitedTotal counts rejected submissions.
	RateLimitedTotal prometheus.Counter
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "requests_total",
				Help:      "Total number of prediction requests by status",
			},
			[]string{"status"},
		),
		SubmissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "request_duration_seconds",
				Help:      "Duration of prediction requests in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),
		NavigationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wizard",
				Name:      "navigation_total",
				Help:      "Total number of navigation actions by action and result",
			},
			[]string{"action", "result"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of inbound HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of inbound HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "Total number of submissions rejected by the rate limiter",
			},
		),
	}
}

// RecordSubmission is a submission.WithRecorder callback.
func (m *Metrics) RecordSubmission(status submission.Status, elapsed time.Duration) {
	m.SubmissionsTotal.WithLabelValues(string(status)).Inc()
	m.SubmissionDuration.WithLabelValues(string(status)).Observe(elapsed.Seconds())
}

// RecordNavigation counts one navigation action. Result is "accepted" or
// "rejected".
func (m *Metrics) RecordNavigation(action string, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.NavigationTotal.WithLabelValues(action, result).Inc()
}

// RecordHTTP records one served request.
func (m *Metrics) RecordHTTP(method, route, statusCode string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
