package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Calculation outcomes recorded by the calculations counter.
const (
	outcomeOK            = "ok"
	outcomeAwaitingInput = "awaiting_input"
	outcomeError         = "error"
)

// metrics holds the server's Prometheus collectors. Each server has its own
// registry so several servers can run in one process.
type metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	calculations *prometheus.CounterVec
	exports      *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitetakeoff",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sitetakeoff",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitetakeoff",
			Name:      "calculations_total",
			Help:      "Calculations by calculator and outcome.",
		}, []string{"calculator", "outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitetakeoff",
			Name:      "exports_total",
			Help:      "Exported files by format.",
		}, []string{"format"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.calculations,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
