package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP instrumentation exposed on /metrics.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TicketsCreated  prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		Registry: registry,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpdesk_requests_total",
				Help: "HTTP requests by path, method and status code",
			},
			[]string{"path", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "helpdesk_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		TicketsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "helpdesk_tickets_created_total",
				Help: "Tickets created since process start",
			},
		),
	}
}
