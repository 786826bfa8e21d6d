package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Mailer holds the mailer worker counters.
type Mailer struct {
	registry *prometheus.Registry

	EventsProcessed *prometheus.CounterVec
	EmailsSent      prometheus.Counter
	EmailsFailed    prometheus.Counter
}

func NewMailer() *Mailer {
	registry := prometheus.NewRegistry()

	m := &Mailer{
		registry: registry,
		EventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "mailer",
			Name:      "events_processed_total",
			Help:      "Outbox events processed, by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		EmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "mailer",
			Name:      "emails_sent_total",
			Help:      "Emails delivered to the SMTP server.",
		}),
		EmailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "mailer",
			Name:      "emails_failed_total",
			Help:      "Email sends that exhausted retries.",
		}),
	}

	registry.MustRegister(m.EventsProcessed, m.EmailsSent, m.EmailsFailed)
	return m
}

// Handler serves the registry for the worker's /metrics endpoint.
func (m *Mailer) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather exposes the raw metric families, used by tests.
func (m *Mailer) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}
