// Package metrics provides Prometheus observability for the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the server.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	UsersRegistered prometheus.Counter
	RecordsWritten  prometheus.Counter
}

// New creates all server metrics on a fresh registry, so tests can build
// independent instances without registration collisions.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civictrento_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "civictrento_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "civictrento_users_registered_total",
			Help: "Total number of accounts registered",
		}),
		RecordsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "civictrento_civic_records_written_total",
			Help: "Total number of civic record mutations",
		}),
	}
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(route, code string, start time.Time) {
	m.RequestsTotal.WithLabelValues(route, code).Inc()
	m.RequestDuration.Observe(time.Since(start).Seconds())
}

// IncrementUsersRegistered records a successful registration.
func (m *Metrics) IncrementUsersRegistered() {
	m.UsersRegistered.Inc()
}

// IncrementRecordsWritten records a successful civic record mutation.
func (m *Metrics) IncrementRecordsWritten() {
	m.RecordsWritten.Inc()
}
