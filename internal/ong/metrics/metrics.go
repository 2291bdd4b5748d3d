package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module.
type Metrics struct {
	OngsRegistered        prometheus.Counter
	RegistrationConflicts *prometheus.CounterVec
	RegisterDuration      prometheus.Histogram
}

// New creates a Metrics instance with all registration metrics registered.
func New() *Metrics {
	return &Metrics{
		OngsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "apoia_ongs_registered_total",
			Help: "Total number of organizations registered",
		}),
		RegistrationConflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "apoia_ong_registration_conflicts_total",
			Help: "Registrations rejected because identifying data was already in use",
		}, []string{"field"}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "apoia_ong_register_duration_seconds",
			Help:    "Duration of the registration workflow",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementRegistered increments the registration success counter.
func (m *Metrics) IncrementRegistered() {
	m.OngsRegistered.Inc()
}

// IncrementConflict counts a conflict on the given field.
func (m *Metrics) IncrementConflict(field string) {
	m.RegistrationConflicts.WithLabelValues(field).Inc()
}

// ObserveRegisterDuration records how long one registration attempt took.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegisterDuration(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
