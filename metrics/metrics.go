// Package metrics counts feed processor invocations for Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/fjlanasa/gtfs-feeds/feeds"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gtfs_feeds"

const (
	OutcomeOK          = "ok"
	OutcomeSkipped     = "skipped"
	OutcomeFetchError  = "fetch_error"
	OutcomeDecodeError = "decode_error"
	OutcomeError       = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	entities    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "processor",
				Name:      "invocations_total",
				Help:      "Processor invocations by outcome.",
			},
			[]string{"processor", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "processor",
				Name:      "duration_seconds",
				Help:      "Time spent per invocation, fetch included.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"processor"},
		),
		entities: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "classifier",
				Name:      "entities_selected_total",
				Help:      "Feed entities written to output documents, by category.",
			},
			[]string{"category"},
		),
	}
	for _, c := range []prometheus.Collector{m.invocations, m.duration, m.entities} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outcome maps a processor error to its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, feeds.ErrNoURL):
		return OutcomeSkipped
	case feeds.IsFetchError(err):
		return OutcomeFetchError
	case feeds.IsDecodeError(err):
		return OutcomeDecodeError
	}
	return OutcomeError
}

func (m *Metrics) ObserveInvocation(processor string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(processor, Outcome(err)).Inc()
	m.duration.WithLabelValues(processor).Observe(elapsed.Seconds())
}

func (m *Metrics) AddSelected(category string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.entities.WithLabelValues(category).Add(float64(n))
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
