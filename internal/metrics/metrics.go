// Package metrics holds the Prometheus collectors for the report service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes recorded by ResolutionsTotal.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeExpired  = "expired"
	OutcomeError    = "error"
)

// Metrics groups the collectors registered for one service instance.
type Metrics struct {
	ReportsIssued    prometheus.Counter
	IDCollisions     prometheus.Counter
	RetriesExhausted prometheus.Counter
	Resolutions      *prometheus.CounterVec
	ReportsSwept     prometheus.Counter
	StoreDuration    *prometheus.HistogramVec
	StoreErrors      *prometheus.CounterVec
}

// New registers the report collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReportsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "shared_reports_issued_total",
			Help: "Total number of share links issued",
		}),
		IDCollisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "shared_reports_id_collisions_total",
			Help: "Short ID candidates rejected because they were already taken",
		}),
		RetriesExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "shared_reports_id_retries_exhausted_total",
			Help: "Issuances that failed to find a unique short ID",
		}),
		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shared_reports_resolutions_total",
				Help: "Share link resolutions by outcome",
			},
			[]string{"outcome"},
		),
		ReportsSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "shared_reports_swept_total",
			Help: "Expired reports deleted by the sweeper",
		}),
		StoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shared_reports_store_duration_seconds",
				Help:    "Report store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shared_reports_store_errors_total",
				Help: "Report store operations that returned an unexpected error",
			},
			[]string{"operation"},
		),
	}
}
