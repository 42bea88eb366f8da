package worker

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"newshub/internal/pkg/config"
)

// WorkerMetrics tracks configuration loading and digest runs.
type WorkerMetrics struct {
	*config.ConfigMetrics

	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	ItemsDeliveredTotal  *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics on the default registry.
// Repeated calls share the same collectors.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		RunsTotal: register(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newshub_digest_runs_total",
			Help: "Total number of digest runs by status (success/partial/failure)",
		}, []string{"status"})),

		RunDurationSeconds: register(prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newshub_digest_run_duration_seconds",
			Help:    "Duration of digest runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		})),

		ItemsDeliveredTotal: register(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newshub_digest_items_total",
			Help: "Digest items by language and result (delivered/degraded/failed)",
		}, []string{"language", "result"})),

		LastSuccessTimestamp: register(prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "newshub_digest_last_success_timestamp",
			Help: "Unix timestamp of the last successful digest run",
		})),
	}
}

func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// RecordRun counts a finished run and observes its duration.
func (m *WorkerMetrics) RecordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(seconds)
	if status == "success" {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordItem counts one processed item for language.
func (m *WorkerMetrics) RecordItem(language, result string) {
	m.ItemsDeliveredTotal.WithLabelValues(language, result).Inc()
}
