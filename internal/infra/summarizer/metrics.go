package summarizer

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SummaryMetricsRecorder records summary-related metrics.
// Tests inject a fake instead of the Prometheus implementation.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a summary in characters.
	RecordLength(length int)

	// RecordLimitExceeded counts a model summary longer than the requested maximum.
	RecordLimitExceeded()

	// RecordCompliance records whether the last summary fit the requested maximum.
	RecordCompliance(withinLimit bool)

	// RecordDuration records the time taken to produce a summary.
	RecordDuration(duration time.Duration)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus metrics.
type PrometheusSummaryMetrics struct {
	lengthHistogram   prometheus.Histogram
	exceededCounter   prometheus.Counter
	complianceGauge   prometheus.Gauge
	durationHistogram prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// register registers c, or returns the collector already registered under
// the same descriptor.
func register[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide recorder.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "newshub_summary_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 200, 300, 500, 800, 1200},
			})),
			exceededCounter: register(prometheus.NewCounter(prometheus.CounterOpts{
				Name: "newshub_summary_limit_exceeded_total",
				Help: "Total number of model summaries longer than the requested maximum",
			})),
			complianceGauge: register(prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "newshub_summary_limit_compliance",
				Help: "1 when the last summary fit the requested maximum, 0 otherwise",
			})),
			durationHistogram: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "newshub_summarization_duration_seconds",
				Help:    "Time taken to produce a summary",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			})),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}

// RecordLimitExceeded implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordLimitExceeded() {
	p.exceededCounter.Inc()
}

// RecordCompliance implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordCompliance(withinLimit bool) {
	if withinLimit {
		p.complianceGauge.Set(1)
		return
	}
	p.complianceGauge.Set(0)
}

// RecordDuration implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

// recordResult records the metrics of one finished summary.
func recordResult(m SummaryMetricsRecorder, summaryLength, maxLength int, duration time.Duration) {
	within := summaryLength <= maxLength
	m.RecordLength(summaryLength)
	m.RecordDuration(duration)
	m.RecordCompliance(within)
	if !within {
		m.RecordLimitExceeded()
	}
}
