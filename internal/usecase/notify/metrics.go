package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "newshub"
	metricsSubsystem = "notification"
)

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: metricsSubsystem, Name: name, Help: help,
	}, labels)
}

func gauge(name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Subsystem: metricsSubsystem, Name: name, Help: help,
	})
}

var (
	dispatchedTotal = counterVec("dispatched_total", "Digest items handed to a channel.", "channel")
	// status is success or failure.
	sentTotal = counterVec("sent_total", "Digest item sends by outcome.", "channel", "status")
	// reason is circuit_open or panic.
	droppedTotal     = counterVec("dropped_total", "Digest items never sent to a channel.", "channel", "reason")
	breakerOpenTotal = counterVec("circuit_breaker_open_total", "Times a channel was switched off after repeated failures.", "channel")

	sendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: metricsSubsystem,
		Name:    "duration_seconds",
		Help:    "Time spent in one channel send.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
	}, []string{"channel"})

	activeSends     = gauge("active_sends", "Channel sends in flight.")
	channelsEnabled = gauge("channels_enabled", "Channels enabled at startup.")
)

// recordSent records the outcome and duration of one send.
func recordSent(channel string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	sentTotal.WithLabelValues(channel, status).Inc()
	sendDuration.WithLabelValues(channel).Observe(d.Seconds())
}
