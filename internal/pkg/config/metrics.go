package config

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// ConfigMetrics records configuration load events for one component
// (e.g. "worker", "fetcher"). Metric families are shared across components
// and distinguished by the "component" label.
type ConfigMetrics struct {
	loadTimestamp    *prometheus.GaugeVec
	validationErrors *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	fallbackActive   *prometheus.GaugeVec
	component        string
}

// NewConfigMetrics returns a recorder for componentName.
// It is safe to call repeatedly; collectors are registered once.
func NewConfigMetrics(componentName string) *ConfigMetrics {
	return &ConfigMetrics{
		loadTimestamp: registerOrExisting(prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "newshub_config_load_timestamp",
			Help: "Unix timestamp of the last configuration load",
		}, []string{"component"})),
		validationErrors: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newshub_config_validation_errors_total",
			Help: "Total number of configuration validation errors",
		}, []string{"component", "field"})),
		fallbacks: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newshub_config_fallbacks_total",
			Help: "Total number of configuration values replaced by their default",
		}, []string{"component", "field"})),
		fallbackActive: registerOrExisting(prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "newshub_config_fallback_active",
			Help: "1 if any configuration fallback is active, 0 otherwise",
		}, []string{"component"})),
		component: componentName,
	}
}

func registerOrExisting[C prometheus.Collector](c C) C {
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

// RecordLoadTimestamp sets the load timestamp to now.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.loadTimestamp.WithLabelValues(m.component).SetToCurrentTime()
}

// RecordValidationError counts a validation error on field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.validationErrors.WithLabelValues(m.component, field).Inc()
}

// RecordFallback counts a fallback to the default value of field.
func (m *ConfigMetrics) RecordFallback(field string) {
	m.fallbacks.WithLabelValues(m.component, field).Inc()
}

// SetFallbackActive flags whether any fallback is in effect for the component.
func (m *ConfigMetrics) SetFallbackActive(active bool) {
	v := 0.0
	if active {
		v = 1
	}
	m.fallbackActive.WithLabelValues(m.component).Set(v)
}
