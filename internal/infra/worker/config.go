// Package worker holds the digest worker's runtime configuration, its
// health/metrics HTTP server and its job metrics.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newshub/internal/pkg/config"
)

// WorkerConfig controls scheduling and operation of the digest worker.
// Settings that describe the digest content live in the application config.
type WorkerConfig struct {
	// CronSchedule is a 5-field cron expression. Default: "0 7 * * *"
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in. Default: "UTC"
	Timezone string

	// NotifyMaxConcurrent bounds parallel channel sends. Range 1-50. Default: 3
	NotifyMaxConcurrent int

	// RunTimeout bounds one digest run. Range 1m-4h. Default: 15m
	RunTimeout time.Duration

	// HealthPort serves /health, /health/ready, /health/channels and /metrics.
	// Range 1024-65535. Default: 9091
	HealthPort int

	// RunOnStart triggers one digest immediately after startup. Default: false
	RunOnStart bool
}

// DefaultConfig returns the worker defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:        "0 7 * * *",
		Timezone:            "UTC",
		NotifyMaxConcurrent: 3,
		RunTimeout:          15 * time.Minute,
		HealthPort:          9091,
	}
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.NotifyMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("notify max concurrent: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the schedule's time zone, or UTC when it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads the worker settings, replacing each invalid value
// with its default. It never fails; every fallback is logged and counted.
//
// Environment variables:
//   - DIGEST_CRON: cron expression (default: "0 7 * * *")
//   - DIGEST_TIMEZONE: IANA timezone name (default: "UTC")
//   - NOTIFY_MAX_CONCURRENT: integer 1-50 (default: 3)
//   - DIGEST_TIMEOUT: duration, e.g. "15m" (default: 15m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
//   - DIGEST_RUN_ON_START: "true" or "false" (default: false)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	l := fallbackLogger{logger: logger, metrics: metrics}

	cfg.CronSchedule = apply(&l, "cron_schedule",
		config.LoadEnvWithFallback("DIGEST_CRON", cfg.CronSchedule, config.ValidateCronSchedule))
	cfg.Timezone = apply(&l, "timezone",
		config.LoadEnvWithFallback("DIGEST_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	cfg.NotifyMaxConcurrent = apply(&l, "notify_max_concurrent",
		config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, func(v int) error {
			return config.ValidateIntRange(v, 1, 50)
		}))
	cfg.RunTimeout = apply(&l, "run_timeout",
		config.LoadEnvDuration("DIGEST_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Minute, 4*time.Hour)
		}))
	cfg.HealthPort = apply(&l, "health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		}))
	cfg.RunOnStart = apply(&l, "run_on_start", config.LoadEnvBool("DIGEST_RUN_ON_START", cfg.RunOnStart))

	metrics.SetFallbackActive(l.applied)
	metrics.RecordLoadTimestamp()
	return &cfg
}

type fallbackLogger struct {
	logger  *slog.Logger
	metrics *WorkerMetrics
	applied bool
}

func apply[T any](l *fallbackLogger, field string, result config.ConfigLoadResult[T]) T {
	if result.FallbackApplied {
		l.applied = true
		l.metrics.RecordValidationError(field)
		l.metrics.RecordFallback(field)
		for _, warning := range result.Warnings {
			l.logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}
	return result.Value
}
