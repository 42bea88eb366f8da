package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigLoadResult is the outcome of loading one configuration value.
// Loading never fails: invalid input falls back to the default and is reported
// in Warnings so the caller can log it and record a fallback metric.
type ConfigLoadResult[T any] struct {
	Value           T
	Warnings        []string
	FallbackApplied bool
}

// load reads envKey, parses it and validates it, falling back to defaultValue
// on any failure. An unset or empty variable yields the default without warnings.
func load[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) ConfigLoadResult[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return ConfigLoadResult[T]{Value: defaultValue}
	}

	fallback := func(reason error) ConfigLoadResult[T] {
		return ConfigLoadResult[T]{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': %v, falling back to default '%v'",
				envKey, raw, reason, defaultValue)},
			FallbackApplied: true,
		}
	}

	value, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(err)
		}
	}
	return ConfigLoadResult[T]{Value: value}
}

// LoadEnvWithFallback loads a string and validates it.
//
// Example:
//
//	result := LoadEnvWithFallback("DIGEST_CRON", "0 7 * * *", ValidateCronSchedule)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult[string] {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a time.ParseDuration value and validates it.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult[time.Duration] {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads an integer and validates it.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult[int] {
	return load(envKey, defaultValue, func(s string) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return v, nil
	}, validator)
}

// LoadEnvBool loads a boolean accepted by strconv.ParseBool.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult[bool] {
	return load(envKey, defaultValue, func(s string) (bool, error) {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("invalid boolean format, expected 'true' or 'false'")
		}
		return v, nil
	}, nil)
}
