// Package config provides small helpers for reading environment values.
package config

import (
	"os"
	"strings"
)

// placeholderSecrets are template values shipped in sample .env files.
// They are treated as if the variable were unset.
var placeholderSecrets = map[string]bool{
	"YOUR_API_KEY_HERE": true,
	"your_api_key_here": true,
	"changeme":          true,
}

// GetEnvString returns the value of an environment variable or the default value if not set.
//
// Example:
//
//	level := GetEnvString("LOG_LEVEL", "warn")
func GetEnvString(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// IsPlaceholderSecret reports whether value is a template placeholder rather than a real secret.
func IsPlaceholderSecret(value string) bool {
	return placeholderSecrets[strings.TrimSpace(value)]
}
