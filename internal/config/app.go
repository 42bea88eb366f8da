// Package config assembles the application configuration for the newshub binaries.
//
// Values are resolved in three layers: built-in defaults, an optional YAML file
// (NEWSHUB_CONFIG or --config), then environment variables. A variable that is
// set always wins over the file. Secrets are read from the environment only.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	cfgvalidate "newshub/internal/pkg/config"
	pkgconfig "newshub/pkg/config"
)

// ConfigPathEnv names the variable holding the optional YAML overlay path.
const ConfigPathEnv = "NEWSHUB_CONFIG"

// Config is the complete application configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" yaml:"log_level"`
	LogFormat string `env:"LOG_FORMAT" yaml:"log_format"`

	News          NewsConfig          `yaml:"news"`
	Inference     InferenceConfig     `yaml:"inference"`
	Translation   TranslationConfig   `yaml:"translation"`
	Summarization SummarizationConfig `yaml:"summarization"`
	Session       SessionConfig       `yaml:"session"`
	Digest        DigestConfig        `yaml:"digest"`
	Notify        NotifyConfig        `yaml:"notify"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:      "info",
		LogFormat:     "json",
		News:          defaultNewsConfig(),
		Inference:     defaultInferenceConfig(),
		Translation:   defaultTranslationConfig(),
		Summarization: defaultSummarizationConfig(),
		Session:       defaultSessionConfig(),
		Digest:        defaultDigestConfig(),
		Notify:        defaultNotifyConfig(),
	}
}

// Load reads .env (when present), the YAML overlay at path and the environment,
// then validates the result. An empty path falls back to NEWSHUB_CONFIG.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv(ConfigPathEnv))
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalizeSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// normalizeSecrets blanks keys that still hold sample-file placeholders.
func (c *Config) normalizeSecrets() {
	for _, secret := range []*string{
		&c.News.APIKey,
		&c.Inference.APIKey,
		&c.Summarization.Claude.APIKey,
		&c.Summarization.OpenAI.APIKey,
		&c.Notify.Telegram.Token,
	} {
		*secret = strings.TrimSpace(*secret)
		if pkgconfig.IsPlaceholderSecret(*secret) {
			*secret = ""
		}
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if err := cfgvalidate.ValidateOneOf(strings.ToLower(c.LogFormat), "json", "text"); err != nil {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: %w", err))
	}

	for _, section := range []interface{ Validate() error }{
		&c.News, &c.Inference, &c.Translation,
		&c.Summarization, &c.Session, &c.Digest, &c.Notify,
	} {
		if err := section.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
