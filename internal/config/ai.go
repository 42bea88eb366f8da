package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	cfgvalidate "newshub/internal/pkg/config"
)

// Inference backends.
const (
	BackendHosted = "hosted"
	BackendLocal  = "local"
)

// Summarizer providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderLocal       = "local"
	ProviderClaude      = "claude"
	ProviderOpenAI      = "openai"
	ProviderNone        = "none"
)

// Summary modes: summarize the translated body, or summarize the source body
// and translate the summary afterwards.
const (
	SummaryModeTranslated = "translated"
	SummaryModeSource     = "source"
)

// InferenceConfig holds settings for the model endpoints.
type InferenceConfig struct {
	// Backend selects the hosted inference API or the local gRPC model server.
	// Default: "hosted"
	Backend string `env:"INFERENCE_BACKEND" yaml:"backend"`

	// APIKey is the hosted inference token. Environment only.
	APIKey string `env:"HUGGINGFACE_API_KEY" yaml:"-"`

	// BaseURL is the hosted inference models endpoint.
	// Default: "https://api-inference.huggingface.co/models"
	BaseURL string `env:"HUGGINGFACE_BASE_URL" yaml:"base_url"`

	// Timeout bounds a single hosted request. Default: 30s
	Timeout time.Duration `env:"INFERENCE_TIMEOUT" yaml:"timeout"`

	// RequestsPerSecond and Burst throttle outgoing hosted requests.
	RequestsPerSecond float64 `env:"INFERENCE_RATE_LIMIT" yaml:"requests_per_second"`
	Burst             int     `env:"INFERENCE_RATE_BURST" yaml:"burst"`

	// LocalAddress is the local model server address ("host:port").
	// Default: "localhost:50051"
	LocalAddress string `env:"LOCAL_MODEL_ADDRESS" yaml:"local_address"`

	// LocalConnectTimeout bounds dialing and warming the local server. Default: 10s
	LocalConnectTimeout time.Duration `env:"LOCAL_MODEL_CONNECT_TIMEOUT" yaml:"local_connect_timeout"`

	// LocalTimeout bounds one local generation. Default: 120s
	LocalTimeout time.Duration `env:"LOCAL_MODEL_TIMEOUT" yaml:"local_timeout"`
}

func defaultInferenceConfig() InferenceConfig {
	return InferenceConfig{
		Backend:             BackendHosted,
		BaseURL:             "https://api-inference.huggingface.co/models",
		Timeout:             30 * time.Second,
		RequestsPerSecond:   5,
		Burst:               5,
		LocalAddress:        "localhost:50051",
		LocalConnectTimeout: 10 * time.Second,
		LocalTimeout:        120 * time.Second,
	}
}

// Validate checks configuration correctness.
func (c *InferenceConfig) Validate() error {
	var errs []error
	if err := cfgvalidate.ValidateOneOf(c.Backend, BackendHosted, BackendLocal); err != nil {
		errs = append(errs, fmt.Errorf("INFERENCE_BACKEND: %w", err))
	}
	if err := cfgvalidate.ValidateHTTPURL(c.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("HUGGINGFACE_BASE_URL: %w", err))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("INFERENCE_TIMEOUT must be positive"))
	}
	if c.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("INFERENCE_RATE_LIMIT must be positive"))
	}
	if c.Burst < 1 {
		errs = append(errs, fmt.Errorf("INFERENCE_RATE_BURST must be at least 1"))
	}
	if c.Backend == BackendLocal {
		if c.LocalAddress == "" {
			errs = append(errs, fmt.Errorf("LOCAL_MODEL_ADDRESS cannot be empty"))
		}
		if c.LocalConnectTimeout <= 0 || c.LocalTimeout <= 0 {
			errs = append(errs, fmt.Errorf("local model timeouts must be positive"))
		}
	}
	return errors.Join(errs...)
}

// HasCredential reports whether the hosted endpoint can be called.
func (c *InferenceConfig) HasCredential() bool {
	return c.APIKey != ""
}

// TranslationConfig holds translation model settings.
type TranslationConfig struct {
	// PrimaryModel is the per-pair model name template; {src} and {tgt}
	// are replaced by the hyphenated locale tags.
	PrimaryModel string `env:"TRANSLATION_PRIMARY_MODEL" yaml:"primary_model"`

	// FallbackModel is the multilingual model tried once after the primary fails.
	FallbackModel string `env:"TRANSLATION_FALLBACK_MODEL" yaml:"fallback_model"`

	// LocalModel is the model the local server loads for translation.
	LocalModel string `env:"LOCAL_TRANSLATION_MODEL" yaml:"local_model"`

	// MaxInputChars caps the text sent to the hosted endpoint. Default: 1000
	MaxInputChars int `env:"TRANSLATION_MAX_INPUT_CHARS" yaml:"max_input_chars"`

	// MaxLength caps the local generation length in tokens. Default: 1024
	MaxLength int `env:"TRANSLATION_MAX_LENGTH" yaml:"max_length"`
}

func defaultTranslationConfig() TranslationConfig {
	return TranslationConfig{
		PrimaryModel:  "Helsinki-NLP/opus-mt-{src}-{tgt}",
		FallbackModel: "facebook/mbart-large-50-many-to-many-mmt",
		LocalModel:    "facebook/mbart-large-50-many-to-many-mmt",
		MaxInputChars: 1000,
		MaxLength:     1024,
	}
}

// Validate checks configuration correctness.
func (c *TranslationConfig) Validate() error {
	var errs []error
	if !strings.Contains(c.PrimaryModel, "{src}") || !strings.Contains(c.PrimaryModel, "{tgt}") {
		errs = append(errs, fmt.Errorf("TRANSLATION_PRIMARY_MODEL must contain {src} and {tgt}"))
	}
	if c.FallbackModel == "" {
		errs = append(errs, fmt.Errorf("TRANSLATION_FALLBACK_MODEL cannot be empty"))
	}
	if err := cfgvalidate.ValidateIntRange(c.MaxInputChars, 100, 10000); err != nil {
		errs = append(errs, fmt.Errorf("TRANSLATION_MAX_INPUT_CHARS: %w", err))
	}
	if err := cfgvalidate.ValidateIntRange(c.MaxLength, 16, 4096); err != nil {
		errs = append(errs, fmt.Errorf("TRANSLATION_MAX_LENGTH: %w", err))
	}
	return errors.Join(errs...)
}

// LLMConfig configures one chat-model summarizer.
// Variables are read under the provider prefix, e.g. ANTHROPIC_API_KEY.
type LLMConfig struct {
	APIKey    string        `env:"API_KEY" yaml:"-"`
	Model     string        `env:"MODEL" yaml:"model"`
	MaxTokens int           `env:"MAX_TOKENS" yaml:"max_tokens"`
	Timeout   time.Duration `env:"TIMEOUT" yaml:"timeout"`
}

// SummarizationConfig holds summarizer settings.
type SummarizationConfig struct {
	// Provider selects the summarizer implementation. Default: "huggingface"
	Provider string `env:"SUMMARIZER_PROVIDER" yaml:"provider"`

	// Model is the hosted summarization model. Default: "facebook/bart-large-cnn"
	Model string `env:"SUMMARIZATION_MODEL" yaml:"model"`

	// LocalModel is the model the local server loads for summarization.
	LocalModel string `env:"LOCAL_SUMMARIZATION_MODEL" yaml:"local_model"`

	// MaxLength and MinLength bound the summary. Defaults: 300 and 80
	MaxLength int `env:"SUMMARY_MAX_LENGTH" yaml:"max_length"`
	MinLength int `env:"SUMMARY_MIN_LENGTH" yaml:"min_length"`

	// Mode is "translated" (summarize the translated body) or "source"
	// (summarize the source body, then translate the summary).
	Mode string `env:"SUMMARY_MODE" yaml:"mode"`

	Claude LLMConfig `envPrefix:"ANTHROPIC_" yaml:"claude"`
	OpenAI LLMConfig `envPrefix:"OPENAI_" yaml:"openai"`
}

func defaultSummarizationConfig() SummarizationConfig {
	return SummarizationConfig{
		Provider:   ProviderHuggingFace,
		Model:      "facebook/bart-large-cnn",
		LocalModel: "facebook/bart-large-cnn",
		MaxLength:  300,
		MinLength:  80,
		Mode:       SummaryModeTranslated,
		Claude: LLMConfig{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 1024,
			Timeout:   60 * time.Second,
		},
		OpenAI: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
			Timeout:   60 * time.Second,
		},
	}
}

// Validate checks configuration correctness.
func (c *SummarizationConfig) Validate() error {
	var errs []error
	if err := cfgvalidate.ValidateOneOf(c.Provider,
		ProviderHuggingFace, ProviderLocal, ProviderClaude, ProviderOpenAI, ProviderNone); err != nil {
		errs = append(errs, fmt.Errorf("SUMMARIZER_PROVIDER: %w", err))
	}
	if err := cfgvalidate.ValidateOneOf(c.Mode, SummaryModeTranslated, SummaryModeSource); err != nil {
		errs = append(errs, fmt.Errorf("SUMMARY_MODE: %w", err))
	}
	if c.MinLength < 1 {
		errs = append(errs, fmt.Errorf("SUMMARY_MIN_LENGTH must be positive"))
	}
	if c.MaxLength <= c.MinLength {
		errs = append(errs, fmt.Errorf("SUMMARY_MAX_LENGTH (%d) must exceed SUMMARY_MIN_LENGTH (%d)", c.MaxLength, c.MinLength))
	}
	switch c.Provider {
	case ProviderClaude:
		if c.Claude.APIKey == "" {
			errs = append(errs, fmt.Errorf("ANTHROPIC_API_KEY is required when SUMMARIZER_PROVIDER=claude"))
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, fmt.Errorf("OPENAI_API_KEY is required when SUMMARIZER_PROVIDER=openai"))
		}
	}
	return errors.Join(errs...)
}
