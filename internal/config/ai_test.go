package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferenceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*InferenceConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*InferenceConfig) {}},
		{name: "unknown backend", mutate: func(c *InferenceConfig) { c.Backend = "gpu" }, wantErr: "INFERENCE_BACKEND"},
		{name: "bad base url", mutate: func(c *InferenceConfig) { c.BaseURL = "ftp://models" }, wantErr: "HUGGINGFACE_BASE_URL"},
		{name: "zero timeout", mutate: func(c *InferenceConfig) { c.Timeout = 0 }, wantErr: "INFERENCE_TIMEOUT"},
		{name: "zero rate", mutate: func(c *InferenceConfig) { c.RequestsPerSecond = 0 }, wantErr: "INFERENCE_RATE_LIMIT"},
		{name: "zero burst", mutate: func(c *InferenceConfig) { c.Burst = 0 }, wantErr: "INFERENCE_RATE_BURST"},
		{
			name: "local without address",
			mutate: func(c *InferenceConfig) {
				c.Backend = BackendLocal
				c.LocalAddress = ""
			},
			wantErr: "LOCAL_MODEL_ADDRESS",
		},
		{
			name: "hosted ignores local settings",
			mutate: func(c *InferenceConfig) {
				c.LocalAddress = ""
				c.LocalTimeout = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultInferenceConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTranslationConfig_Validate(t *testing.T) {
	cfg := defaultTranslationConfig()
	assert.NoError(t, cfg.Validate())

	cfg.PrimaryModel = "Helsinki-NLP/opus-mt-en-hi"
	assert.ErrorContains(t, cfg.Validate(), "{src} and {tgt}")

	cfg = defaultTranslationConfig()
	cfg.MaxInputChars = 10
	assert.ErrorContains(t, cfg.Validate(), "TRANSLATION_MAX_INPUT_CHARS")
}

func TestSummarizationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SummarizationConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*SummarizationConfig) {}},
		{name: "none provider", mutate: func(c *SummarizationConfig) { c.Provider = ProviderNone }},
		{name: "unknown provider", mutate: func(c *SummarizationConfig) { c.Provider = "gpt2" }, wantErr: "SUMMARIZER_PROVIDER"},
		{name: "unknown mode", mutate: func(c *SummarizationConfig) { c.Mode = "both" }, wantErr: "SUMMARY_MODE"},
		{name: "max below min", mutate: func(c *SummarizationConfig) { c.MaxLength = 50 }, wantErr: "must exceed"},
		{name: "claude without key", mutate: func(c *SummarizationConfig) { c.Provider = ProviderClaude }, wantErr: "ANTHROPIC_API_KEY"},
		{name: "openai without key", mutate: func(c *SummarizationConfig) { c.Provider = ProviderOpenAI }, wantErr: "OPENAI_API_KEY"},
		{
			name: "openai with key",
			mutate: func(c *SummarizationConfig) {
				c.Provider = ProviderOpenAI
				c.OpenAI.APIKey = "sk-test"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultSummarizationConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLLMConfig_Defaults(t *testing.T) {
	cfg := defaultSummarizationConfig()
	assert.Equal(t, 60*time.Second, cfg.Claude.Timeout)
	assert.Equal(t, 1024, cfg.OpenAI.MaxTokens)
}
