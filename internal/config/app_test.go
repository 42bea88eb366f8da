package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "newshub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, SourceNewsAPI, cfg.News.Source)
	assert.Equal(t, 15*time.Second, cfg.News.Timeout)
	assert.Equal(t, "https://api-inference.huggingface.co/models", cfg.Inference.BaseURL)
	assert.Equal(t, "Helsinki-NLP/opus-mt-{src}-{tgt}", cfg.Translation.PrimaryModel)
	assert.Equal(t, "facebook/mbart-large-50-many-to-many-mmt", cfg.Translation.FallbackModel)
	assert.Equal(t, "facebook/bart-large-cnn", cfg.Summarization.Model)
	assert.Equal(t, 300, cfg.Summarization.MaxLength)
	assert.Equal(t, 80, cfg.Summarization.MinLength)
	assert.Equal(t, "hi", cfg.Session.Language)
	assert.Equal(t, "general", cfg.Session.Category)
	assert.Equal(t, 5, cfg.Session.Count)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("NEWS_API_KEY", "news-key")
	t.Setenv("HUGGINGFACE_API_KEY", "hf-key")
	t.Setenv("NEWS_TIMEOUT", "5s")
	t.Setenv("NEWSHUB_LANGUAGE", "es")
	t.Setenv("SUMMARY_MAX_LENGTH", "200")
	t.Setenv("DIGEST_LANGUAGES", "en,fr,ta")
	t.Setenv("ANTHROPIC_MODEL", "claude-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "news-key", cfg.News.APIKey)
	assert.Equal(t, "hf-key", cfg.Inference.APIKey)
	assert.True(t, cfg.Inference.HasCredential())
	assert.Equal(t, 5*time.Second, cfg.News.Timeout)
	assert.Equal(t, "es", cfg.Session.Language)
	assert.Equal(t, 200, cfg.Summarization.MaxLength)
	assert.Equal(t, "claude-test", cfg.Summarization.Claude.Model)
	assert.Equal(t, []entity.Language{entity.English, entity.French, entity.Tamil}, cfg.Digest.TargetLanguages())
}

func TestLoad_PlaceholderSecretsAreBlank(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("NEWS_API_KEY", "YOUR_API_KEY_HERE")
	t.Setenv("HUGGINGFACE_API_KEY", " ")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.News.APIKey)
	assert.False(t, cfg.Inference.HasCredential())
}

func TestLoad_FileOverlay(t *testing.T) {
	path := writeConfigFile(t, `
log_format: text
news:
  source: rss
  timeout: 20s
  feeds:
    technology:
      - https://example.com/tech.xml
translation:
  fallback_model: org/other-mmt
session:
  language: fr
  count: 8
digest:
  languages: [hi, bn]
`)
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("NEWSHUB_ARTICLE_COUNT", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, SourceRSS, cfg.News.Source)
	assert.Equal(t, 20*time.Second, cfg.News.Timeout)
	assert.Equal(t, []string{"https://example.com/tech.xml"}, cfg.News.Feeds["technology"])
	assert.NotEmpty(t, cfg.News.Feeds["general"], "default feeds for other categories are kept")
	assert.Equal(t, "org/other-mmt", cfg.Translation.FallbackModel)
	assert.Equal(t, "fr", cfg.Session.Language)
	assert.Equal(t, 4, cfg.Session.Count, "environment wins over the file")
	assert.Equal(t, []string{"hi", "bn"}, cfg.Digest.Languages)
}

func TestLoad_FileFromEnvironment(t *testing.T) {
	path := writeConfigFile(t, "session:\n  category: science\n")
	t.Setenv(ConfigPathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "science", cfg.Session.Category)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "session: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})

	t.Run("malformed environment", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "")
		t.Setenv("NEWS_TIMEOUT", "soon")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse environment")
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "")
		t.Setenv("NEWSHUB_ARTICLE_COUNT", "42")
		t.Setenv("SUMMARIZER_PROVIDER", "markov")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NEWSHUB_ARTICLE_COUNT")
		assert.Contains(t, err.Error(), "SUMMARIZER_PROVIDER")
	})
}

func TestConfig_Validate_LogFormat(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "TEXT"
	assert.NoError(t, cfg.Validate())

	cfg.LogFormat = "xml"
	assert.ErrorContains(t, cfg.Validate(), "LOG_FORMAT")
}
