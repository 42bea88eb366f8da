package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlack(url string) (*SlackNotifier, *recordingSleep) {
	s := NewSlackNotifier(WebhookConfig{Enabled: true, WebhookURL: url, Timeout: 5 * time.Second}, discardLogger())
	rec := &recordingSleep{}
	s.sleep = rec.sleep
	return s, rec
}

func TestSlackNotifier_buildBlockKitPayload(t *testing.T) {
	s, _ := newTestSlack("https://hooks.slack.com/services/x")
	item := sampleItem()
	item.Processed.Title = "Rates <up> & away"

	payload := s.buildBlockKitPayload(item)

	require.Len(t, payload.Blocks, 2)
	assert.Equal(t, "section", payload.Blocks[0].Type)
	assert.Equal(t, "*<https://example.com/story|Rates &lt;up&gt; &amp; away>*\n\nएक छोटा सारांश", payload.Blocks[0].Text.Text)
	assert.Equal(t, "context", payload.Blocks[1].Type)
	assert.Equal(t, "Reuters · Hindi • 2026-03-01", payload.Blocks[1].Elements[0].Text)
	assert.Equal(t, "Rates <up> & away - Reuters · Hindi", payload.Text)
}

func TestSlackNotifier_buildBlockKitPayload_Limits(t *testing.T) {
	s, _ := newTestSlack("https://hooks.slack.com/services/x")
	item := sampleItem()
	item.Article.URL = ""
	item.Processed.Title = strings.Repeat("T", 200)
	item.Processed.Summary = strings.Repeat("s", 4000)

	payload := s.buildBlockKitPayload(item)

	assert.True(t, strings.HasPrefix(payload.Blocks[0].Text.Text, "*TTT"))
	assert.Len(t, []rune(payload.Blocks[0].Text.Text), maxSectionTextLength)
	assert.Len(t, []rune(payload.Text), maxFallbackLength)
}

func TestSlackNotifier_Send(t *testing.T) {
	var got SlackWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s, _ := newTestSlack(srv.URL)
	require.NoError(t, s.Send(context.Background(), sampleItem()))
	assert.Len(t, got.Blocks, 2)
	assert.Equal(t, "slack", s.Name())
}

func TestSlackNotifier_Send_RateLimitUsesHeader(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s, rec := newTestSlack(srv.URL)
	require.NoError(t, s.Send(context.Background(), sampleItem()))
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.delays)
}

func TestSlackNotifier_Send_InvalidToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	s, _ := newTestSlack(srv.URL)
	err := s.Send(context.Background(), sampleItem())

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusForbidden, clientErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
