package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:test-token"

const telegramOK = `{"ok":true,"result":{"message_id":7,"date":1767225600,"chat":{"id":42,"type":"private"},"text":"ok"}}`

func newTestTelegram(t *testing.T, serverURL string) (*TelegramNotifier, *recordingSleep) {
	t.Helper()
	n, err := NewTelegramNotifier(TelegramConfig{
		Enabled:   true,
		Token:     testBotToken,
		ChatID:    42,
		Timeout:   5 * time.Second,
		ServerURL: serverURL,
	}, discardLogger())
	require.NoError(t, err)
	rec := &recordingSleep{}
	n.sleep = rec.sleep
	return n, rec
}

func TestBuildTelegramMessage(t *testing.T) {
	item := sampleItem()
	item.Processed.Summary = "Prices <rose> & fell"

	msg := buildTelegramMessage(item)

	assert.Equal(t,
		`<b><a href="https://example.com/story">अनुवादित शीर्षक</a></b>`+"\n\n"+
			"Prices &lt;rose&gt; &amp; fell\n\n<i>Reuters · Hindi</i>",
		msg)
}

func TestBuildTelegramMessage_LongSummary(t *testing.T) {
	item := sampleItem()
	item.Processed.Summary = strings.Repeat("word ", 2000)

	msg := buildTelegramMessage(item)

	assert.LessOrEqual(t, len([]rune(msg)), maxTelegramMessageLength)
	assert.True(t, strings.HasSuffix(msg, "<i>Reuters · Hindi</i>"))
}

func TestTelegramNotifier_Send(t *testing.T) {
	var gotText, gotChat, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testBotToken+"/sendMessage", r.URL.Path)
		gotText = r.FormValue("text")
		gotChat = r.FormValue("chat_id")
		gotMode = r.FormValue("parse_mode")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(telegramOK))
	}))
	defer srv.Close()

	n, _ := newTestTelegram(t, srv.URL)
	require.NoError(t, n.Send(context.Background(), sampleItem()))

	assert.Contains(t, gotText, "अनुवादित शीर्षक")
	assert.Equal(t, "42", gotChat)
	assert.Equal(t, "HTML", gotMode)
	assert.Equal(t, "telegram", n.Name())
	assert.True(t, n.IsEnabled())
}

func TestTelegramNotifier_Send_BadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	n, _ := newTestTelegram(t, srv.URL)
	err := n.Send(context.Background(), sampleItem())

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTelegramNotifier_Send_TooManyRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 3","parameters":{"retry_after":3}}`))
			return
		}
		_, _ = w.Write([]byte(telegramOK))
	}))
	defer srv.Close()

	n, rec := newTestTelegram(t, srv.URL)
	require.NoError(t, n.Send(context.Background(), sampleItem()))

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{3 * time.Second}, rec.delays)
}
