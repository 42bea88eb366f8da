package summarizer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/huggingface"
)

func TestHosted_EveryChunkGetsFullRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := huggingface.NewClient(huggingface.Config{
		APIKey:  "hf-test",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, "summarization")
	h, delays := newTestHosted(client)

	out, err := h.Summarize(context.Background(), sentences(5, 600), 100, 30)

	assert.ErrorIs(t, err, entity.ErrSummarizationFailed)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.Equal(t, int32(15), hits.Load())
	assert.Len(t, *delays, 10)
}
