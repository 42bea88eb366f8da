package translator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/huggingface"
	"newshub/internal/resilience/retry"
)

type call struct {
	model string
	input string
}

// fakeInferer answers each model with a scripted sequence of results.
// The last entry repeats once the script runs out.
type fakeInferer struct {
	mu      sync.Mutex
	noKey   bool
	scripts map[string][]result
	calls   []call
}

type result struct {
	resp *huggingface.Response
	err  error
}

func (f *fakeInferer) HasCredential() bool { return !f.noKey }

func (f *fakeInferer) Infer(ctx context.Context, model, input string) (*huggingface.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{model: model, input: input})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	script := f.scripts[model]
	if len(script) == 0 {
		return nil, errors.New("no script for " + model)
	}
	r := script[0]
	if len(script) > 1 {
		f.scripts[model] = script[1:]
	}
	return r.resp, r.err
}

func (f *fakeInferer) callsTo(model string) int {
	n := 0
	for _, c := range f.calls {
		if c.model == model {
			n++
		}
	}
	return n
}

const (
	enHiModel = "Helsinki-NLP/opus-mt-en-XX-hi-IN"
	mbart     = "facebook/mbart-large-50-many-to-many-mmt"
)

func listOf(out huggingface.Output) result {
	return result{resp: &huggingface.Response{List: true, Outputs: []huggingface.Output{out}}}
}

func failure(status int) result {
	return result{err: &entity.TransientRequestError{StatusCode: status, Message: "model loading"}}
}

func newTestHosted(client Inferer) (*Hosted, *[]time.Duration) {
	var delays []time.Duration
	cfg := DefaultHostedConfig()
	cfg.Retry.Sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return NewHosted(client, cfg, nil), &delays
}

func TestHosted_SameLanguageIsIdentity(t *testing.T) {
	client := &fakeInferer{}
	h, _ := newTestHosted(client)

	out, err := h.Translate(context.Background(), "Bonjour le monde", entity.French, entity.French)

	require.NoError(t, err)
	assert.Equal(t, "Bonjour le monde", out)
	assert.Empty(t, client.calls)
}

func TestHosted_MissingCredential(t *testing.T) {
	client := &fakeInferer{noKey: true}
	h, _ := newTestHosted(client)
	input := strings.Repeat("a", 150)

	out, err := h.Translate(context.Background(), input, entity.English, entity.Hindi)

	assert.ErrorIs(t, err, entity.ErrMissingCredential)
	assert.Equal(t, "[Translation unavailable - inference API key not set] "+strings.Repeat("a", 100), out)
	assert.Empty(t, client.calls)
}

func TestHosted_PrimaryResponses(t *testing.T) {
	tests := []struct {
		name string
		res  result
		want string
	}{
		{
			name: "list uses translation_text",
			res:  listOf(huggingface.Output{TranslationText: "नमस्ते"}),
			want: "नमस्ते",
		},
		{
			name: "object uses generated_text",
			res: result{resp: &huggingface.Response{
				Outputs: []huggingface.Output{{GeneratedText: "नमस्ते दुनिया"}},
			}},
			want: "नमस्ते दुनिया",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeInferer{scripts: map[string][]result{enHiModel: {tt.res}}}
			h, delays := newTestHosted(client)

			out, err := h.Translate(context.Background(), "hello", entity.English, entity.Hindi)

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, 1, client.callsTo(enHiModel))
			assert.Zero(t, client.callsTo(mbart))
			assert.Empty(t, *delays)
		})
	}
}

func TestHosted_RetriesWithBackoff(t *testing.T) {
	client := &fakeInferer{scripts: map[string][]result{
		enHiModel: {failure(503), failure(503), listOf(huggingface.Output{TranslationText: "ok"})},
	}}
	h, delays := newTestHosted(client)

	out, err := h.Translate(context.Background(), "hello", entity.English, entity.Hindi)

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, client.callsTo(enHiModel))
	assert.Equal(t, []time.Duration{4 * time.Second, 8 * time.Second}, *delays)
}

func TestHosted_FallbackAfterPrimaryExhausted(t *testing.T) {
	client := &fakeInferer{scripts: map[string][]result{
		enHiModel: {failure(404)},
		mbart:     {listOf(huggingface.Output{GeneratedText: "hi_IN  नमस्ते "})},
	}}
	h, _ := newTestHosted(client)

	out, err := h.Translate(context.Background(), "hello", entity.English, entity.Hindi)

	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", out)
	assert.Equal(t, 3, client.callsTo(enHiModel))
	require.Equal(t, 1, client.callsTo(mbart))
	assert.Equal(t, "en_XX hello", client.calls[len(client.calls)-1].input)
}

func TestHosted_EmptyPrimaryGoesStraightToFallback(t *testing.T) {
	client := &fakeInferer{scripts: map[string][]result{
		enHiModel: {listOf(huggingface.Output{})},
		mbart:     {listOf(huggingface.Output{GeneratedText: "नमस्ते"})},
	}}
	h, delays := newTestHosted(client)

	out, err := h.Translate(context.Background(), "hello", entity.English, entity.Hindi)

	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", out)
	assert.Equal(t, 1, client.callsTo(enHiModel))
	assert.Empty(t, *delays)
}

func TestHosted_BothModelsFail(t *testing.T) {
	client := &fakeInferer{scripts: map[string][]result{
		enHiModel: {failure(500)},
		mbart:     {failure(503)},
	}}
	h, _ := newTestHosted(client)
	input := strings.Repeat("word ", 40)

	out, err := h.Translate(context.Background(), input, entity.English, entity.Hindi)

	assert.ErrorIs(t, err, entity.ErrTranslationFailed)
	assert.True(t, strings.HasPrefix(out, "[Translation failed: "))
	assert.True(t, strings.HasSuffix(out, "] "+input[:100]))
	assert.Equal(t, 1, client.callsTo(mbart))
}

func TestHosted_FallbackRejectsObjectResponse(t *testing.T) {
	client := &fakeInferer{scripts: map[string][]result{
		enHiModel: {failure(500)},
		mbart:     {result{resp: &huggingface.Response{Outputs: []huggingface.Output{{GeneratedText: "x"}}}}},
	}}
	h, _ := newTestHosted(client)

	out, err := h.Translate(context.Background(), "hello", entity.English, entity.Hindi)

	assert.ErrorIs(t, err, entity.ErrTranslationFailed)
	assert.Contains(t, out, "unexpected response shape")
}

func TestHosted_CanceledContextSkipsFallback(t *testing.T) {
	client := &fakeInferer{scripts: map[string][]result{
		mbart: {listOf(huggingface.Output{GeneratedText: "never"})},
	}}
	h, _ := newTestHosted(client)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := h.Translate(ctx, "hello", entity.English, entity.Hindi)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, entity.ErrTranslationFailed)
	assert.Contains(t, out, "hello")
	assert.Zero(t, client.callsTo(mbart))
}

func TestHosted_InputIsCapped(t *testing.T) {
	client := &fakeInferer{scripts: map[string][]result{
		enHiModel: {listOf(huggingface.Output{TranslationText: "ok"})},
	}}
	h, _ := newTestHosted(client)

	_, err := h.Translate(context.Background(), strings.Repeat("é", 1500), entity.English, entity.Hindi)

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 1000), client.calls[0].input)
}

func TestHosted_PrimaryModel(t *testing.T) {
	h := NewHosted(&fakeInferer{}, HostedConfig{}, nil)

	assert.Equal(t, enHiModel, h.PrimaryModel(entity.English, entity.Hindi))
	assert.Equal(t, "Helsinki-NLP/opus-mt-de-DE-ja-XX", h.PrimaryModel(entity.German, entity.Japanese))
}

func TestNewHosted_DefaultsRetryPolicy(t *testing.T) {
	h := NewHosted(&fakeInferer{}, HostedConfig{}, nil)
	want := retry.InferenceConfig()

	assert.Equal(t, want.MaxAttempts, h.config.Retry.MaxAttempts)
	assert.Equal(t, want.InitialDelay, h.config.Retry.InitialDelay)
	assert.Equal(t, want.MaxDelay, h.config.Retry.MaxDelay)
}
