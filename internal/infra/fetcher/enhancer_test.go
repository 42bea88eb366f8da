package fetcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
)

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	errs    map[string]error
	calls   []string
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (f *fakeFetcher) FetchContent(_ context.Context, url string) (string, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

func enabledConfig() ContentFetchConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Threshold = 50
	return cfg
}

func TestEnhancer_Disabled(t *testing.T) {
	f := &fakeFetcher{}
	e := NewEnhancer(f, DefaultConfig(), nil)

	in := []entity.Article{{URL: "https://a", Content: "short"}}
	out := e.Enhance(context.Background(), in)

	assert.False(t, e.Enabled())
	assert.Equal(t, in, out)
	assert.Empty(t, f.calls)
}

func TestEnhancer_Enhance(t *testing.T) {
	long := strings.Repeat("full text ", 20)
	f := &fakeFetcher{
		pages: map[string]string{
			"https://clipped": long,
			"https://short":   long,
			"https://worse":   "tiny",
		},
		errs: map[string]error{
			"https://broken": errors.New("connection refused"),
		},
	}
	e := NewEnhancer(f, enabledConfig(), nil)

	in := []entity.Article{
		{URL: "https://clipped", Content: strings.Repeat("x", 60) + "… [+2048 chars]"},
		{URL: "https://short", Content: "only a lede"},
		{URL: "https://worse", Content: "a lede of some length"},
		{URL: "https://broken", Content: "kept as is"},
		{URL: "https://long", Content: strings.Repeat("y", 80)},
		{URL: "", Content: "no url"},
	}
	out := e.Enhance(context.Background(), in)

	require.Len(t, out, len(in))
	assert.Equal(t, strings.TrimSpace(long), out[0].Content)
	assert.Equal(t, strings.TrimSpace(long), out[1].Content)
	assert.Equal(t, "a lede of some length", out[2].Content)
	assert.Equal(t, "kept as is", out[3].Content)
	assert.Equal(t, in[4].Content, out[4].Content)
	assert.Equal(t, "no url", out[5].Content)

	assert.ElementsMatch(t, []string{"https://clipped", "https://short", "https://worse", "https://broken"}, f.calls)
	assert.Equal(t, "only a lede", in[1].Content, "input slice must not be modified")
}

func TestEnhancer_RespectsParallelism(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{}}
	cfg := enabledConfig()
	cfg.Parallelism = 2
	e := NewEnhancer(f, cfg, nil)

	in := make([]entity.Article, 10)
	for i := range in {
		in[i] = entity.Article{URL: "https://a/" + string(rune('a'+i)), Content: "x"}
	}
	e.Enhance(context.Background(), in)

	assert.Len(t, f.calls, 10)
	assert.LessOrEqual(t, f.maxSeen.Load(), int32(2))
}

func TestNeedsFetch(t *testing.T) {
	e := NewEnhancer(&fakeFetcher{}, enabledConfig(), nil)

	tests := []struct {
		name    string
		article entity.Article
		want    bool
	}{
		{name: "marker on long body", article: entity.Article{URL: "u", Content: strings.Repeat("z", 200) + " [+512 chars]"}, want: true},
		{name: "below threshold", article: entity.Article{URL: "u", Content: "brief"}, want: true},
		{name: "long body", article: entity.Article{URL: "u", Content: strings.Repeat("z", 200)}, want: false},
		{name: "no url", article: entity.Article{Content: "brief"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.needsFetch(tt.article))
		})
	}
}
