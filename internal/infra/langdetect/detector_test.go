package langdetect

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"newshub/internal/domain/entity"
)

var (
	sharedOnce     sync.Once
	sharedDetector *Detector
)

// detector returns one detector for the package; building it loads every model.
func detector(t *testing.T) *Detector {
	t.Helper()
	sharedOnce.Do(func() { sharedDetector = New(nil) })
	return sharedDetector
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want entity.Language
	}{
		{
			name: "english headline",
			text: "Government announces new budget to improve public schools across the country",
			want: entity.English,
		},
		{
			name: "french headline",
			text: "Le gouvernement annonce un nouveau budget pour améliorer les écoles publiques du pays",
			want: entity.French,
		},
		{
			name: "russian headline",
			text: "Правительство объявило о новом бюджете для улучшения государственных школ",
			want: entity.Russian,
		},
		{
			name: "japanese headline",
			text: "政府は全国の公立学校を改善するための新しい予算を発表しました",
			want: entity.Japanese,
		},
	}

	d := detector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestDetect_ShortInputDefaultsToEnglish(t *testing.T) {
	d := detector(t)
	for _, text := range []string{"", "  ", "né", "  日本  "} {
		assert.Equal(t, entity.English, d.Detect(text), "input %q", text)
	}
}

func TestDetect_UndetectableDefaultsToEnglish(t *testing.T) {
	assert.Equal(t, entity.English, detector(t).Detect("12345 67890 !!! ???"))
}

func TestDetect_OnlyExaminesPrefix(t *testing.T) {
	english := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 5)
	spanish := strings.Repeat("El rápido zorro marrón salta sobre el perro perezoso y se va al bosque. ", 20)

	assert.GreaterOrEqual(t, len([]rune(english)), maxRunes)
	assert.Equal(t, entity.English, detector(t).Detect(english+spanish))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "abc", prefix("abc", 5))
	assert.Equal(t, "ab", prefix("abc", 2))
	assert.Equal(t, "日本", prefix("日本語", 2))
	assert.Equal(t, "", prefix("abc", 0))
}
