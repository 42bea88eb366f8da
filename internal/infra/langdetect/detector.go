// Package langdetect classifies short text snippets into supported languages.
package langdetect

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"

	"newshub/internal/domain/entity"
)

const (
	// minRunes is the shortest trimmed input worth classifying.
	minRunes = 3
	// maxRunes bounds the prefix handed to the classifier.
	maxRunes = 200
)

var linguaLanguages = map[entity.Language]lingua.Language{
	entity.English:    lingua.English,
	entity.Hindi:      lingua.Hindi,
	entity.Spanish:    lingua.Spanish,
	entity.French:     lingua.French,
	entity.German:     lingua.German,
	entity.Chinese:    lingua.Chinese,
	entity.Arabic:     lingua.Arabic,
	entity.Japanese:   lingua.Japanese,
	entity.Portuguese: lingua.Portuguese,
	entity.Russian:    lingua.Russian,
	entity.Tamil:      lingua.Tamil,
	entity.Telugu:     lingua.Telugu,
	entity.Marathi:    lingua.Marathi,
	entity.Gujarati:   lingua.Gujarati,
	entity.Bengali:    lingua.Bengali,
}

// Detector resolves the language of article titles.
// It is safe for concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
	logger   *slog.Logger
}

// New builds a detector restricted to the supported languages.
// Language models are loaded eagerly, so construction takes a moment
// and should happen once at startup.
func New(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}

	langs := make([]lingua.Language, 0, len(linguaLanguages))
	for _, l := range entity.SupportedLanguages() {
		langs = append(langs, linguaLanguages[l])
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(langs...).
			WithPreloadedLanguageModels().
			Build(),
		logger: logger,
	}
}

// Detect returns the language of text. Inputs shorter than three characters
// and inputs the classifier cannot place resolve to English.
func (d *Detector) Detect(text string) entity.Language {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minRunes {
		return entity.DefaultLanguage
	}
	text = prefix(text, maxRunes)

	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		d.logger.Debug("language not detected, using default",
			slog.String("default", entity.DefaultLanguage.String()))
		return entity.DefaultLanguage
	}

	lang := entity.Language(strings.ToLower(detected.IsoCode639_1().String()))
	if !lang.IsSupported() {
		return entity.DefaultLanguage
	}
	return lang
}

func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
