package entity

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is a two-letter ISO 639-1 code from the supported set.
type Language string

// Supported languages.
const (
	English    Language = "en"
	Hindi      Language = "hi"
	Spanish    Language = "es"
	French     Language = "fr"
	German     Language = "de"
	Chinese    Language = "zh"
	Arabic     Language = "ar"
	Japanese   Language = "ja"
	Portuguese Language = "pt"
	Russian    Language = "ru"
	Tamil      Language = "ta"
	Telugu     Language = "te"
	Marathi    Language = "mr"
	Gujarati   Language = "gu"
	Bengali    Language = "bn"
)

// DefaultLanguage is used whenever a language cannot be determined.
const DefaultLanguage = English

// DefaultLocaleTag is used for codes missing from the locale table.
const DefaultLocaleTag = "en_XX"

type languageInfo struct {
	name   string
	locale string
}

var languages = map[Language]languageInfo{
	English:    {"English", "en_XX"},
	Hindi:      {"Hindi", "hi_IN"},
	Spanish:    {"Spanish", "es_XX"},
	French:     {"French", "fr_XX"},
	German:     {"German", "de_DE"},
	Chinese:    {"Chinese", "zh_CN"},
	Arabic:     {"Arabic", "ar_AR"},
	Japanese:   {"Japanese", "ja_XX"},
	Portuguese: {"Portuguese", "pt_XX"},
	Russian:    {"Russian", "ru_RU"},
	Tamil:      {"Tamil", "ta_IN"},
	Telugu:     {"Telugu", "te_IN"},
	Marathi:    {"Marathi", "mr_IN"},
	Gujarati:   {"Gujarati", "gu_IN"},
	Bengali:    {"Bengali", "bn_IN"},
}

// SupportedLanguages lists the supported languages in display order.
func SupportedLanguages() []Language {
	return []Language{
		English, Hindi, Spanish, French, German, Chinese, Arabic, Japanese,
		Portuguese, Russian, Tamil, Telugu, Marathi, Gujarati, Bengali,
	}
}

// ParseLanguage normalizes a user supplied code such as "FR" or "pt-BR"
// into a supported Language.
func ParseLanguage(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty language code", ErrUnsupportedLanguage)
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupportedLanguage, code, err)
	}

	base, _ := tag.Base()
	lang := Language(base.String())
	if !lang.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return lang, nil
}

// IsSupported reports whether l is in the supported set.
func (l Language) IsSupported() bool {
	_, ok := languages[l]
	return ok
}

// LocaleTag returns the model-specific locale tag (e.g. "hi_IN").
// Unknown codes map to DefaultLocaleTag rather than failing.
func (l Language) LocaleTag() string {
	if info, ok := languages[l]; ok {
		return info.locale
	}
	return DefaultLocaleTag
}

// Name returns the English display name, or the upper-cased code when unknown.
func (l Language) Name() string {
	if info, ok := languages[l]; ok {
		return info.name
	}
	return strings.ToUpper(string(l))
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}
