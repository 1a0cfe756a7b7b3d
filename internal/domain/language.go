package domain

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/krishiapp/krishi-settings/internal/normalize"
)

// Language is one of the locales the app ships translations for.
type Language string

// Supported languages.
const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageMarathi Language = "mr"
	LanguageTamil   Language = "ta"
)

var supportedLanguages = []Language{LanguageEnglish, LanguageHindi, LanguageMarathi, LanguageTamil}

// SupportedLanguages returns the closed set of language codes.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ParseLanguage accepts any BCP 47 tag whose base language is supported,
// so "EN", "hi-IN" and "ta_IN" all resolve. English and native language
// names ("Hindi", "मराठी") resolve too.
func ParseLanguage(s string) (Language, error) {
	if normalize.Text(s) == "" {
		return "", fmt.Errorf("language code is empty")
	}

	codes := make([]string, len(supportedLanguages))
	for i, l := range supportedLanguages {
		codes[i] = string(l)
	}

	code := normalize.LanguageCode(s, codes...)
	if code == "" {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return Language(code), nil
}

// Supported reports whether l is in the closed set.
func (l Language) Supported() bool {
	for _, s := range supportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// Tag returns the BCP 47 tag for l.
func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}

// NativeName is the language's name written in itself (e.g. "हिन्दी").
func (l Language) NativeName() string {
	return display.Self.Name(l.Tag())
}

// EnglishName is the language's English name.
func (l Language) EnglishName() string {
	return display.English.Languages().Name(l.Tag())
}
