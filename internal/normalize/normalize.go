// Package normalize provides utilities for normalizing and sanitizing user-entered text.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// Text cleans a free-text value typed on a phone keyboard:
//   - null bytes and other control characters are dropped
//   - the result is NFC, so composed and decomposed Devanagari compare equal
//   - runs of whitespace collapse to one space and the ends are trimmed
func Text(raw string) string {
	if raw == "" {
		return ""
	}
	s := norm.NFC.String(sanitizeString(raw))
	return strings.Join(strings.Fields(s), " ")
}

// LanguageCode resolves raw to one of the candidate ISO 639-1 codes.
// It understands:
//   - BCP 47 tags and locales: "hi", "hi-IN", "ta_IN", "mar"
//   - English names: "Hindi", "TAMIL"
//   - Native names: "हिन्दी", "मराठी"
//
// Returns empty string when raw matches no candidate.
func LanguageCode(raw string, candidates ...string) string {
	s := Text(raw)
	if s == "" {
		return ""
	}

	var base string
	if tag, err := language.Parse(strings.ReplaceAll(s, "_", "-")); err == nil {
		b, _ := tag.Base()
		base = b.String()
	}

	for _, code := range candidates {
		if base == code {
			return code
		}
		tag := language.Make(code)
		if strings.EqualFold(s, display.English.Languages().Name(tag)) || s == display.Self.Name(tag) {
			return code
		}
	}
	return ""
}

// sanitizeString removes null bytes and control characters, which can cause
// issues in databases and JSON parsing. Some keyboards and paste buffers
// include them.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			return -1 // drop it
		}
		return r
	}, s)
}
