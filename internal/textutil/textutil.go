// Package textutil provides language detection and text normalization
// helpers shared by the conversation pipeline.
package textutil

import (
	"strings"
	"unicode"
)

// Language identifies one of the two reply languages the bot supports.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageTelugu  Language = "telugu"
)

// ParseLanguage maps a stored preference string to a Language,
// defaulting to English for unknown or empty values.
func ParseLanguage(s string) Language {
	if Language(s) == LanguageTelugu {
		return LanguageTelugu
	}
	return LanguageEnglish
}

// IsTelugu reports whether text contains at least one code point in the
// Telugu Unicode block (U+0C00 through U+0C7F). It is a pure script
// check with no further heuristics.
func IsTelugu(text string) bool {
	for _, r := range text {
		if r >= 0x0C00 && r <= 0x0C7F {
			return true
		}
	}
	return false
}

// Normalize lowercases text, strips punctuation and symbol runes, and
// collapses all whitespace to single spaces.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// KeyPhrase derives the lookup key for a learned response: the first
// maxTokens whitespace-separated tokens of the normalized text.
func KeyPhrase(text string, maxTokens int) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > maxTokens {
		words = words[:maxTokens]
	}
	return strings.Join(words, " ")
}
