// Package textutil_test tests the textutil package.
package textutil_test

import (
	"testing"

	"github.com/vamshik/iplbot/internal/textutil"
)

func TestIsTelugu(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "all ASCII", in: "hello ipl bot", want: false},
		{name: "empty", in: "", want: false},
		{name: "pure Telugu", in: "నమస్కారం", want: true},
		{name: "mixed scripts", in: "IPL గురించి చెప్పు", want: true},
		{name: "single Telugu rune", in: "hello ఐ", want: true},
		{name: "block start", in: string(rune(0x0C00)), want: true},
		{name: "block end", in: string(rune(0x0C7F)), want: true},
		{name: "just below block", in: string(rune(0x0BFF)), want: false},
		{name: "just above block", in: string(rune(0x0C80)), want: false},
		{name: "other non-Latin script", in: "привет", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := textutil.IsTelugu(tc.in); got != tc.want {
				t.Errorf("IsTelugu(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want textutil.Language
	}{
		{"telugu", textutil.LanguageTelugu},
		{"english", textutil.LanguageEnglish},
		{"", textutil.LanguageEnglish},
		{"french", textutil.LanguageEnglish},
	}

	for _, tc := range tests {
		if got := textutil.ParseLanguage(tc.in); got != tc.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Hello IPL", want: "hello ipl"},
		{name: "strips punctuation", in: "who, me? yes!", want: "who me yes"},
		{name: "collapses whitespace", in: "a   b\t c", want: "a b c"},
		{name: "already clean", in: "virat kohli stats", want: "virat kohli stats"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := textutil.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestKeyPhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short input kept whole", in: "hello there", max: 5, want: "hello there"},
		{name: "truncates to max tokens", in: "one two three four five six seven", max: 5, want: "one two three four five"},
		{name: "case folded", in: "Hello There Everyone", max: 5, want: "hello there everyone"},
		{name: "empty", in: "", max: 5, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := textutil.KeyPhrase(tc.in, tc.max); got != tc.want {
				t.Errorf("KeyPhrase(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}
