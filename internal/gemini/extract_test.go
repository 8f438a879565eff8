package gemini

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "fenced block",
			input: "Here you go:\n```json\n{\"name\": \"CSK\"}\n```\nHope that helps!",
			want:  `{"name": "CSK"}`,
			ok:    true,
		},
		{
			name:  "bare object",
			input: `{"name": "CSK", "titles": "5"}`,
			want:  `{"name": "CSK", "titles": "5"}`,
			ok:    true,
		},
		{
			name:  "object embedded in prose",
			input: `Sure! The details are {"name": "CSK"} as requested.`,
			want:  `{"name": "CSK"}`,
			ok:    true,
		},
		{
			name:  "nested objects",
			input: `{"team": {"name": "CSK"}, "season": "2023"}`,
			want:  `{"team": {"name": "CSK"}, "season": "2023"}`,
			ok:    true,
		},
		{
			name:  "braces inside string literals",
			input: `{"note": "uses { and } freely", "ok": true}`,
			want:  `{"note": "uses { and } freely", "ok": true}`,
			ok:    true,
		},
		{
			name:  "escaped quote inside string",
			input: `{"note": "say \"hi}\" now"}`,
			want:  `{"note": "say \"hi}\" now"}`,
			ok:    true,
		},
		{
			name:  "empty fence falls back to brace scan",
			input: "```json\n```\n{\"name\": \"MI\"}",
			want:  `{"name": "MI"}`,
			ok:    true,
		},
		{
			name:  "unterminated object",
			input: `{"name": "CSK"`,
			ok:    false,
		},
		{
			name:  "no json at all",
			input: "I cannot answer that in JSON, sorry.",
			ok:    false,
		},
		{
			name:  "empty input",
			input: "",
			ok:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := extractJSON(tc.input)
			if ok != tc.ok {
				t.Fatalf("extractJSON(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if tc.ok && got != tc.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
