// Package nlp_test tests intent classification and entity extraction.
package nlp_test

import (
	"testing"

	"github.com/vamshik/iplbot/internal/nlp"
)

func TestDetectIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want nlp.Intent
	}{
		{name: "match keyword", in: "what was the score yesterday", want: nlp.IntentMatchInfo},
		{name: "player keyword", in: "tell me about player kohli", want: nlp.IntentPlayerInfo},
		{name: "team keyword", in: "which team is best", want: nlp.IntentTeamInfo},
		{name: "schedule keyword", in: "upcoming fixtures please", want: nlp.IntentScheduleInfo},
		{name: "stats keyword", in: "virat kohli stats", want: nlp.IntentStatsInfo},
		{name: "no keyword", in: "how are you doing", want: nlp.IntentConversation},
		{name: "match beats player", in: "match result for player kohli", want: nlp.IntentMatchInfo},
		{name: "player beats team", in: "which player leads the team", want: nlp.IntentPlayerInfo},
		{name: "team beats stats", in: "team stats please", want: nlp.IntentTeamInfo},
		{name: "empty", in: "", want: nlp.IntentConversation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := nlp.DetectIntent(tc.in); got != tc.want {
				t.Errorf("DetectIntent(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractEntities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		intent nlp.Intent
		want   map[string]string
	}{
		{
			name:   "player after role keyword",
			in:     "tell me about player virat kohli",
			intent: nlp.IntentPlayerInfo,
			want:   map[string]string{nlp.SlotPlayerName: "virat kohli"},
		},
		{
			name:   "player before stats keyword",
			in:     "virat kohli stats",
			intent: nlp.IntentStatsInfo,
			want:   map[string]string{nlp.SlotPlayerName: "virat kohli"},
		},
		{
			name:   "team after keyword",
			in:     "tell me about team csk",
			intent: nlp.IntentTeamInfo,
			want:   map[string]string{nlp.SlotTeamName: "csk"},
		},
		{
			name:   "greedy capture takes trailing word",
			in:     "team csk details",
			intent: nlp.IntentTeamInfo,
			want:   map[string]string{nlp.SlotTeamName: "csk details"},
		},
		{
			name:   "match with vs",
			in:     "score of csk vs mi",
			intent: nlp.IntentMatchInfo,
			want:   map[string]string{nlp.SlotTeam1: "of csk", nlp.SlotTeam2: "mi"},
		},
		{
			name:   "no pattern match",
			in:     "anything about cricket",
			intent: nlp.IntentPlayerInfo,
			want:   map[string]string{},
		},
		{
			name:   "conversation extracts nothing",
			in:     "player kohli",
			intent: nlp.IntentConversation,
			want:   map[string]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := nlp.ExtractEntities(tc.in, tc.intent)
			if len(got) != len(tc.want) {
				t.Fatalf("ExtractEntities(%q, %q) = %v, want %v", tc.in, tc.intent, got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("slot %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
