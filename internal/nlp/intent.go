// Package nlp implements keyword-based intent classification and
// regex-based entity extraction for free-text cricket queries.
package nlp

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a message.
type Intent string

const (
	IntentMatchInfo    Intent = "match_info"
	IntentPlayerInfo   Intent = "player_info"
	IntentTeamInfo     Intent = "team_info"
	IntentScheduleInfo Intent = "schedule_info"
	IntentStatsInfo    Intent = "stats_info"
	IntentConversation Intent = "conversation"
)

// Slot names produced by ExtractEntities.
const (
	SlotPlayerName = "player_name"
	SlotTeamName   = "team_name"
	SlotTeam1      = "team1"
	SlotTeam2      = "team2"
)

// intentKeywords is checked in order; the first category with a keyword
// hit wins, which makes the categories mutually exclusive.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentMatchInfo, []string{"score", "result", "match"}},
	{IntentPlayerInfo, []string{"player", "batsman", "bowler"}},
	{IntentTeamInfo, []string{"team", "squad", "franchise"}},
	{IntentScheduleInfo, []string{"schedule", "fixture", "upcoming"}},
	{IntentStatsInfo, []string{"stats", "statistics", "record"}},
}

var (
	playerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:player|batsman|bowler)\s+(\w+(?:\s+\w+)?)`),
		regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+(?:stats|record|performance)`),
	}
	teamPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:team|squad|franchise)\s+(\w+(?:\s+\w+)?)`),
		regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+(?:team|squad|franchise)`),
	}
	matchPattern = regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+(?:vs|versus|against)\s+(\w+(?:\s+\w+)?)`)
)

// DetectIntent classifies text by keyword membership over a fixed
// priority-ordered table, defaulting to conversation.
func DetectIntent(text string) Intent {
	lower := strings.ToLower(text)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.intent
			}
		}
	}
	return IntentConversation
}

// ExtractEntities runs the regex patterns scoped to the detected intent
// and returns the captured slots. An empty map means no entity matched;
// callers must handle missing slots.
//
// Stats queries reuse the player patterns so that "kohli stats" style
// questions resolve to a player lookup.
func ExtractEntities(text string, intent Intent) map[string]string {
	entities := make(map[string]string)

	switch intent {
	case IntentPlayerInfo, IntentStatsInfo:
		for _, p := range playerPatterns {
			if m := p.FindStringSubmatch(text); m != nil {
				entities[SlotPlayerName] = strings.TrimSpace(m[1])
				break
			}
		}
	case IntentTeamInfo:
		for _, p := range teamPatterns {
			if m := p.FindStringSubmatch(text); m != nil {
				entities[SlotTeamName] = strings.TrimSpace(m[1])
				break
			}
		}
	case IntentMatchInfo:
		if m := matchPattern.FindStringSubmatch(text); m != nil {
			entities[SlotTeam1] = strings.TrimSpace(m[1])
			entities[SlotTeam2] = strings.TrimSpace(m[2])
		}
	}

	return entities
}
