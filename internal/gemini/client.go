// Package gemini integrates Google's Gemini API as the bot's remote
// answer source. The client is a soft dependency: when no API key is
// configured a disabled client is returned and every lookup reports
// unavailability instead of failing.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/vamshik/iplbot/internal/config"
	"github.com/vamshik/iplbot/internal/metrics"
	"github.com/vamshik/iplbot/internal/textutil"
)

// ErrUnavailable is returned by every operation of a disabled client.
var ErrUnavailable = errors.New("gemini client not configured")

// TeamReport is the structured team lookup result.
type TeamReport struct {
	Name              string `json:"name"`
	FullName          string `json:"full_name"`
	HomeGround        string `json:"home_ground"`
	Captain           string `json:"captain"`
	Coach             string `json:"coach"`
	Championships     string `json:"championships"`
	KeyPlayers        string `json:"key_players"`
	RecentPerformance string `json:"recent_performance"`
	Owner             string `json:"owner"`
}

// PlayerReport is the structured player lookup result.
type PlayerReport struct {
	Name              string `json:"name"`
	Team              string `json:"team"`
	Role              string `json:"role"`
	Matches           string `json:"matches"`
	Runs              string `json:"runs"`
	Wickets           string `json:"wickets"`
	RecentPerformance string `json:"recent_performance"`
	Country           string `json:"country"`
}

// MatchReport is the structured match lookup result.
type MatchReport struct {
	Team1      string `json:"team1"`
	Team2      string `json:"team2"`
	Date       string `json:"date"`
	Venue      string `json:"venue"`
	Result     string `json:"result"`
	Highlights string `json:"highlights"`
}

// StatsReport is the structured season statistics result.
type StatsReport struct {
	TotalMatches      json.Number `json:"total_matches"`
	MostWinsTeam      string      `json:"most_wins_team"`
	MostWinsCount     json.Number `json:"most_wins_count"`
	HighestScoreTeam  string      `json:"highest_score_team"`
	HighestScore      json.Number `json:"highest_score"`
	MostRunsPlayer    string      `json:"most_runs_player"`
	MostRuns          json.Number `json:"most_runs"`
	MostWicketsPlayer string      `json:"most_wickets_player"`
	MostWickets       json.Number `json:"most_wickets"`
}

// Client defines the AI operations used throughout the application.
type Client interface {
	// Available reports whether the client can serve requests.
	Available() bool

	// Chat generates a free-form conversational reply in the given
	// language. Telugu replies are transliterated to Roman script.
	Chat(ctx context.Context, message string, language textutil.Language) (string, error)

	TeamInfo(ctx context.Context, teamName string) (*TeamReport, error)
	PlayerInfo(ctx context.Context, playerName string) (*PlayerReport, error)
	MatchInfo(ctx context.Context, team1, team2 string) (*MatchReport, error)
	SeasonStats(ctx context.Context) (*StatsReport, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	timeout       time.Duration
}

// NewClient creates a Gemini client from the configuration. When no API
// key is configured it returns a disabled client and no error.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	logger := log.With("component", "gemini_client")

	if cfg.APIKey == "" {
		logger.Warn("No Gemini API key configured, AI responses disabled")
		return disabledClient{}, nil
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	logger.Info("Gemini client initialized successfully", "model", cfg.Model)
	return &sdkClient{
		genaiClient: gi,
		log:         logger,
		contentConfig: &genai.GenerateContentConfig{
			Temperature: &temperature,
		},
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
	}, nil
}

func (c *sdkClient) Available() bool { return true }

func (c *sdkClient) Chat(ctx context.Context, message string, language textutil.Language) (string, error) {
	year := time.Now().Year()

	var prompt string
	if language == textutil.LanguageTelugu {
		prompt = fmt.Sprintf(chatPromptTelugu, year, message)
	} else {
		prompt = fmt.Sprintf(chatPromptEnglish, year, message, year)
	}

	text, err := c.generate(ctx, "chat", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *sdkClient) TeamInfo(ctx context.Context, teamName string) (*TeamReport, error) {
	year := time.Now().Year()
	prompt := fmt.Sprintf(teamInfoPrompt, year, teamName, year, year)

	var report TeamReport
	if err := c.generateJSON(ctx, "team_info", prompt, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *sdkClient) PlayerInfo(ctx context.Context, playerName string) (*PlayerReport, error) {
	year := time.Now().Year()
	prompt := fmt.Sprintf(playerInfoPrompt, year, playerName, year, year)

	var report PlayerReport
	if err := c.generateJSON(ctx, "player_info", prompt, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *sdkClient) MatchInfo(ctx context.Context, team1, team2 string) (*MatchReport, error) {
	prompt := fmt.Sprintf(matchInfoPrompt, time.Now().Year(), team1, team2)

	var report MatchReport
	if err := c.generateJSON(ctx, "match_info", prompt, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *sdkClient) SeasonStats(ctx context.Context) (*StatsReport, error) {
	year := time.Now().Year()
	prompt := fmt.Sprintf(seasonStatsPrompt, year, year)

	var report StatsReport
	if err := c.generateJSON(ctx, "season_stats", prompt, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *sdkClient) generate(ctx context.Context, operation, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.genaiClient.Models.GenerateContent(genCtx, c.modelName, contents, c.contentConfig)
	if err != nil {
		metrics.AIRequestDuration.WithLabelValues(operation, "error").Observe(time.Since(start).Seconds())
		c.log.ErrorContext(ctx, "Gemini API call failed", "operation", operation, "error", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	metrics.AIRequestDuration.WithLabelValues(operation, "ok").Observe(time.Since(start).Seconds())

	return c.extractText(ctx, operation, resp)
}

func (c *sdkClient) generateJSON(ctx context.Context, operation, prompt string, out any) error {
	text, err := c.generate(ctx, operation, prompt)
	if err != nil {
		return err
	}

	raw, ok := extractJSON(text)
	if !ok {
		c.log.ErrorContext(ctx, "No JSON object in Gemini response", "operation", operation, "response_text", text)
		return fmt.Errorf("%s: no JSON object in response", operation)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.log.ErrorContext(ctx, "Invalid JSON in Gemini response", "operation", operation, "error", err)
		return fmt.Errorf("%s: invalid JSON in response: %w", operation, err)
	}
	return nil
}

func (c *sdkClient) extractText(ctx context.Context, operation string, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "operation", operation, "reason", reason)
		return "", fmt.Errorf("%s blocked by safety filter: %s", operation, reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		c.log.WarnContext(ctx, "Gemini response missing content", "operation", operation)
		return "", fmt.Errorf("%s returned empty content", operation)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%s returned empty text", operation)
	}
	return text, nil
}

// extractJSON pulls a JSON object out of model output: a ```json fence
// when present, otherwise the first balanced brace span. Braces inside
// string literals are honored.
func extractJSON(text string) (string, bool) {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			candidate := strings.TrimSpace(rest[:end])
			if candidate != "" {
				return candidate, true
			}
		}
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// disabledClient is returned when no API key is configured.
type disabledClient struct{}

func (disabledClient) Available() bool { return false }

func (disabledClient) Chat(context.Context, string, textutil.Language) (string, error) {
	return "", ErrUnavailable
}

func (disabledClient) TeamInfo(context.Context, string) (*TeamReport, error) {
	return nil, ErrUnavailable
}

func (disabledClient) PlayerInfo(context.Context, string) (*PlayerReport, error) {
	return nil, ErrUnavailable
}

func (disabledClient) MatchInfo(context.Context, string, string) (*MatchReport, error) {
	return nil, ErrUnavailable
}

func (disabledClient) SeasonStats(context.Context) (*StatsReport, error) {
	return nil, ErrUnavailable
}
