package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/vamshik/iplbot/internal/metrics"
	"github.com/vamshik/iplbot/internal/storage"
	"github.com/vamshik/iplbot/internal/textutil"
)

const welcomeMessage = `👋 Hello %s!

Welcome to the IPL Bot. I can provide you with information about IPL matches, players, teams, and statistics. I can also chat with you in Telugu!

Here are some commands you can use:
• /help - Show available commands
• /stats - Get IPL statistics
• /player <name> - Get player information
• /team <name> - Get team information
• /telugu - Switch to Telugu mode

You can also just chat with me normally, and I'll try to understand and respond!`

const helpMessage = `🤖 IPL Bot Commands

• /start - Start the bot
• /help - Show this help message
• /stats - Get IPL statistics
• /player <name> - Get player information
• /team <name> - Get team information
• /match <team1> vs <team2> - Get match information
• /telugu - Switch to Telugu mode
• /english - Switch back to English mode
• /admin - Admin commands (for admins only)

You can also just chat with me normally in English or Telugu, and I'll try to understand and respond!`

// commandArgs strips the leading /command token (and a possible
// @botname suffix) and returns the trimmed remainder.
func commandArgs(text string) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// touchUser upserts the sender's user record. Storage failures are
// already logged by the tier; commands proceed regardless.
func touchUser(ctx context.Context, deps HandlerDeps, from *models.User) {
	_ = deps.Store.UpsertUser(ctx, &storage.User{
		UserID:     from.ID,
		Username:   from.Username,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
		LastActive: time.Now().UTC(),
	})
}

// NewStartHandler returns the handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "start")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("start").Inc()
		touchUser(ctx, deps, update.Message.From)

		log.InfoContext(ctx, "Handling /start command", "user_id", update.Message.From.ID)
		reply(ctx, b, log, update.Message.Chat.ID, fmt.Sprintf(welcomeMessage, update.Message.From.FirstName))
	}
}

// NewHelpHandler returns the handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "help")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("help").Inc()
		reply(ctx, b, log, update.Message.Chat.ID, helpMessage)
	}
}

// NewStatsHandler returns the handler for the /stats command. The
// bundled season statistics are used directly; when the AI backend is
// available it is asked first for fresher numbers.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "stats")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("stats").Inc()
		chatID := update.Message.Chat.ID

		if deps.GeminiClient.Available() {
			if report, err := deps.GeminiClient.SeasonStats(ctx); err == nil {
				reply(ctx, b, log, chatID, fmt.Sprintf(
					"📊 IPL Statistics\n\n• Total Matches: %s\n• Most Wins: %s (%s wins)\n• Highest Score: %s (%s runs)\n• Most Runs: %s (%s runs)\n• Most Wickets: %s (%s wickets)",
					report.TotalMatches, report.MostWinsTeam, report.MostWinsCount,
					report.HighestScoreTeam, report.HighestScore,
					report.MostRunsPlayer, report.MostRuns,
					report.MostWicketsPlayer, report.MostWickets))
				return
			} else {
				log.WarnContext(ctx, "AI stats lookup failed, using bundled data", "error", err)
			}
		}

		stats := deps.Catalog.Stats()
		reply(ctx, b, log, chatID, fmt.Sprintf(
			"📊 IPL Statistics\n\n• Total Matches: %d\n• Most Wins: %s (%d wins)\n• Highest Score: %s (%d runs)\n• Most Runs: %s (%d runs)\n• Most Wickets: %s (%d wickets)",
			stats.TotalMatches, stats.MostWinsTeam, stats.MostWinsCount,
			stats.HighestScoreTeam, stats.HighestScore,
			stats.MostRunsPlayer, stats.MostRuns,
			stats.MostWicketsPlayer, stats.MostWickets))
	}
}

// NewPlayerHandler returns the handler for the /player <name> command.
func NewPlayerHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "player")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("player").Inc()
		chatID := update.Message.Chat.ID

		name := commandArgs(update.Message.Text)
		if name == "" {
			reply(ctx, b, log, chatID, "Usage: /player <name>")
			return
		}

		if player := deps.Catalog.FindPlayer(name); player != nil {
			reply(ctx, b, log, chatID, fmt.Sprintf(
				"🏏 %s\n\n• Team: %s\n• Role: %s\n• Matches: %s\n• Runs: %s\n• Wickets: %s",
				player.Name, player.Team, player.Role, player.Matches, player.Runs, player.Wickets))
			return
		}

		if deps.GeminiClient.Available() {
			if report, err := deps.GeminiClient.PlayerInfo(ctx, name); err == nil {
				reply(ctx, b, log, chatID, fmt.Sprintf(
					"🏏 %s\n\n• Team: %s\n• Role: %s\n• Matches: %s\n• Runs: %s\n• Wickets: %s\n• Country: %s\n• Recent: %s",
					report.Name, report.Team, report.Role, report.Matches,
					report.Runs, report.Wickets, report.Country, report.RecentPerformance))
				return
			} else {
				log.WarnContext(ctx, "AI player lookup failed", "player", name, "error", err)
			}
		}

		reply(ctx, b, log, chatID, fmt.Sprintf("Sorry, I couldn't find information about player '%s'.", name))
	}
}

// NewTeamHandler returns the handler for the /team <name> command.
func NewTeamHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "team")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("team").Inc()
		chatID := update.Message.Chat.ID

		name := commandArgs(update.Message.Text)
		if name == "" {
			reply(ctx, b, log, chatID, "Usage: /team <name>")
			return
		}

		if team := deps.Catalog.FindTeam(name); team != nil {
			reply(ctx, b, log, chatID, fmt.Sprintf(
				"🏆 %s\n\n• Full Name: %s\n• Home Ground: %s\n• Captain: %s\n• Championships: %s",
				team.Name, team.FullName, team.HomeGround, team.Captain, team.Championships))
			return
		}

		if deps.GeminiClient.Available() {
			if report, err := deps.GeminiClient.TeamInfo(ctx, name); err == nil {
				reply(ctx, b, log, chatID, fmt.Sprintf(
					"🏆 %s\n\n• Full Name: %s\n• Home Ground: %s\n• Captain: %s\n• Coach: %s\n• Championships: %s\n• Key Players: %s\n• Owner: %s",
					report.Name, report.FullName, report.HomeGround, report.Captain,
					report.Coach, report.Championships, report.KeyPlayers, report.Owner))
				return
			} else {
				log.WarnContext(ctx, "AI team lookup failed", "team", name, "error", err)
			}
		}

		reply(ctx, b, log, chatID, fmt.Sprintf("Sorry, I couldn't find information about team '%s'.", name))
	}
}

// NewMatchHandler returns the handler for /match <team1> vs <team2>.
func NewMatchHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "match")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("match").Inc()
		chatID := update.Message.Chat.ID

		args := commandArgs(update.Message.Text)
		team1, team2, ok := splitVersus(args)
		if !ok {
			reply(ctx, b, log, chatID, "Usage: /match <team1> vs <team2>")
			return
		}

		if match := deps.Catalog.FindMatch(team1, team2); match != nil {
			reply(ctx, b, log, chatID, fmt.Sprintf(
				"🏏 %s vs %s\n\n• Date: %s\n• Venue: %s\n• Result: %s",
				match.Team1, match.Team2, match.Date, match.Venue, match.Result))
			return
		}

		if deps.GeminiClient.Available() {
			if report, err := deps.GeminiClient.MatchInfo(ctx, team1, team2); err == nil {
				reply(ctx, b, log, chatID, fmt.Sprintf(
					"🏏 %s vs %s\n\n• Date: %s\n• Venue: %s\n• Result: %s\n• Highlights: %s",
					report.Team1, report.Team2, report.Date, report.Venue, report.Result, report.Highlights))
				return
			} else {
				log.WarnContext(ctx, "AI match lookup failed", "team1", team1, "team2", team2, "error", err)
			}
		}

		reply(ctx, b, log, chatID, fmt.Sprintf("Sorry, I couldn't find a match between '%s' and '%s'.", team1, team2))
	}
}

func splitVersus(args string) (string, string, bool) {
	for _, sep := range []string{" vs ", " versus ", " against "} {
		if idx := strings.Index(strings.ToLower(args), sep); idx >= 0 {
			team1 := strings.TrimSpace(args[:idx])
			team2 := strings.TrimSpace(args[idx+len(sep):])
			if team1 != "" && team2 != "" {
				return team1, team2, true
			}
		}
	}
	return "", "", false
}

// NewLanguageHandler returns a handler that stores the given language
// preference for the sender.
func NewLanguageHandler(deps HandlerDeps, language string) bot.HandlerFunc {
	log := deps.Logger.With("handler", "language")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues(language).Inc()
		userID := update.Message.From.ID
		chatID := update.Message.Chat.ID

		if err := deps.Store.SetLanguagePreference(ctx, userID, language); err != nil {
			log.ErrorContext(ctx, "Failed to store language preference", "user_id", userID, "error", err)
			reply(ctx, b, log, chatID, "Sorry, I couldn't update your language preference. Please try again.")
			return
		}

		log.InfoContext(ctx, "Language preference updated", "user_id", userID, "language", language)
		if textutil.ParseLanguage(language) == textutil.LanguageTelugu {
			reply(ctx, b, log, chatID, "తెలుగు మోడ్ ఎంచుకోబడింది. నేను ఇప్పుడు తెలుగులో సమాధానం ఇస్తాను.\n\nTelugu mode selected. I will now respond in Telugu.")
		} else {
			reply(ctx, b, log, chatID, "English mode selected. I will now respond in English.")
		}
	}
}
