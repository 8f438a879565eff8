package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/vamshik/iplbot/internal/metrics"
	"github.com/vamshik/iplbot/internal/textutil"
)

const adminHelpMessage = `🔐 Admin Commands

• /stats_admin - Get bot usage statistics
• /broadcast <message> - Send a message to all users
• /blacklist <user_id> - Blacklist a user
• /whitelist <user_id> - Remove a user from blacklist
• /db_status - Check storage status
• /set_response <trigger>:<response> - Set custom response
• /learn_response [telugu] <text>:<response> - Teach a learned response`

// NewAdminHelpHandler returns the handler for the /admin command.
func NewAdminHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "admin")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("admin").Inc()
		reply(ctx, b, log, update.Message.Chat.ID, adminHelpMessage)
	}
}

// NewAdminStatsHandler returns the handler for /stats_admin.
func NewAdminStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "stats_admin")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("stats_admin").Inc()
		chatID := update.Message.Chat.ID

		stats, err := deps.Store.UsageStats(ctx)
		if err != nil {
			reply(ctx, b, log, chatID, "Error retrieving statistics. Please try again later.")
			return
		}

		reply(ctx, b, log, chatID, fmt.Sprintf(
			"📊 Bot Statistics\n\n• Total Users: %d\n• Active Users (24h): %d\n• Total Messages: %d\n• Recent Messages (24h): %d\n• Data Size: %.2f MB\n• Storage Mode: %s",
			stats.TotalUsers, stats.ActiveUsers24h, stats.TotalMessages, stats.Messages24h,
			float64(stats.DataSizeBytes)/(1024*1024), stats.Mode.String()))
	}
}

// NewBroadcastHandler returns the handler for /broadcast <message>.
// Per-user send failures are tolerated and counted.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "broadcast")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("broadcast").Inc()
		chatID := update.Message.Chat.ID

		message := commandArgs(update.Message.Text)
		if message == "" {
			reply(ctx, b, log, chatID, "Usage: /broadcast <message>")
			return
		}

		userIDs, err := deps.Store.ListUserIDs(ctx)
		if err != nil {
			reply(ctx, b, log, chatID, "Error retrieving user list. Please try again later.")
			return
		}

		reply(ctx, b, log, chatID, fmt.Sprintf("Broadcasting message to %d users...", len(userIDs)))

		sent, failed := 0, 0
		for _, userID := range userIDs {
			_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: userID, Text: message})
			if err != nil {
				log.WarnContext(ctx, "Failed to send broadcast", "user_id", userID, "error", err)
				failed++
				continue
			}
			sent++
		}

		log.InfoContext(ctx, "Broadcast completed", "sent", sent, "failed", failed)
		reply(ctx, b, log, chatID, fmt.Sprintf("Broadcast completed. Sent to %d users. Failed: %d", sent, failed))
	}
}

// NewBlacklistHandler returns the handler for /blacklist <user_id>.
func NewBlacklistHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "blacklist")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("blacklist").Inc()
		chatID := update.Message.Chat.ID

		userID, err := strconv.ParseInt(commandArgs(update.Message.Text), 10, 64)
		if err != nil {
			reply(ctx, b, log, chatID, "Usage: /blacklist <user_id>")
			return
		}

		added, err := deps.Store.AddToBlacklist(ctx, userID, update.Message.From.ID)
		if err != nil {
			reply(ctx, b, log, chatID, "Error blacklisting user. Please try again later.")
			return
		}
		if !added {
			reply(ctx, b, log, chatID, fmt.Sprintf("User %d is already blacklisted.", userID))
			return
		}
		reply(ctx, b, log, chatID, fmt.Sprintf("User %d has been blacklisted.", userID))
	}
}

// NewWhitelistHandler returns the handler for /whitelist <user_id>.
func NewWhitelistHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "whitelist")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("whitelist").Inc()
		chatID := update.Message.Chat.ID

		userID, err := strconv.ParseInt(commandArgs(update.Message.Text), 10, 64)
		if err != nil {
			reply(ctx, b, log, chatID, "Usage: /whitelist <user_id>")
			return
		}

		removed, err := deps.Store.RemoveFromBlacklist(ctx, userID)
		if err != nil {
			reply(ctx, b, log, chatID, "Error whitelisting user. Please try again later.")
			return
		}
		if !removed {
			reply(ctx, b, log, chatID, fmt.Sprintf("User %d is not blacklisted.", userID))
			return
		}
		reply(ctx, b, log, chatID, fmt.Sprintf("User %d has been removed from the blacklist.", userID))
	}
}

// NewDBStatusHandler returns the handler for /db_status.
func NewDBStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "db_status")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("db_status").Inc()
		chatID := update.Message.Chat.ID

		stats, err := deps.Store.UsageStats(ctx)
		if err != nil {
			reply(ctx, b, log, chatID, "Error retrieving storage status. Please try again later.")
			return
		}

		reply(ctx, b, log, chatID, fmt.Sprintf(
			"🗄️ Storage Status\n\n• Mode: %s\n• Data Size: %.2f MB\n• Users: %d\n• Messages: %d",
			stats.Mode.String(), float64(stats.DataSizeBytes)/(1024*1024),
			stats.TotalUsers, stats.TotalMessages))
	}
}

// NewSetResponseHandler returns the handler for
// /set_response <trigger>:<response>, stored in the main storage tier.
func NewSetResponseHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "set_response")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("set_response").Inc()
		chatID := update.Message.Chat.ID

		trigger, response, ok := splitColonPair(commandArgs(update.Message.Text))
		if !ok {
			reply(ctx, b, log, chatID, "Usage: /set_response <trigger>:<response>")
			return
		}

		created, err := deps.Store.UpsertCustomResponse(ctx, trigger, response, update.Message.From.ID)
		if err != nil {
			reply(ctx, b, log, chatID, "Error setting custom response. Please try again later.")
			return
		}
		if created {
			reply(ctx, b, log, chatID, fmt.Sprintf("Added new response for trigger '%s'.", trigger))
			return
		}
		reply(ctx, b, log, chatID, fmt.Sprintf("Updated response for trigger '%s'.", trigger))
	}
}

// NewLearnResponseHandler returns the handler for
// /learn_response [telugu] <text>:<response>, stored in the learned
// table file.
func NewLearnResponseHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "learn_response")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		metrics.CommandsExecuted.WithLabelValues("learn_response").Inc()
		chatID := update.Message.Chat.ID

		args := commandArgs(update.Message.Text)
		language := textutil.LanguageEnglish
		if rest, found := strings.CutPrefix(args, "telugu "); found {
			language = textutil.LanguageTelugu
			args = rest
		}

		text, response, ok := splitColonPair(args)
		if !ok {
			reply(ctx, b, log, chatID, "Usage: /learn_response [telugu] <text>:<response>")
			return
		}

		if err := deps.Learned.Learn(text, response, language); err != nil {
			reply(ctx, b, log, chatID, "Error learning response. Please try again later.")
			return
		}
		log.InfoContext(ctx, "Learned response", "language", string(language))
		reply(ctx, b, log, chatID, fmt.Sprintf("Learned a %s response for '%s'.", language, text))
	}
}

func splitColonPair(args string) (string, string, bool) {
	idx := strings.Index(args, ":")
	if idx <= 0 {
		return "", "", false
	}
	left := strings.TrimSpace(args[:idx])
	right := strings.TrimSpace(args[idx+1:])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}
