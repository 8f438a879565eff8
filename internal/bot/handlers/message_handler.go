package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/vamshik/iplbot/internal/conversation"
	"github.com/vamshik/iplbot/internal/metrics"
	"github.com/vamshik/iplbot/internal/storage"
	"github.com/vamshik/iplbot/internal/textutil"
)

// NewMessageHandler returns the default handler for chat messages: it
// records the user and message, resolves a reply through the fallback
// chain, and sends it. Registered commands are claimed by their own
// handlers before this one runs, so unknown commands flow through the
// resolver like any other text. Bots and channel posts are ignored.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	log := deps.Logger.With("handler", "message")

	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.From == nil || msg.Text == "" {
			return
		}
		if msg.From.IsBot || msg.Chat.Type == models.ChatTypeChannel {
			return
		}

		isGroup := msg.Chat.Type == models.ChatTypeGroup || msg.Chat.Type == models.ChatTypeSupergroup
		chatType := "private"
		if isGroup {
			chatType = "group"
		}
		metrics.MessagesReceived.WithLabelValues(chatType).Inc()

		now := time.Now().UTC()
		touchUser(ctx, deps, msg.From)
		_ = deps.Store.AppendMessage(ctx, &storage.Message{
			UserID:    msg.From.ID,
			MessageID: int64(msg.ID),
			Text:      msg.Text,
			Timestamp: now,
			ChatID:    msg.Chat.ID,
			IsGroup:   isGroup,
		})

		preference := textutil.LanguageEnglish
		if user, err := deps.Store.GetUser(ctx, msg.From.ID); err == nil && user != nil {
			preference = textutil.ParseLanguage(user.LanguagePreference)
		}

		res := deps.Resolver.Resolve(ctx, conversation.Incoming{
			UserID:    msg.From.ID,
			MessageID: int64(msg.ID),
			ChatID:    msg.Chat.ID,
			Text:      msg.Text,
			IsGroup:   isGroup,
		}, preference)

		log.DebugContext(ctx, "Resolved reply", "source", string(res.Source), "language", string(res.Language))
		reply(ctx, b, log, msg.Chat.ID, res.Reply)
	}
}
