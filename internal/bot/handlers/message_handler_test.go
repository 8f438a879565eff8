package handlers_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/vamshik/iplbot/internal/bot/handlers"
	"github.com/vamshik/iplbot/internal/conversation"
	"github.com/vamshik/iplbot/internal/ipldata"
	"github.com/vamshik/iplbot/internal/storage"
)

// fakeTelegram serves just enough of the Bot API for handlers to send
// messages, counting every sendMessage call.
func fakeTelegram(t *testing.T, sendCount *atomic.Int64) *tgbot.Bot {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			sendCount.Add(1)
			w.Write([]byte(`{"ok":true,"result":{"message_id":500,"date":1,"chat":{"id":7,"type":"private"}}}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	t.Cleanup(ts.Close)

	b, err := tgbot.New("123:test-token", tgbot.WithServerURL(ts.URL), tgbot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("failed to create bot: %v", err)
	}
	return b
}

func TestMessageHandlerUnknownCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	store := storage.Connect(ctx, storage.Config{}, log)
	t.Cleanup(func() { store.Close(context.Background()) })

	resolver := conversation.NewResolver(conversation.Config{
		Banks:   conversation.NewBanks(),
		Catalog: ipldata.NewCatalog(),
		Store:   store,
		Logger:  log,
	})
	deps := handlers.HandlerDeps{
		Logger:   log,
		Store:    store,
		Resolver: resolver,
		Catalog:  ipldata.NewCatalog(),
	}

	var sent atomic.Int64
	b := fakeTelegram(t, &sent)
	handler := handlers.NewMessageHandler(deps)

	handler(ctx, b, &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   1234,
			From: &models.User{ID: 7, FirstName: "Asha", Username: "asha"},
			Chat: models.Chat{ID: 7, Type: models.ChatTypePrivate},
			Text: "/nonexistent-command-text",
		},
	})

	user, err := store.GetUser(ctx, 7)
	if err != nil || user == nil {
		t.Fatalf("GetUser = %v, %v; want an upserted user record", user, err)
	}
	if user.LastActive.IsZero() {
		t.Error("upserted user has no last_active timestamp")
	}

	msgs, err := store.GetUserMessages(ctx, 7, 10)
	if err != nil {
		t.Fatalf("GetUserMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("persisted %d messages, want inbound text plus bot reply", len(msgs))
	}

	var inbound, reply bool
	for _, m := range msgs {
		if m.IsBotResponse {
			reply = true
			if m.InResponseTo != 1234 {
				t.Errorf("bot reply InResponseTo = %d, want 1234", m.InResponseTo)
			}
			continue
		}
		inbound = true
		if m.Text != "/nonexistent-command-text" {
			t.Errorf("inbound text = %q, want the raw command text", m.Text)
		}
		if m.MessageID != 1234 {
			t.Errorf("inbound MessageID = %d, want 1234", m.MessageID)
		}
	}
	if !inbound || !reply {
		t.Errorf("persisted messages = inbound %v, reply %v; want both", inbound, reply)
	}

	if got := sent.Load(); got != 1 {
		t.Errorf("sendMessage called %d times, want 1", got)
	}
}

func TestMessageHandlerIgnoresBots(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	store := storage.Connect(ctx, storage.Config{}, log)
	t.Cleanup(func() { store.Close(context.Background()) })

	deps := handlers.HandlerDeps{
		Logger: log,
		Store:  store,
		Resolver: conversation.NewResolver(conversation.Config{
			Banks:   conversation.NewBanks(),
			Catalog: ipldata.NewCatalog(),
			Store:   store,
			Logger:  log,
		}),
	}

	var sent atomic.Int64
	b := fakeTelegram(t, &sent)
	handler := handlers.NewMessageHandler(deps)

	handler(ctx, b, &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   1,
			From: &models.User{ID: 8, IsBot: true},
			Chat: models.Chat{ID: 8, Type: models.ChatTypePrivate},
			Text: "hello",
		},
	})

	if user, err := store.GetUser(ctx, 8); err != nil || user != nil {
		t.Errorf("GetUser after bot message = %v, %v; want no record", user, err)
	}
	if got := sent.Load(); got != 0 {
		t.Errorf("sendMessage called %d times for a bot sender, want 0", got)
	}
}
