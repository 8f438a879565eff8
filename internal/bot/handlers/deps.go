// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"log/slog"

	"github.com/vamshik/iplbot/internal/config"
	"github.com/vamshik/iplbot/internal/conversation"
	"github.com/vamshik/iplbot/internal/gemini"
	"github.com/vamshik/iplbot/internal/ipldata"
	"github.com/vamshik/iplbot/internal/storage"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        *storage.Client
	GeminiClient gemini.Client
	Resolver     *conversation.Resolver
	Learned      *conversation.LearnedStore
	Catalog      *ipldata.Catalog
}
