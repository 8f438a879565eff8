// Package tasks implements the bot's scheduled background tasks.
package tasks

import (
	"log/slog"

	"github.com/vamshik/iplbot/internal/config"
	"github.com/vamshik/iplbot/internal/storage"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  *storage.Client
	Config *config.Config
}
