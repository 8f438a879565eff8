// Package bot implements lifecycle management and component
// orchestration for the IPL Telegram bot.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/vamshik/iplbot/internal/config"
	"github.com/vamshik/iplbot/internal/httpapi"
	"github.com/vamshik/iplbot/internal/storage"
)

// Bot is the top-level application: the Telegram listener, the HTTP
// status server, and the task scheduler, sharing one storage client.
type Bot struct {
	logger     *slog.Logger
	cfg        *config.Config
	store      *storage.Client
	tgBot      *tgbot.Bot
	httpServer *httpapi.Server
	scheduler  *Scheduler
}

// NewBot wires the application components together.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	store *storage.Client,
	tgBot *tgbot.Bot,
	httpServer *httpapi.Server,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:     logger.With("component", "bot_orchestrator"),
		cfg:        cfg,
		store:      store,
		tgBot:      tgBot,
		httpServer: httpServer,
		scheduler:  scheduler,
	}
}

// Run starts all components and blocks until the context is canceled
// or a component fails. Shutdown is graceful: the scheduler drains its
// jobs and the HTTP server finishes in-flight requests.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		return b.httpServer.Run(gCtx)
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
