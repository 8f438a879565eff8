// Package main contains the entrypoint for the IPL Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/vamshik/iplbot/internal/bot"
	"github.com/vamshik/iplbot/internal/bot/handlers"
	"github.com/vamshik/iplbot/internal/bot/tasks"
	"github.com/vamshik/iplbot/internal/config"
	"github.com/vamshik/iplbot/internal/conversation"
	"github.com/vamshik/iplbot/internal/gemini"
	"github.com/vamshik/iplbot/internal/httpapi"
	"github.com/vamshik/iplbot/internal/ipldata"
	"github.com/vamshik/iplbot/internal/logger"
	"github.com/vamshik/iplbot/internal/storage"
	"github.com/vamshik/iplbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the bot, and returns the
// process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "", "Path to configuration file (default ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	store := storage.Connect(ctx, storage.Config{
		PrimaryURI:       cfg.Storage.PrimaryURI,
		BackupURI:        cfg.Storage.BackupURI,
		Database:         cfg.Storage.Database,
		ProbeTimeout:     cfg.Storage.ProbeTimeout,
		OperationTimeout: cfg.Storage.OperationTimeout,
		Quota:            storage.ThresholdPolicy{ThresholdBytes: cfg.Storage.QuotaBytes},
	}, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("Failed to close storage client", "error", err)
		}
	}()
	log.Info("Storage tier ready", "mode", store.Mode().String())

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	catalog := ipldata.NewCatalog()
	banks := conversation.NewBanks()
	learned := conversation.NewLearnedStore(cfg.Conversation.LearnedPath, log)
	resolver := conversation.NewResolver(conversation.Config{
		AI:        gemClient,
		Learned:   learned,
		Banks:     banks,
		Catalog:   catalog,
		Store:     store,
		Logger:    log,
		AITimeout: cfg.Gemini.Timeout,
	})

	hDeps := handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Store:        store,
		GeminiClient: gemClient,
		Resolver:     resolver,
		Learned:      learned,
		Catalog:      catalog,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	defaultHandler := telegram.ApplyMiddleware(handlers.NewMessageHandler(hDeps), []tgbot.Middleware{
		handlers.BlacklistGate(hDeps),
		handlers.RateLimit(hDeps),
	})
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(defaultHandler),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	cfg.Telegram.BotID = me.ID
	cfg.Telegram.BotUsername = me.Username
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	httpServer := httpapi.NewServer(cfg.HTTP.Addr, store, log)

	app := bot.NewBot(log, cfg, store, tg, httpServer, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
