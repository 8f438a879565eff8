// Package config manages application configuration from environment
// variables, config files, and default values.
package config

import (
	"time"
)

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g., BOT_TELEGRAM_TOKEN)
// or through config.yaml.
type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
}

// LogConfig controls log level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credentials and admin list. BotUsername
// and BotID are resolved at startup from the Telegram API, not from
// configuration.
type TelegramConfig struct {
	Token    string  `mapstructure:"token" validate:"required"`
	AdminIDs []int64 `mapstructure:"admin_ids"`

	BotUsername string `mapstructure:"-"`
	BotID       int64  `mapstructure:"-"`
}

// StorageConfig selects the persistence tier. An empty PrimaryURI puts
// the bot in in-memory mode from the start.
type StorageConfig struct {
	PrimaryURI       string        `mapstructure:"primary_uri"`
	BackupURI        string        `mapstructure:"backup_uri"`
	Database         string        `mapstructure:"database" validate:"required"`
	ProbeTimeout     time.Duration `mapstructure:"probe_timeout" validate:"min=1s,max=1m"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"min=1s,max=1m"`
	QuotaBytes       int64         `mapstructure:"quota_bytes" validate:"min=0"`
}

// GeminiConfig configures the AI integration. An empty APIKey disables
// AI responses entirely; the resolver chain covers for it.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model" validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"min=1s,max=5m"`
}

// ConversationConfig controls the learned-response store.
type ConversationConfig struct {
	LearnedPath string `mapstructure:"learned_path" validate:"required"`
}

// HTTPConfig configures the status and metrics server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// RateLimitConfig bounds per-user message throughput.
type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute" validate:"min=1"`
	Burst     int `mapstructure:"burst" validate:"min=1"`
}

// SchedulerConfig holds the cron schedule per background task, keyed by
// task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig is one scheduled task entry.
type TaskConfig struct {
	Schedule string `mapstructure:"schedule" validate:"required"`
	Enabled  bool   `mapstructure:"enabled"`
}
