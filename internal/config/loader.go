package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"

	DefaultStorageDatabase         = "ipl_bot_db"
	DefaultStorageProbeTimeout     = 5 * time.Second
	DefaultStorageOperationTimeout = 10 * time.Second
	DefaultStorageQuotaBytes       = 400 << 20

	DefaultGeminiModel       = "gemini-1.5-pro"
	DefaultGeminiTemperature = 0.7
	DefaultGeminiTimeout     = 30 * time.Second

	DefaultLearnedPath = "data/learned_responses.json"

	DefaultHTTPAddr = ":8080"

	DefaultRateLimitPerMinute = 20
	DefaultRateLimitBurst     = 5
)

// Load loads and validates configuration from:
// 1. Default values
// 2. .env file (if present)
// 3. config file (config.yaml by default)
// 4. BOT_* environment variables
func Load(configPath string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", false)

	v.SetDefault("storage.database", DefaultStorageDatabase)
	v.SetDefault("storage.probe_timeout", DefaultStorageProbeTimeout)
	v.SetDefault("storage.operation_timeout", DefaultStorageOperationTimeout)
	v.SetDefault("storage.quota_bytes", DefaultStorageQuotaBytes)

	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.timeout", DefaultGeminiTimeout)

	v.SetDefault("conversation.learned_path", DefaultLearnedPath)

	v.SetDefault("http.addr", DefaultHTTPAddr)

	v.SetDefault("rate_limit.per_minute", DefaultRateLimitPerMinute)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"storage_quota_check": {Schedule: "*/15 * * * *", Enabled: true},
		"usage_stats_report":  {Schedule: "0 6 * * *", Enabled: true},
	})
}

// IsAdmin reports whether the user is in the configured admin list.
func (c *TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
