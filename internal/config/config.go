package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"` // current application environment (local, dev, production)
	TelegramAPIToken string  `mapstructure:"-"`   // Telegram API token loaded from environment
	Assets           Assets  `mapstructure:"assets"`
	Storage          Storage `mapstructure:"storage"`
	DB               DB      `mapstructure:"database"`
	Cloud            Cloud   `mapstructure:"cloud"`
	Discord          Discord `mapstructure:"-"`
}

// Assets points at the static content files.
type Assets struct {
	ChaptersPath string `mapstructure:"chapters_path"` // path to JSON file with the chapter catalog
	ScriptsPath  string `mapstructure:"scripts_path"`  // path to JSON file with the chatbot scripts
}

// Storage selects and configures the key-value store backend.
type Storage struct {
	Driver   string `mapstructure:"driver"`    // "file", "postgres" or "memory"
	FilePath string `mapstructure:"file_path"` // store file location for the file driver
}

// DB contains database-related configuration parameters (postgres driver only).
type DB struct {
	URL             string        `mapstructure:"-"` // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// Cloud configures the optional best-effort Supabase mirror.
type Cloud struct {
	Enabled               bool   `mapstructure:"enabled"`
	EnforceUniqueNickname bool   `mapstructure:"enforce_unique_nickname"`
	MirrorSchedule        string `mapstructure:"mirror_schedule"` // cron spec for the periodic re-mirror
	URL                   string `mapstructure:"-"`               // Supabase project URL from environment
	Key                   string `mapstructure:"-"`               // Supabase anon key from environment
}

// Discord configures the error webhook sink.
type Discord struct {
	WebhookURL string // optional, reporting is disabled when empty
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("assets.chapters_path", "assets/data/chapters.json")
	v.SetDefault("assets.scripts_path", "assets/data/scripts.json")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.file_path", "data/escape_game.json")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("cloud.enabled", false)
	v.SetDefault("cloud.enforce_unique_nickname", true)
	v.SetDefault("cloud.mirror_schedule", "@hourly")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("supabase_url", "SUPABASE_URL")
	_ = v.BindEnv("supabase_key", "SUPABASE_KEY")
	_ = v.BindEnv("discord_webhook_url", "DISCORD_WEBHOOK_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.Storage.Driver == "postgres" && cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Cloud.URL = v.GetString("supabase_url")
	cfg.Cloud.Key = v.GetString("supabase_key")
	if cfg.Cloud.Enabled && (cfg.Cloud.URL == "" || cfg.Cloud.Key == "") {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Discord.WebhookURL = v.GetString("discord_webhook_url")

	return &cfg, nil
}
