package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
}

// StorageConfig holds case store settings
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // jsonfile or sqlite
	Path   string `mapstructure:"path"`   // JSON document path (jsonfile driver)
	DSN    string `mapstructure:"dsn"`    // connection string (sqlite driver)
}

// AnthropicConfig holds Claude API settings
type AnthropicConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// AnalysisConfig holds scoring pipeline settings
type AnalysisConfig struct {
	StageTimeout time.Duration `mapstructure:"stage_timeout"` // bound on each model call
}

// SourcesConfig holds all case acquisition source configurations
type SourcesConfig struct {
	RSS RSSConfig `mapstructure:"rss"`
}

// RSSConfig holds RSS feed settings
type RSSConfig struct {
	Enabled bool      `mapstructure:"enabled"`
	Feeds   []RSSFeed `mapstructure:"feeds"`
}

// RSSFeed represents a single RSS feed mapped to a platform
type RSSFeed struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Platform string `mapstructure:"platform"` // wechat, bilibili, weibo
}

// SchedulerConfig holds scheduler settings
type SchedulerConfig struct {
	IngestCron string `mapstructure:"ingest_cron"`
	HealthPort int    `mapstructure:"health_port"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// TrackerConfig holds Google Sheets tracker settings
type TrackerConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SheetName          string `mapstructure:"sheet_name"`
	CredentialsFile    string `mapstructure:"credentials_file"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".viral-studio"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("VIRAL")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("anthropic.api_key", "VIRAL_ANTHROPIC_API_KEY")
	v.BindEnv("storage.driver", "VIRAL_STORAGE_DRIVER")
	v.BindEnv("storage.path", "VIRAL_STORAGE_PATH")
	v.BindEnv("storage.dsn", "VIRAL_STORAGE_DSN")
	v.BindEnv("tracker.enabled", "VIRAL_TRACKER_ENABLED")
	v.BindEnv("tracker.spreadsheet_id", "VIRAL_TRACKER_SPREADSHEET_ID")
	v.BindEnv("tracker.credentials_file", "VIRAL_TRACKER_CREDENTIALS_FILE")
	v.BindEnv("tracker.service_account_json", "VIRAL_TRACKER_SERVICE_ACCOUNT_JSON")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("storage.driver", "jsonfile")
	v.SetDefault("storage.path", "./data/cases.json")
	v.SetDefault("storage.dsn", "./data/cases.db")

	// Anthropic defaults
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.7)

	// Analysis defaults
	v.SetDefault("analysis.stage_timeout", "60s")

	// Sources defaults
	v.SetDefault("sources.rss.enabled", false)

	// Scheduler defaults
	v.SetDefault("scheduler.ingest_cron", "0 */4 * * *") // Every 4 hours
	v.SetDefault("scheduler.health_port", 8080)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")

	// Tracker defaults
	v.SetDefault("tracker.enabled", false)
	v.SetDefault("tracker.sheet_name", "Cases")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required")
	}
	if c.Storage.Driver != "jsonfile" && c.Storage.Driver != "sqlite" {
		return fmt.Errorf("storage.driver must be jsonfile or sqlite, got %q", c.Storage.Driver)
	}
	return nil
}
