// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Pagination
	PageDefaultSize int    `mapstructure:"PAGE_DEFAULT_SIZE"`
	PageDefaultSort string `mapstructure:"PAGE_DEFAULT_SORT"`
	PageDefaultDir  string `mapstructure:"PAGE_DEFAULT_DIR"`
	URLBasePath     string `mapstructure:"URL_BASE_PATH"`

	// Cron Jobs
	CatalogReindexSchedule  string `mapstructure:"CATALOG_REINDEX_SCHEDULE"`
	CatalogReindexBatchSize int    `mapstructure:"CATALOG_REINDEX_BATCH_SIZE"`

	// Elasticsearch Configuration
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "catalog_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_SOURCE", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("PAGE_DEFAULT_SIZE", 20)
	v.SetDefault("PAGE_DEFAULT_SORT", "id")
	v.SetDefault("PAGE_DEFAULT_DIR", "desc")
	v.SetDefault("URL_BASE_PATH", "")

	v.SetDefault("CATALOG_REINDEX_SCHEDULE", "@hourly")
	v.SetDefault("CATALOG_REINDEX_BATCH_SIZE", 100)

	// Empty disables search and the reindex job.
	v.SetDefault("ELASTICSEARCH_URL", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// The env values are plain integers, so the durations are built here
	// rather than decoded by Unmarshal.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "postgres":
		if strings.TrimSpace(cfg.DBSource) == "" {
			cfg.DBSource = cfg.PostgresDSN()
		}
	case "sqlite":
		if strings.TrimSpace(cfg.DBSource) == "" {
			return nil, fmt.Errorf("FATAL: DB_SOURCE must be set when DB_DRIVER is sqlite")
		}
	default:
		return nil, fmt.Errorf("FATAL: unsupported DB_DRIVER %q (expected postgres or sqlite)", cfg.DBDriver)
	}

	if cfg.PageDefaultSize < 1 {
		return nil, fmt.Errorf("FATAL: PAGE_DEFAULT_SIZE must be at least 1, got %d", cfg.PageDefaultSize)
	}
	if cfg.CatalogReindexBatchSize < 1 {
		return nil, fmt.Errorf("FATAL: CATALOG_REINDEX_BATCH_SIZE must be at least 1, got %d", cfg.CatalogReindexBatchSize)
	}

	return &cfg, nil
}

// PostgresDSN builds the GORM postgres DSN from the individual DB_* settings.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}
