package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Auth      AuthConfig
	Events    EventsConfig
	Drafts    DraftConfig
	Schedule  ScheduleConfig
	RateLimit RateLimitConfig
	Statement StatementConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"5001"`
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `env:"DB_PATH" envDefault:"./data/billboards.db"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost"`
}

// LogConfig controls the logrus level and output format.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// AuthConfig holds the shared secrets used by write endpoints and secret storage.
type AuthConfig struct {
	InternalAPIKey string `env:"INTERNAL_API_KEY"`
	// SecretKey is a base64 fernet key used to encrypt partner bank details.
	SecretKey string `env:"SECRET_KEY"`
}

// EventsConfig holds message broker settings. An empty URL disables AMQP publishing.
type EventsConfig struct {
	AMQPURL  string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"billboards"`
}

// DraftConfig controls debounced persistence of partnership drafts.
type DraftConfig struct {
	SaveDebounce time.Duration `env:"SAVE_DEBOUNCE" envDefault:"1500ms"`
}

// ScheduleConfig holds cron specs for background jobs.
type ScheduleConfig struct {
	Snapshot string `env:"SNAPSHOT_SCHEDULE" envDefault:"@daily"`
}

// RateLimitConfig limits write requests per client.
type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// StatementConfig controls statement rendering.
type StatementConfig struct {
	Locale           string        `env:"LOCALE" envDefault:"ar-LY"`
	SettingsCacheTTL time.Duration `env:"SETTINGS_CACHE_TTL" envDefault:"60s"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Drafts.SaveDebounce < 0 {
		return nil, fmt.Errorf("SAVE_DEBOUNCE must not be negative, got %s", config.Drafts.SaveDebounce)
	}
	if config.RateLimit.RPS <= 0 || config.RateLimit.Burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}
