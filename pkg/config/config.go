package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	SourceAPI  SourceAPIConfig
	Reconciler ReconcilerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds Redis configuration for the snapshot cache
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SourceAPIConfig holds the upstream meeting bot API configuration
type SourceAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ReconcilerConfig tunes the polling loop and the transcript trigger.
// Loaded from RECONCILER_* environment variables.
type ReconcilerConfig struct {
	PollInterval         time.Duration `envconfig:"POLL_INTERVAL" default:"15s"`
	TranscriptMaxRetries int           `envconfig:"TRANSCRIPT_MAX_RETRIES" default:"3"`
	TriggerWorkers       int           `envconfig:"TRIGGER_WORKERS" default:"4"`
	RecordingMinAge      time.Duration `envconfig:"RECORDING_MIN_AGE" default:"2m"`
	SnapshotTTL          time.Duration `envconfig:"SNAPSHOT_TTL" default:"24h"`
}

// Load reads configuration from the environment. A .env file is loaded
// first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "meeting_reconciler"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SourceAPI: SourceAPIConfig{
			BaseURL: getEnv("SOURCE_API_URL", ""),
			APIKey:  getEnv("SOURCE_API_KEY", ""),
			Timeout: getEnvAsDuration("SOURCE_API_TIMEOUT", 30*time.Second),
		},
	}

	if err := envconfig.Process("RECONCILER", &cfg.Reconciler); err != nil {
		return nil, fmt.Errorf("failed to process reconciler config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required configuration values
func (c *Config) Validate() error {
	if c.SourceAPI.BaseURL == "" {
		return fmt.Errorf("SOURCE_API_URL is required")
	}
	if c.Reconciler.PollInterval <= 0 {
		return fmt.Errorf("RECONCILER_POLL_INTERVAL must be positive")
	}
	if c.Reconciler.TriggerWorkers <= 0 {
		return fmt.Errorf("RECONCILER_TRIGGER_WORKERS must be positive")
	}
	return nil
}

// GetDatabaseDSN builds the PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr builds the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
