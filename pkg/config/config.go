package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; persistence is skipped when URL is empty)
	Database DatabaseConfig

	// Redis (optional; the engine falls back to the in-process cache)
	Redis RedisConfig

	// External API
	TwelveData TwelveDataConfig

	// Screening
	Screening ScreeningConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// TwelveDataConfig holds TwelveData API configuration
type TwelveDataConfig struct {
	APIKey  string
	BaseURL string

	// Client-side budget against the provider's credit limit
	CreditsPerMinute int

	// Deadline for a single upstream call; an exceeded deadline counts
	// as that sub-call's failure, not a fatal error
	CallTimeout time.Duration
}

// ScreeningConfig holds screening run parameters
type ScreeningConfig struct {
	CacheTTL   time.Duration // shared TTL for cached gateway responses
	MaxSymbols int           // cap on universe size per run
	Limit      int           // top-N results returned
	Workers    int           // concurrent symbol aggregations
	Schedule   string        // cron expression for the scheduled run
}

// Load reads configuration from environment variables
// ⭐ SSOT: only this function calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External API
		TwelveData: TwelveDataConfig{
			APIKey:           getEnv("TWELVEDATA_API_KEY", ""),
			BaseURL:          getEnv("TWELVEDATA_BASE_URL", "https://api.twelvedata.com"),
			CreditsPerMinute: getEnvAsInt("TWELVEDATA_CREDITS_PER_MINUTE", 55),
			CallTimeout:      getEnvAsDuration("TWELVEDATA_CALL_TIMEOUT", "10s"),
		},

		// Screening
		Screening: ScreeningConfig{
			CacheTTL:   getEnvAsDuration("SCREEN_CACHE_TTL", "5m"),
			MaxSymbols: getEnvAsInt("SCREEN_MAX_SYMBOLS", 100),
			Limit:      getEnvAsInt("SCREEN_LIMIT", 10),
			Workers:    getEnvAsInt("SCREEN_WORKERS", 5),
			Schedule:   getEnv("SCREEN_SCHEDULE", "0 0 7 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.TwelveData.APIKey == "" {
		return fmt.Errorf("TWELVEDATA_API_KEY is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Screening.Workers <= 0 {
		return fmt.Errorf("SCREEN_WORKERS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
