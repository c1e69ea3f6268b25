package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the research backend.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; empty URL disables report history)
	Database DatabaseConfig

	// Redis (optional report cache)
	Redis RedisConfig

	// Free data sources
	Sources SourcesConfig

	// Research pipeline
	Pipeline PipelineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether report history persistence is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SourcesConfig holds the endpoints of the free providers.
//
// SECUserAgent must identify the operator with a contact address; EDGAR
// rejects anonymous clients.
type SourcesConfig struct {
	YahooBaseURL      string
	SECBaseURL        string
	SECUserAgent      string
	GoogleNewsBaseURL string
	StooqBaseURL      string
	BenchmarkSymbol   string
}

// PipelineConfig holds knobs for report assembly.
type PipelineConfig struct {
	WindowDays    int
	ModuleTimeout time.Duration
	HeadlineLimit int
	ScoringPath   string
	CacheTTL      time.Duration
	Watchlist     []string
	RefreshCron   string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Sources: SourcesConfig{
			YahooBaseURL:      getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			SECBaseURL:        getEnv("SEC_BASE_URL", "https://www.sec.gov"),
			SECUserAgent:      getEnv("SEC_USER_AGENT", "OpenResearch/1.0 (contact: research@example.com)"),
			GoogleNewsBaseURL: getEnv("GOOGLE_NEWS_BASE_URL", "https://news.google.com"),
			StooqBaseURL:      getEnv("STOOQ_BASE_URL", "https://stooq.com"),
			BenchmarkSymbol:   getEnv("BENCHMARK_SYMBOL", "^spx"),
		},

		Pipeline: PipelineConfig{
			WindowDays:    getEnvAsInt("RESEARCH_WINDOW_DAYS", 365),
			ModuleTimeout: getEnvAsDuration("MODULE_TIMEOUT", "20s"),
			HeadlineLimit: getEnvAsInt("HEADLINE_LIMIT", 8),
			ScoringPath:   getEnv("SCORING_CONFIG", "configs/scoring.yaml"),
			CacheTTL:      getEnvAsDuration("REPORT_CACHE_TTL", "10m"),
			Watchlist:     getEnvAsList("WATCHLIST"),
			RefreshCron:   getEnv("REFRESH_CRON", "0 0 6 * * *"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.WindowDays <= 0 {
		return fmt.Errorf("RESEARCH_WINDOW_DAYS must be positive")
	}

	if c.Pipeline.ModuleTimeout <= 0 {
		return fmt.Errorf("MODULE_TIMEOUT must be positive")
	}

	if c.Pipeline.HeadlineLimit <= 0 {
		return fmt.Errorf("HEADLINE_LIMIT must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

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

// getEnvAsList parses a comma-separated env value into trimmed entries.
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}
