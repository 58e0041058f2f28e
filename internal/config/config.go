package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver       string
	DBConnection   string
	MigrateOnStart bool

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Goal service
	HistoryLimit   int
	RateLimitRPS   float64
	RateLimitBurst int

	// Live feed (optional, shares the feed between instances)
	RedisURL    string
	FeedChannel string

	// Observability (optional)
	SentryDSN string
}

// ClientConfig drives the questctl dashboard client.
type ClientConfig struct {
	AppEnv          string
	APIBase         string
	APIToken        string
	APITimeout      time.Duration
	LoadConcurrency int
	ReminderLimit   int
	Timezone        string

	// Only needed to mint tokens locally.
	JWTSecret string
	JWTExpiry time.Duration

	SentryDSN string
}

func Load() *Config {
	loadDotenv()

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Questlog"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:       envString("DB_DRIVER", "sqlite"),
		DBConnection:   envString("DB_CONNECTION", "./data/questlog.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"),
		MigrateOnStart: envBool("MIGRATE_ON_START", true),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Goal service
		HistoryLimit:   envInt("HISTORY_LIMIT", 14),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 20),

		// Live feed
		RedisURL:    envString("REDIS_URL", ""),
		FeedChannel: envString("FEED_CHANNEL", "questlog:activities"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

func LoadClient() *ClientConfig {
	loadDotenv()

	return &ClientConfig{
		AppEnv:          envString("APP_ENV", "development"),
		APIBase:         envString("API_BASE", "http://localhost:8090"),
		APIToken:        envString("API_TOKEN", ""),
		APITimeout:      envDuration("API_TIMEOUT", 10*time.Second),
		LoadConcurrency: envInt("LOAD_CONCURRENCY", 4),
		ReminderLimit:   envInt("REMINDER_LIMIT", 5),
		Timezone:        envString("TIMEZONE", ""),
		JWTSecret:       envString("JWT_SECRET", ""),
		JWTExpiry:       envDuration("JWT_EXPIRY", 168*time.Hour),
		SentryDSN:       envString("SENTRY_DSN", ""),
	}
}

func loadDotenv() {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

// validateProduction refuses settings that are only acceptable for local
// testing.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 bytes")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *ClientConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}
