package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppEnv string
	Port   string

	// Postgres
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string

	// Flight lookup API
	FlightAPIBaseURL string
	FlightAPIKey     string
	FlightAPITimeout time.Duration

	// Billing API (purchase provider)
	BillingAPIBaseURL   string
	BillingAPIKey       string
	BillingPollInterval time.Duration

	// Watchlist refresh
	RefreshConcurrency int64
	SnapshotTTL        time.Duration

	// Entitlement
	FreeTierQuota int

	// Cache
	CacheBackend string // "memory" or "redis"

	// Auth
	TokenSecret   string
	DeviceSecret  string
	TokenLifetime time.Duration
}

// Load reads configuration from the environment, with .env support for
// local development
func Load() *Config {
	godotenv.Load()

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     getEnv("PG_USER", "watchtower"),
		PGPassword: getEnv("PG_PASSWORD", ""),
		PGDatabase: getEnv("PG_DB", "watchtower"),

		FlightAPIBaseURL: getEnv("FLIGHT_API_BASE_URL", "https://api.flightdeck.dev/v1"),
		FlightAPIKey:     getEnv("FLIGHT_API_KEY", ""),
		FlightAPITimeout: time.Duration(getEnvAsInt("FLIGHT_API_TIMEOUT_SECONDS", 10)) * time.Second,

		BillingAPIBaseURL:   getEnv("BILLING_API_BASE_URL", "https://billing.flightdeck.dev/v1"),
		BillingAPIKey:       getEnv("BILLING_API_KEY", ""),
		BillingPollInterval: time.Duration(getEnvAsInt("BILLING_POLL_INTERVAL_SECONDS", 30)) * time.Second,

		RefreshConcurrency: int64(getEnvAsInt("REFRESH_CONCURRENCY", 8)),
		SnapshotTTL:        time.Duration(getEnvAsInt("SNAPSHOT_TTL_SECONDS", 120)) * time.Second,

		FreeTierQuota: getEnvAsInt("FREE_TIER_QUOTA", 1),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),

		TokenSecret:   getEnv("TOKEN_SECRET", ""),
		DeviceSecret:  getEnv("DEVICE_SECRET", ""),
		TokenLifetime: time.Duration(getEnvAsInt("TOKEN_LIFETIME_HOURS", 720)) * time.Hour,
	}
}

// PostgresDSN builds the connection string shared by sqlx and GORM
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.PGUser + ":" + c.PGPassword + "@" + c.PGHost + ":" + c.PGPort + "/" + c.PGDatabase + "?sslmode=disable"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
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
