package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment with
// an optional .env file for development.
type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// DatabaseUrl points at the record store. Empty selects the in-memory
	// store (dev/test only).
	DatabaseUrl string

	// NatsUrl enables order-created event publishing. Empty disables it.
	NatsUrl string

	// CartDataDir is where per-session carts are mirrored. Empty selects the
	// in-memory mirror.
	CartDataDir string

	// GiftWrapSurcharge is the fixed amount added to a line's unit price when
	// gift wrap is requested.
	GiftWrapSurcharge float64

	// AdminToken protects the back-office routes. Empty disables the check
	// (dev only).
	AdminToken string
}

// NewConfig loads configuration from the environment.
func NewConfig() (*Config, error) {
	// Try to load .env from the current directory, then walk up (max 2 levels).
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:               getEnv("ENV", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnvPort("PORT", 3000),
		DatabaseUrl:       getEnv("DATABASE_URL", ""),
		NatsUrl:           getEnv("NATS_URL", ""),
		CartDataDir:       getEnv("CART_DATA_DIR", "./data/carts"),
		GiftWrapSurcharge: getEnvFloat("GIFT_WRAP_SURCHARGE", 10),
		AdminToken:        getEnv("ADMIN_TOKEN", ""),
	}

	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" && cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set in production environment")
	}

	if cfg.Env == "prod" && cfg.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN must be set in production environment")
	}

	if cfg.GiftWrapSurcharge < 0 {
		return nil, fmt.Errorf("GIFT_WRAP_SURCHARGE must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvPort(key string, defaultValue uint16) uint16 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		slog.Default().Warn("Invalid port value. Using default", slog.String("key", key), slog.String("value", value))
		return defaultValue
	}

	return uint16(n)
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Default().Warn("Invalid numeric value. Using default", slog.String("key", key), slog.String("value", value))
		return defaultValue
	}

	return f
}
