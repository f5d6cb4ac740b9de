package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the share ledger service.
type Config struct {
	Port              int
	LogLevel          string
	PriceHistoryDepth int
	ListingPageLimit  int
	DatabaseURL       string // optional; enables the Postgres event log
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads configuration from the environment, applies defaults, and
// validates values. A .env file in the working directory is loaded first
// when present; real environment variables take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	priceHistoryDepth, err := getInt("PRICE_HISTORY_DEPTH", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_HISTORY_DEPTH: %w", err)
	}
	if priceHistoryDepth <= 0 {
		return nil, fmt.Errorf("invalid PRICE_HISTORY_DEPTH: %d, must be positive", priceHistoryDepth)
	}

	listingPageLimit, err := getInt("LISTING_PAGE_LIMIT", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid LISTING_PAGE_LIMIT: %w", err)
	}
	if listingPageLimit <= 0 {
		return nil, fmt.Errorf("invalid LISTING_PAGE_LIMIT: %d, must be positive", listingPageLimit)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:              port,
		LogLevel:          logLevel,
		PriceHistoryDepth: priceHistoryDepth,
		ListingPageLimit:  listingPageLimit,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ShutdownTimeout:   shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
