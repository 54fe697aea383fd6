package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DatabasePath string
	LogLevel     string
	DevMode      bool

	// Account
	InitialBalance float64

	// Risk limits
	MaxDailyLossPercent float64
	MaxOpenPositions    int
	MaxLotSize          float64
	MaxDailyTrades      int

	// Housekeeping
	CounterRetentionDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("GO_PORT", 8010),
		DatabasePath: getEnv("DATABASE_PATH", "./data/trades.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DevMode:      getEnvAsBool("DEV_MODE", false),

		InitialBalance: getEnvAsFloat("INITIAL_BALANCE", 10000),

		MaxDailyLossPercent: getEnvAsFloat("MAX_DAILY_LOSS_PERCENT", 5.0),
		MaxOpenPositions:    getEnvAsInt("MAX_OPEN_POSITIONS", 4),
		MaxLotSize:          getEnvAsFloat("MAX_LOT_SIZE", 1.0),
		MaxDailyTrades:      getEnvAsInt("MAX_DAILY_TRADES", 10),

		CounterRetentionDays: getEnvAsInt("COUNTER_RETENTION_DAYS", 7),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.InitialBalance <= 0 {
		return fmt.Errorf("INITIAL_BALANCE must be positive, got %.2f", c.InitialBalance)
	}

	if c.MaxDailyLossPercent <= 0 || c.MaxDailyLossPercent > 100 {
		return fmt.Errorf("MAX_DAILY_LOSS_PERCENT must be in (0, 100], got %.2f", c.MaxDailyLossPercent)
	}

	if c.MaxOpenPositions < 1 {
		return fmt.Errorf("MAX_OPEN_POSITIONS must be at least 1, got %d", c.MaxOpenPositions)
	}

	if c.MaxLotSize <= 0 {
		return fmt.Errorf("MAX_LOT_SIZE must be positive, got %.2f", c.MaxLotSize)
	}

	if c.MaxDailyTrades < 1 {
		return fmt.Errorf("MAX_DAILY_TRADES must be at least 1, got %d", c.MaxDailyTrades)
	}

	if c.CounterRetentionDays < 1 {
		return fmt.Errorf("COUNTER_RETENTION_DAYS must be at least 1, got %d", c.CounterRetentionDays)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
