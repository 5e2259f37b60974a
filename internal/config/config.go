package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Reconciler  ReconcilerConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Path string
}

// ReconcilerConfig holds the cadence of the background duties. The intervals
// mirror the mobile background tasks: missed-dose scan roughly every 15
// minutes, status backfill roughly daily.
type ReconcilerConfig struct {
	MissedDoseInterval time.Duration
	BackfillInterval   time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	scanMinutes, err := strconv.Atoi(getEnv("MISSED_DOSE_SCAN_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid MISSED_DOSE_SCAN_MINUTES: %w", err)
	}
	if scanMinutes <= 0 {
		return nil, fmt.Errorf("MISSED_DOSE_SCAN_MINUTES must be positive, got %d", scanMinutes)
	}

	backfillHours, err := strconv.Atoi(getEnv("STATUS_BACKFILL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_BACKFILL_HOURS: %w", err)
	}
	if backfillHours <= 0 {
		return nil, fmt.Errorf("STATUS_BACKFILL_HOURS must be positive, got %d", backfillHours)
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:8081"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "data/medic.db"),
		},
		Reconciler: ReconcilerConfig{
			MissedDoseInterval: time.Duration(scanMinutes) * time.Minute,
			BackfillInterval:   time.Duration(backfillHours) * time.Hour,
		},
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
