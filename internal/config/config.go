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
	DataFile    string
	Analysis    AnalysisConfig
}

// AnalysisConfig holds the external analysis service settings
type AnalysisConfig struct {
	BaseURL    string
	APIVersion string
	AppID      string
	Timeout    time.Duration
	MaxRetries int
}

// Validate reports whether the adapter has enough configuration to attempt
// a call. Base URL and app ID are both required; everything else defaults.
func (a AnalysisConfig) Validate() bool {
	return a.BaseURL != "" && a.AppID != ""
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	timeoutSeconds, err := strconv.Atoi(getEnv("API_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	maxRetries, err := strconv.Atoi(getEnv("ANALYSIS_MAX_RETRIES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYSIS_MAX_RETRIES: %w", err)
	}

	analysisConfig := AnalysisConfig{
		BaseURL:    getEnv("SUPERWISE_API_URL", ""),
		APIVersion: getEnv("SUPERWISE_API_VERSION", ""),
		AppID:      getEnv("SUPERWISE_APP_ID", ""),
		Timeout:    time.Duration(timeoutSeconds) * time.Second,
		MaxRetries: maxRetries,
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:4200"),
		Environment: getEnv("NODE_ENV", "development"),
		DataFile:    getEnv("DATA_FILE", "assets/synthetic_ehr_data.csv"),
		Analysis:    analysisConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
