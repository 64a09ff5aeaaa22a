package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	InputDir     string
	OutputDir    string
	OutputFormat string // "excel", "csv" or "json"
	TemplateDir  string
	LogLevel     string
	LedgerPath   string // empty disables the run ledger
	SkipHidden   bool
}

// LoadConfig loads configuration from environment variables. CLI flags are
// applied on top of this by the command entry point.
func LoadConfig() *Config {
	cfg := &Config{
		InputDir:     getEnv("CMS_INPUT_DIR", "input"),
		OutputDir:    getEnv("CMS_OUTPUT_DIR", "output"),
		OutputFormat: getEnv("CMS_OUTPUT_FORMAT", "excel"),
		TemplateDir:  getEnv("CMS_TEMPLATE_DIR", "templates"),
		LogLevel:     getEnv("CMS_LOG_LEVEL", "info"),
		SkipHidden:   getEnvAsBool("CMS_SKIP_HIDDEN", true),
	}
	cfg.LedgerPath = getEnv("CMS_LEDGER", "")
	return cfg
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return NewAppError("CONFIG_ERROR", "input directory is required", ErrInvalidInput)
	}
	if c.OutputDir == "" {
		return NewAppError("CONFIG_ERROR", "output directory is required", ErrInvalidInput)
	}
	switch c.OutputFormat {
	case "excel", "csv", "json":
	default:
		return NewAppError("CONFIG_ERROR", "output format must be excel, csv or json", ErrInvalidInput)
	}
	return nil
}
