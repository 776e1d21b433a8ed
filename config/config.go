package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Codacy        CodacyConfig
	Output        OutputConfig
	Observability ObservabilityConfig
}

// CodacyConfig holds the Codacy API client configuration.
// APIToken may be empty; the remote API rejects unauthenticated requests
// with its own error payload, which the tool reports and persists as-is.
type CodacyConfig struct {
	BaseURL      string `validate:"required,url"`
	APIToken     string
	Provider     string `validate:"required"`
	Organization string `validate:"required"`
	Timeout      time.Duration
	MaxRetries   int `validate:"gte=0"`
	RetryDelay   time.Duration
}

// OutputConfig holds the export file configuration
type OutputConfig struct {
	Path string `validate:"required"`
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string `validate:"required"`
	LogFormat string `validate:"required,oneof=json console"`
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Codacy: CodacyConfig{
			BaseURL:      getEnv("CODACY_BASE_URL", "https://app.codacy.com"),
			APIToken:     getEnv("CODACY_API_TOKEN", ""),
			Provider:     getEnv("CODACY_PROVIDER", "gh"),
			Organization: getEnv("CODACY_ORGANIZATION", ""),
			Timeout:      getEnvAsDuration("CODACY_TIMEOUT", 30*time.Second),
			MaxRetries:   getEnvAsInt("CODACY_MAX_RETRIES", 1),
			RetryDelay:   getEnvAsDuration("CODACY_RETRY_DELAY", time.Second),
		},
		Output: OutputConfig{
			Path: getEnv("OUTPUT_FILE", "temp.json"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				msgs = append(msgs, describeFieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// TokenSupplied reports whether an API token was configured
func (c *CodacyConfig) TokenSupplied() bool {
	return c.APIToken != ""
}

var validate = validator.New()

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s validation failed on '%s' tag", field, fe.Tag())
	}
}

// Helper functions

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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
