package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Database DatabaseConfig
}

// PipelineConfig holds orchestration-related configuration
type PipelineConfig struct {
	Incremental         bool
	StateFile           string
	MappingPath         string
	ConfidenceThreshold float64
	Workers             int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Enabled        bool
	Binary         string
	Timeout        time.Duration
	MaxConcurrency int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// DatabaseConfig holds results-loader configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Incremental:         getEnvAsBool("PIPELINE_INCREMENTAL", false),
			StateFile:           getEnv("PIPELINE_STATE_FILE", ""),
			MappingPath:         getEnv("FILE_MAPPING_PATH", ""),
			ConfidenceThreshold: getEnvAsFloat64("CONFIDENCE_THRESHOLD", 0.5),
			Workers:             getEnvAsInt("PIPELINE_WORKERS", 1),
		},
		OCR: OCRConfig{
			Enabled:        getEnvAsBool("OCR_ENABLED", true),
			Binary:         getEnv("OCR_BINARY", "ocrmypdf"),
			Timeout:        getEnvAsDuration("OCR_TIMEOUT", 300*time.Second),
			MaxConcurrency: getEnvAsInt("OCR_MAX_CONCURRENCY", 1),
		},
		LLM: LLMConfig{
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
	}
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
		switch value {
		case "1", "true", "yes", "y", "TRUE", "True", "YES", "Y":
			return true
		case "0", "false", "no", "n", "FALSE", "False", "NO", "N":
			return false
		}
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.ConfidenceThreshold < 0 || c.Pipeline.ConfidenceThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "CONFIDENCE_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	if c.Pipeline.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_WORKERS must be >= 1", ErrInvalidInput)
	}
	if c.OCR.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_TIMEOUT must be positive", ErrInvalidInput)
	}
	return nil
}
