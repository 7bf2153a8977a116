package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Pipeline PipelineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig holds run-history store configuration
type StoreConfig struct {
	Path string // SQLite file path; empty disables run history
}

// PipelineConfig holds extraction policy configuration
type PipelineConfig struct {
	ProfilePath string // optional JSON profile document
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("BOL_HTTP_ADDR", ":8080"),
			ReadTimeout:     getEnvAsDuration("BOL_HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("BOL_HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("BOL_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Path: getEnv("BOL_DB_PATH", ""),
		},
		Pipeline: PipelineConfig{
			ProfilePath: getEnv("BOL_PROFILE_PATH", ""),
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

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
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
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "BOL_HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
