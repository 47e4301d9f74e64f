package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/stockroom-dev/stockroom/internal/auth"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all configuration for the application
type Config struct {
	// Environment is one of development, production, test
	Environment string

	// HTTP Configuration
	HTTP HTTPConfig

	// Database Configuration
	Database DatabaseConfig

	// Auth Configuration
	Auth AuthConfig

	// Logging Configuration
	Logging LoggingConfig
}

// HTTPConfig holds HTTP listener configuration
type HTTPConfig struct {
	Port               string
	CORSAllowedOrigins []string
	WebDir             string // built dashboard served behind the route gate, empty = API only
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string // SQLite path or postgres:// URL
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	JWTSecret string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return &Config{
		Environment: strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		HTTP: HTTPConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			WebDir:             os.Getenv("WEB_DIR"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "stockroom.sqlite"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("APP_ENV must be one of development, production, test (got %q)", c.Environment)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set: %w", auth.ErrSecretNotConfigured)
	}

	if _, err := strconv.Atoi(c.HTTP.Port); err != nil {
		return fmt.Errorf("PORT must be numeric (got %q)", c.HTTP.Port)
	}

	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is empty")
	}

	return nil
}

// IsProduction reports whether secure-only behaviour (Secure cookies, gin release mode) applies.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
