package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables. Secrets are read once here and passed into
// constructors - nothing reads ambient state afterwards.
type Config struct {
	App          AppConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Email        EmailConfig
	Confirmation ConfirmationConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

type EmailConfig struct {
	SMTPHost    string
	SMTPPort    string
	From        string
	SendTimeout time.Duration
}

type ConfirmationConfig struct {
	// Secret seeds the deterministic code derivation. Rotating it
	// invalidates every outstanding confirmation code.
	Secret string
	// Window is how long one code generation bucket lasts. Verification
	// additionally tolerates the immediately preceding bucket.
	Window time.Duration
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ReviewDB API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			TokenExpiry: getEnvDuration("JWT_TOKEN_EXPIRY", 24*time.Hour),
		},
		Email: EmailConfig{
			SMTPHost:    getEnv("SMTP_HOST", "localhost"),
			SMTPPort:    getEnv("SMTP_PORT", "1025"),
			From:        getEnv("EMAIL_FROM", "noreply@reviewdb.dev"),
			SendTimeout: getEnvDuration("EMAIL_SEND_TIMEOUT", 10*time.Second),
		},
		Confirmation: ConfirmationConfig{
			Secret: getEnv("CONFIRMATION_SECRET", "confirmation-secret-change-in-production"),
			Window: getEnvDuration("CONFIRMATION_WINDOW", 15*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks production invariants.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Confirmation.Secret == "confirmation-secret-change-in-production" {
			return fmt.Errorf("CONFIRMATION_SECRET must be set in production")
		}
	}
	if c.Confirmation.Window < time.Minute {
		return fmt.Errorf("CONFIRMATION_WINDOW must be at least 1 minute")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
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
