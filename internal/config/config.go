package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	AppPort string `envconfig:"APP_PORT" default:"8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`

	// Messenger
	VerifyToken string        `envconfig:"MESSENGER_VERIFY_TOKEN"`
	PageToken   string        `envconfig:"MESSENGER_PAGE_TOKEN"`
	GraphURL    string        `envconfig:"MESSENGER_GRAPH_URL" default:"https://graph.facebook.com/v2.6"`
	WebhookPath string        `envconfig:"MESSENGER_WEBHOOK_PATH" default:"/webhook"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// Public URL of this server, required for attachment hosting
	BaseURL string `envconfig:"BASE_URL"`

	// Redis (optional) shares hosted attachments between processes
	RedisURL      string `envconfig:"REDIS_URL"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

var instance *Config

// Load initializes and returns the singleton Config instance
func Load() (*Config, error) {
	if instance != nil {
		return instance, nil
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	instance = cfg
	return instance, nil
}

// Parse reads the configuration from the environment without caching it
func Parse() (*Config, error) {
	// Load .env file if it exists (for local development)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment variables: %w", err)
	}
	return cfg, nil
}

// Get returns the singleton Config instance (must call Load first)
func Get() *Config {
	if instance == nil {
		panic("config not loaded: call config.Load() first")
	}
	return instance
}

// Validate reports the settings a running bot cannot do without
func (c *Config) Validate() error {
	var errs []error
	if c.VerifyToken == "" {
		errs = append(errs, errors.New("MESSENGER_VERIFY_TOKEN is required"))
	}
	if c.PageToken == "" {
		errs = append(errs, errors.New("MESSENGER_PAGE_TOKEN is required"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
