// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port                 string
	FrontendURL          string
	DBPath               string
	EmailCaseInsensitive bool
	SessionTTL           time.Duration
	OpenAI               OpenAIConfig
	RateLimit            RateLimitConfig
}

// OpenAIConfig configures the chat-completion capability.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// RateLimitConfig throttles chat turns per session.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		FrontendURL:          getEnv("FRONTEND_URL", ""),
		DBPath:               getEnv("DB_PATH", "./data/leads.db"),
		EmailCaseInsensitive: getEnvBool("EMAIL_CASE_INSENSITIVE", true),
		SessionTTL:           getEnvDuration("SESSION_TTL", time.Hour),
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			Temperature: 0.7,
			Timeout:     time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("CHAT_RATE_LIMIT", 10),
			WindowDuration:    getEnvDuration("CHAT_RATE_WINDOW", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.OpenAI.BaseURL == "" {
		return fmt.Errorf("OPENAI_BASE_URL cannot be empty")
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("OPENAI_MODEL cannot be empty")
	}
	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT_SECONDS must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return fmt.Errorf("CHAT_RATE_LIMIT must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return fmt.Errorf("CHAT_RATE_WINDOW must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
