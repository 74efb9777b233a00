package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramBotToken string
	PostgreDSN       string
	LogLevel         string

	// Webhook configuration
	BaseURL       string // Public base URL the platform delivers updates to
	WebhookPort   string
	WebhookSecret string // Optional secret token echoed by the platform on delivery

	// Image re-hosting configuration
	ImageHostURL         string
	ImageHostFallbackURL string
}

func Load() (*Config, error) {
	// A missing .env file is fine in containerized deployments where the
	// environment is injected directly
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		PostgreDSN:       os.Getenv("POSTGRE_DSN"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),

		BaseURL:       os.Getenv("BASE_URL"),
		WebhookPort:   getEnvOrDefault("WEBHOOK_PORT", "8080"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		ImageHostURL:         os.Getenv("IMAGE_HOST_URL"),
		ImageHostFallbackURL: os.Getenv("IMAGE_HOST_FALLBACK_URL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"TELEGRAM_BOT_TOKEN": c.TelegramBotToken,
		"POSTGRE_DSN":        c.PostgreDSN,
		"BASE_URL":           c.BaseURL,
	}

	for key, value := range required {
		if value == "" {
			return fmt.Errorf("required environment variable %s is not set", key)
		}
	}

	return nil
}

// WebhookURL returns the full URL registered with the platform for update
// delivery.
func (c *Config) WebhookURL() string {
	return c.BaseURL + "/telegram/webhook"
}

func (c *Config) HasImageHostConfig() bool {
	return c.ImageHostURL != ""
}

func (c *Config) HasWebhookSecret() bool {
	return c.WebhookSecret != ""
}

// getEnvOrDefault returns the environment variable value or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
