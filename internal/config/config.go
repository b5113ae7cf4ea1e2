package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI     string
	HTTPAddr        string
	Timezone        string
	TelegramToken   string
	TelegramChatID  int64
	AIAPIKey        string
	AIBaseURL       string
	AIModel         string
	MaintenanceCron string
}

func Load() (*Config, error) {
	// .env file is optional in production
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURI:     os.Getenv("DATABASE_URI"),
		HTTPAddr:        getEnvOrDefault("HTTP_ADDR", ":8080"),
		Timezone:        getEnvOrDefault("TIMEZONE", "America/Denver"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		AIAPIKey:        os.Getenv("AI_API_KEY"),
		AIBaseURL:       getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:         getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		MaintenanceCron: getEnvOrDefault("MAINTENANCE_CRON", "0 3 * * *"),
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	return cfg, nil
}

// Location loads the configured venue timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
