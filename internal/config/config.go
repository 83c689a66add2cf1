// Package config loads the process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken string
	HTTPPort string

	OpenAIKey     string
	OpenAIBaseURL string
	Model         string

	ReminderLookahead    time.Duration
	ReminderPollInterval time.Duration
	AgentPollInterval    time.Duration

	StaticDir string
}

// Load reads the .env file when one is nearby and builds the configuration.
// Database credentials stay in the environment and are read directly by the
// database package.
func Load() *Config {
	loadDotenv()

	return &Config{
		BotToken:             os.Getenv("BOT_TOKEN"),
		HTTPPort:             getenv("HTTP_PORT", "5050"),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		Model:                getenv("MODEL", "gpt-5-nano"),
		ReminderLookahead:    time.Duration(getenvInt("REMINDER_LOOKAHEAD_MINUTES", 15)) * time.Minute,
		ReminderPollInterval: time.Duration(getenvInt("REMINDER_POLL_INTERVAL_SECONDS", 300)) * time.Second,
		AgentPollInterval:    time.Duration(getenvInt("AGENT_POLL_INTERVAL_MINUTES", 3)) * time.Minute,
		StaticDir:            getenv("STATIC_DIR", "web/dist"),
	}
}

// Validate reports the required settings that are missing.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	return nil
}

func loadDotenv() {
	possiblePaths := []string{
		".env",
		"./.env",
		"../.env",
		"../../.env",
	}
	for _, path := range possiblePaths {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
