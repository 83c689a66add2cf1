package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("REMINDER_LOOKAHEAD_MINUTES", "")
	t.Setenv("REMINDER_POLL_INTERVAL_SECONDS", "")
	t.Setenv("AGENT_POLL_INTERVAL_MINUTES", "")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "5050", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.ReminderLookahead)
	assert.Equal(t, 5*time.Minute, cfg.ReminderPollInterval)
	assert.Equal(t, 3*time.Minute, cfg.AgentPollInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("REMINDER_LOOKAHEAD_MINUTES", "30")
	t.Setenv("REMINDER_POLL_INTERVAL_SECONDS", "60")

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.ReminderLookahead)
	assert.Equal(t, time.Minute, cfg.ReminderPollInterval)
}

func TestValidateRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	cfg := Load()
	assert.Error(t, cfg.Validate())
}
