package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModelID)
	assert.Equal(t, 500, cfg.LLMMaxTokens)
	assert.Equal(t, 30*time.Second, cfg.TurnLockTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_MAX_TOKENS", "250")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("TURN_LOCK_TTL", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250, cfg.LLMMaxTokens)
	assert.Equal(t, 0.2, cfg.LLMTemperature)
	assert.Equal(t, 5*time.Second, cfg.TurnLockTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestInvalidNumericsFallBack(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "lots")
	t.Setenv("TURN_LOCK_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 500, cfg.LLMMaxTokens)
	assert.Equal(t, 30*time.Second, cfg.TurnLockTTL)
}
