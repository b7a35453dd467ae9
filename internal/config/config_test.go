package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultConfig() *Config {
	return NewFromViper(NewEmptyViper())
}

func TestDefaults(t *testing.T) {
	cfg := newDefaultConfig()

	assert.Equal(t, "none", cfg.GetLLM().Provider)

	server := cfg.GetServer()
	assert.Equal(t, "0.0.0.0:8080", server.ListenAddress)
	assert.Equal(t, 200, server.MaxSubjectLength)
	assert.Equal(t, 50000, server.MaxBodyLength)
	assert.Equal(t, 10, server.BulkMaxEmails)
	assert.Empty(t, server.APIKeyHashes)

	history := cfg.GetHistory()
	assert.True(t, history.Enabled)
	assert.Equal(t, "memory", history.Type)

	rl := cfg.GetRateLimit()
	assert.False(t, rl.Enabled)
	assert.Equal(t, 60, rl.RequestsPerMinute)
}

func TestProviderOverride(t *testing.T) {
	v := NewEmptyViper()
	v.Set("llm.provider", "openai")
	v.Set("openai.api_key", "sk-test")

	cfg := NewFromViper(v)

	assert.Equal(t, "openai", cfg.GetLLM().Provider)
	assert.Equal(t, "sk-test", cfg.GetOpenAI().APIKey)
	assert.Equal(t, 4096, cfg.GetOpenAI().MaxTokens)
}

func TestGetDuration(t *testing.T) {
	cfg := newDefaultConfig()

	retention, err := cfg.GetDuration("history.retention")
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, retention)

	v := NewEmptyViper()
	v.Set("history.retention", "not a duration")
	_, err = NewFromViper(v).GetDuration("history.retention")
	assert.Error(t, err)
}
