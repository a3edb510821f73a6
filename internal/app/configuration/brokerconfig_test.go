package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv(t *testing.T) {
	t.Setenv("PACT_BROKER_BASE_URL", "https://broker.example.com/")
	t.Setenv("PACT_BROKER_TOKEN", "tok")
	t.Setenv("PACT_BROKER_USERNAME", "user")
	t.Setenv("PACT_BROKER_PASSWORD", "pass")
	t.Setenv("SERVER_ADDRESS", "localhost:9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://broker.example.com/", cfg.BaseURL)
	assert.Equal(t, "https://broker.example.com", cfg.BrokerURL())
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "user", cfg.Username)
	assert.Equal(t, "pass", cfg.Password)
	assert.Equal(t, "localhost:9000", cfg.ServerAddress)
	assert.Equal(t, "debug", cfg.LogLevel)

	header, ok := cfg.AuthorizationHeader()
	require.True(t, ok)
	assert.Equal(t, "Bearer tok", header)
}

func TestNewFromEnvDefaults(t *testing.T) {
	t.Setenv("PACT_BROKER_BASE_URL", "")
	t.Setenv("PACT_BROKER_TOKEN", "")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Empty(t, cfg.BrokerURL())

	_, ok := cfg.AuthorizationHeader()
	assert.False(t, ok)
}
