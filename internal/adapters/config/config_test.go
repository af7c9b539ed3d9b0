package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/pkg/errors"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_DSN", "postgres://localhost/hermes?sslmode=disable")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("FOURMEME_BASE_URL", "https://four.meme/api")
	t.Setenv("SWAP_EXECUTION_URL", "https://exec.local/swap")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hermes", cfg.App.Name)
	assert.Equal(t, []string{"bnb", "ethereum"}, cfg.Networks.Agent)
	assert.Equal(t, "bnb", cfg.Networks.Default)
	assert.Equal(t, int64(100), cfg.Trading.DefaultSlippageBps)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.Equal(t, "0.0.0.0:8080", cfg.API.Addr())
}

func TestLoadRejectsBadEncryptionKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENCRYPTION_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestLoadRejectsDefaultNetworkOutsideAgentList(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AGENT_NETWORKS", "ethereum")
	t.Setenv("DEFAULT_NETWORK", "bnb")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestLoadRejectsBadSlippage(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEFAULT_SLIPPAGE_BPS", "20000")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
