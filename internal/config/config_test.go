package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config file anywhere
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.NegotiationTimeout)
	assert.Equal(t, 2*time.Second, cfg.RetryBase)
	assert.Equal(t, 30*time.Second, cfg.RetryCap)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.STUNServers)
	assert.NotEmpty(t, cfg.FleetAPIBase)
}
