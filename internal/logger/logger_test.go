package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerdash.log")
	closer, err := Setup(LogConfig{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	log := WithComponent("store")
	log.Debug().Str("entity", "invoice").Msg("saved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "invoice", line["entity"])
	assert.Equal(t, "saved", line["message"])
}

func TestSetup_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerdash.log")
	closer, err := Setup(LogConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	log := WithComponent("server")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup(LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "stderr", cfg.Output)

	closer, err := Setup(cfg)
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
