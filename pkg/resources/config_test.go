package resources

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ServerConfig{Host: "localhost", Port: "8080", DebugPort: "6060"}, cfg.Server)
	assert.Equal(t, LogConfig{Level: "info", Format: "json"}, cfg.Log)
	assert.Empty(t, cfg.Gemini.APIKey, "a missing key is not an error")
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 800*time.Millisecond, cfg.Events.FallbackDelay)
	assert.Equal(t, FallbackSourceEmbedded, cfg.Events.FallbackSource)
	assert.Equal(t, "Busan, South Korea", cfg.Events.City)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.Map.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.Map.WaitTimeout)
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{name: "bad port", values: map[string]any{"SERVER_PORT": "http"}, wantErr: "SERVER_PORT must be a port number"},
		{name: "port out of range", values: map[string]any{"DEBUG_PORT": "70000"}, wantErr: "DEBUG_PORT must be a port number"},
		{name: "bad level", values: map[string]any{"LOG_LEVEL": "loud"}, wantErr: "LOG_LEVEL"},
		{name: "bad format", values: map[string]any{"LOG_FORMAT": "xml"}, wantErr: "LOG_FORMAT must be json or text"},
		{name: "negative delay", values: map[string]any{"FALLBACK_DELAY": "-1s"}, wantErr: "FALLBACK_DELAY must not be negative"},
		{name: "unknown source", values: map[string]any{"FALLBACK_SOURCE": "redis"}, wantErr: "FALLBACK_SOURCE must be embedded or postgres"},
		{name: "zero timeout", values: map[string]any{"GEMINI_TIMEOUT": "0s"}, wantErr: "GEMINI_TIMEOUT must be positive"},
		{name: "zero poll", values: map[string]any{"MAP_POLL_INTERVAL": "0s"}, wantErr: "MAP_POLL_INTERVAL and MAP_WAIT_TIMEOUT must be positive"},
		{name: "overrides", values: map[string]any{"FALLBACK_SOURCE": "postgres", "LOG_FORMAT": "text", "FALLBACK_DELAY": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}

			cfg, err := NewConfig(v)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, FallbackSourcePostgres, cfg.Events.FallbackSource)
			assert.Zero(t, cfg.Events.FallbackDelay)
		})
	}
}

func TestLoadConfig_EnvFileAndAlias(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("EVENTS_CITY=Seoul, South Korea\nSERVER_PORT=9090\n"), 0o600))

	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("SERVER_PORT", "8181")
	// registered with t.Setenv so the cleanup restores them
	for _, key := range []string{"EVENTS_CITY", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig(file, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.Gemini.APIKey)
	assert.Equal(t, "8181", cfg.Server.Port, "the environment wins over the file")
	assert.Equal(t, "Seoul, South Korea", cfg.Events.City)
}
