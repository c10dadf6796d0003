package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv unsets all config env vars so tests start clean.
func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"NOTES_DIR",
		"STATE_PATH",
		"NOTIFY_ALL_EXTERNAL_MODIFICATIONS",
		"AUTOSAVE_INTERVAL",
		"VIEW_REFRESH_INTERVAL",
		"PERIODIC_CHECK_INTERVAL",
		"QUIET_RELOAD_AFTER",
		"WATCH_SETTLE_DELAY",
		"WATCH_DEBOUNCE",
		"MAX_WATCHED_FILES",
		"CRYPTO_KEY_TTL",
		"DOWNLOAD_TIMEOUT",
		"SORT_ALPHABETICALLY",
		"ENVIRONMENT",
		"LOG_LEVEL",
		"ENABLE_MCP",
		"MCP_LISTEN_ADDR",
		"MCP_API_KEY_HASH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STATE_PATH", filepath.Join(t.TempDir(), "state.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.NotifyAllExternalModifications)
	assert.Equal(t, 10*time.Second, cfg.AutosaveInterval)
	assert.Equal(t, 2*time.Second, cfg.ViewRefreshInterval)
	assert.Equal(t, time.Minute, cfg.PeriodicCheckInterval)
	assert.Equal(t, 60*time.Second, cfg.QuietReloadAfter)
	assert.Equal(t, 100*time.Millisecond, cfg.WatchSettleDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, 200, cfg.MaxWatchedFiles)
	assert.Equal(t, 10*time.Minute, cfg.CryptoKeyTTL)
	assert.Equal(t, 10*time.Second, cfg.DownloadTimeout)
	assert.False(t, cfg.SortAlphabetically)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.EnableMCP)
	assert.Equal(t, "127.0.0.1:8091", cfg.MCPListenAddr)
}

func TestLoad_Overrides(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Setenv("STATE_PATH", filepath.Join(dir, "state.db"))
	t.Setenv("NOTES_DIR", dir)
	t.Setenv("NOTIFY_ALL_EXTERNAL_MODIFICATIONS", "true")
	t.Setenv("AUTOSAVE_INTERVAL", "3s")
	t.Setenv("QUIET_RELOAD_AFTER", "2m")
	t.Setenv("WATCH_SETTLE_DELAY", "250ms")
	t.Setenv("MAX_WATCHED_FILES", "50")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.NotesDir)
	assert.True(t, cfg.NotifyAllExternalModifications)
	assert.Equal(t, 3*time.Second, cfg.AutosaveInterval)
	assert.Equal(t, 2*time.Minute, cfg.QuietReloadAfter)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchSettleDelay)
	assert.Equal(t, 50, cfg.MaxWatchedFiles)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RelativeNotesDirResolved(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STATE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("NOTES_DIR", "relative/notes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.NotesDir), "got %q", cfg.NotesDir)
}

func TestLoad_DefaultStatePath(t *testing.T) {
	clearConfigEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".noted", "state.db"), cfg.StatePath)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("AUTOSAVE_INTERVAL", "often")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AutosaveInterval:      time.Second,
			ViewRefreshInterval:   time.Second,
			PeriodicCheckInterval: time.Second,
			DownloadTimeout:       time.Second,
			QuietReloadAfter:      time.Minute,
			MCPListenAddr:         ":1",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero autosave", func(c *Config) { c.AutosaveInterval = 0 }, "AUTOSAVE_INTERVAL"},
		{"negative download timeout", func(c *Config) { c.DownloadTimeout = -time.Second }, "DOWNLOAD_TIMEOUT"},
		{"negative quiet threshold", func(c *Config) { c.QuietReloadAfter = -1 }, "QUIET_RELOAD_AFTER"},
		{"negative settle", func(c *Config) { c.WatchSettleDelay = -1 }, "watcher delays"},
		{"negative watch cap", func(c *Config) { c.MaxWatchedFiles = -1 }, "MAX_WATCHED_FILES"},
		{"mcp without addr", func(c *Config) { c.EnableMCP = true; c.MCPListenAddr = "" }, "MCP_LISTEN_ADDR"},
		{"zero quiet threshold allowed", func(c *Config) { c.QuietReloadAfter = 0 }, ""},
		{"bad key hash", func(c *Config) { c.MCPAPIKeyHash = "plaintext" }, "MCP_API_KEY_HASH"},
		{"bcrypt key hash", func(c *Config) {
			c.MCPAPIKeyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := c.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
