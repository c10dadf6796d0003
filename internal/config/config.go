package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/alexjbarnes/noted/internal/auth"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-based configuration for noted.
type Config struct {
	// Notes folder used to seed the folder list on first start. Once a
	// folder is stored in the state database the stored current folder
	// takes precedence.
	NotesDir string `env:"NOTES_DIR"`

	// Path of the bbolt state database. Defaults to ~/.noted/state.db.
	StatePath string `env:"STATE_PATH"`

	// Prompt on every external modification of the current note instead
	// of silently reloading notes that were not edited recently.
	NotifyAllExternalModifications bool `env:"NOTIFY_ALL_EXTERNAL_MODIFICATIONS" envDefault:"false"`

	// Timer intervals driving the controller loop.
	AutosaveInterval      time.Duration `env:"AUTOSAVE_INTERVAL" envDefault:"10s"`
	ViewRefreshInterval   time.Duration `env:"VIEW_REFRESH_INTERVAL" envDefault:"2s"`
	PeriodicCheckInterval time.Duration `env:"PERIODIC_CHECK_INTERVAL" envDefault:"1m"`

	// A current note not edited for this long is reloaded without a
	// prompt when its file changes on disk.
	QuietReloadAfter time.Duration `env:"QUIET_RELOAD_AFTER" envDefault:"60s"`

	// Watcher tuning.
	WatchSettleDelay time.Duration `env:"WATCH_SETTLE_DELAY" envDefault:"100ms"`
	WatchDebounce    time.Duration `env:"WATCH_DEBOUNCE" envDefault:"300ms"`
	MaxWatchedFiles  int           `env:"MAX_WATCHED_FILES" envDefault:"200"`

	// Lifetime of a cached note password after its last use.
	CryptoKeyTTL time.Duration `env:"CRYPTO_KEY_TTL" envDefault:"10m"`

	// Hard deadline for media downloads.
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"10s"`

	SortAlphabetically bool `env:"SORT_ALPHABETICALLY" envDefault:"false"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`

	// MCP server settings
	EnableMCP     bool   `env:"ENABLE_MCP" envDefault:"false"`
	MCPListenAddr string `env:"MCP_LISTEN_ADDR" envDefault:"127.0.0.1:8091"`

	// bcrypt hash of the MCP API key, printed by `noted mcp-key`. Empty
	// leaves the MCP endpoint open.
	MCPAPIKeyHash string `env:"MCP_API_KEY_HASH"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if cfg.NotesDir != "" {
		absDir, err := filepath.Abs(cfg.NotesDir)
		if err != nil {
			return nil, fmt.Errorf("resolving notes dir to absolute path: %w", err)
		}

		cfg.NotesDir = absDir
	}

	if cfg.StatePath == "" {
		path, err := DefaultStatePath()
		if err != nil {
			return nil, err
		}

		cfg.StatePath = path
	}

	return cfg, nil
}

func (c *Config) validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"AUTOSAVE_INTERVAL", c.AutosaveInterval},
		{"VIEW_REFRESH_INTERVAL", c.ViewRefreshInterval},
		{"PERIODIC_CHECK_INTERVAL", c.PeriodicCheckInterval},
		{"DOWNLOAD_TIMEOUT", c.DownloadTimeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.d)
		}
	}

	if c.QuietReloadAfter < 0 {
		return fmt.Errorf("QUIET_RELOAD_AFTER must not be negative")
	}

	if c.WatchSettleDelay < 0 || c.WatchDebounce < 0 {
		return fmt.Errorf("watcher delays must not be negative")
	}

	if c.MaxWatchedFiles < 0 {
		return fmt.Errorf("MAX_WATCHED_FILES must not be negative")
	}

	if c.EnableMCP && c.MCPListenAddr == "" {
		return fmt.Errorf("MCP_LISTEN_ADDR is required when MCP is enabled")
	}

	if c.MCPAPIKeyHash != "" {
		if err := auth.ValidateHash(c.MCPAPIKeyHash); err != nil {
			return fmt.Errorf("MCP_API_KEY_HASH: %w", err)
		}
	}

	return nil
}

// DefaultStatePath returns ~/.noted/state.db.
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(home, ".noted", "state.db"), nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
