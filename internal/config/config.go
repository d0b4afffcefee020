// ABOUTME: Nutrition configuration management with backend selection.
// ABOUTME: Loads the JSON config file, applies environment overrides, and opens stores.

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harperreed/nutrition/internal/charm"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/settings"
	"github.com/harperreed/nutrition/internal/storage"
)

// Environment variables that override the config file.
const (
	EnvBackend  = "NUTRITION_BACKEND"
	EnvDataDir  = "NUTRITION_DATA_DIR"
	EnvLogLevel = "NUTRITION_LOG_LEVEL"
	EnvHTTPAddr = "NUTRITION_HTTP_ADDR"
)

const (
	DefaultHTTPAddr    = "127.0.0.1:8787"
	DefaultSummaryTime = "20:00"
)

// Config stores nutrition tool configuration.
type Config struct {
	// Backend selects the record store: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts nutrition.db here; settings live in DataDir/settings.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/nutrition.
	DataDir string `json:"data_dir,omitempty"`

	LogLevel string `json:"log_level,omitempty"`

	// Reminder defaults applied the first time reminders are configured.
	ReminderFrequency string `json:"reminder_frequency,omitempty"`
	SummaryTime       string `json:"summary_time,omitempty"`
	RemindersEnabled  *bool  `json:"reminders_enabled,omitempty"`

	HTTPAddr string `json:"http_addr,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetHTTPAddr returns the listen address for the HTTP API.
func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}

// GetReminders returns the reminder preferences described by the config.
func (c *Config) GetReminders() (settings.Reminders, error) {
	r := settings.DefaultReminders()
	if c.ReminderFrequency != "" {
		f, err := models.ParseFrequency(c.ReminderFrequency)
		if err != nil {
			return r, err
		}
		r.Frequency = f
	}
	if c.SummaryTime != "" {
		r.SummaryTime = c.SummaryTime
	}
	if c.RemindersEnabled != nil {
		r.Enabled = *c.RemindersEnabled
	}
	return r, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case "sqlite":
		return storage.Open(storage.DBPath(dataDir))
	case "charm":
		return charm.Open(charm.DefaultDBName)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenSettings opens the settings store inside the data directory.
func (c *Config) OpenSettings(logger *log.Logger) (*settings.Store, error) {
	return settings.Open(settings.DefaultDir(c.GetDataDir()), logger)
}

// NewLogger builds the process logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(c.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.GetLogLevel(), err)
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "nutrition",
	})
	return logger, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nutrition", "config.json")
}

// Load reads .env (if present), the config file, and environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.HTTPAddr = v
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
