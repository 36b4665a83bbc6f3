package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"quotedesk/internal/domain"
	"quotedesk/internal/eventbus"
	"quotedesk/internal/logging"
)

var cfgLog = logging.ForComponent(logging.CompConfig)

// Environment overrides
const (
	EnvAPIURL  = "QUOTEDESK_API_URL"
	EnvSession = "QUOTEDESK_SESSION"
)

// FileName is the config file inside the user config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	API     APISettings   `toml:"api"`
	UI      UISettings    `toml:"ui"`
	Theme   ThemeSettings `toml:"theme"`
	Log     LogSettings   `toml:"log"`
	Cache   CacheSettings `toml:"cache"`
}

// APISettings configures the backend client
type APISettings struct {
	BaseURL       string   `toml:"base_url"`
	Timeout       Duration `toml:"timeout"`
	Retries       int      `toml:"retries"`
	RetryBackoff  Duration `toml:"retry_backoff"`
	RatePerSecond float64  `toml:"rate_per_second"`
	Burst         int      `toml:"burst"`
	SessionCookie string   `toml:"session_cookie"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Debounce            Duration `toml:"debounce"`
	StatusTimeout       Duration `toml:"status_timeout"`
	ComboboxLimit       int      `toml:"combobox_limit"`
	AddNewCustomerLabel string   `toml:"add_new_customer_label"`
	AddNewAssetLabel    string   `toml:"add_new_asset_label"`
}

// ThemeSettings holds the theme cycle and the persisted choice
type ThemeSettings struct {
	Cycle        []string `toml:"cycle"`
	Current      string   `toml:"current"`
	FollowSystem bool     `toml:"follow_system"`
}

// LogSettings mirrors logging.Config
type LogSettings struct {
	Dir        string `toml:"dir"`
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// CacheSettings configures the offline record cache
type CacheSettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// LoggingConfig converts the log section for logging.Init
func (c *Config) LoggingConfig(debug bool) logging.Config {
	return logging.Config{
		LogDir:     c.Log.Dir,
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
		Debug:      debug,
	}
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Update(mutate func(*Config)) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string

	mu sync.Mutex // serializes Update
}

// DefaultDir returns the directory holding the config, cache and logs.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "quotedesk")
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return NewConfigServiceAt(filepath.Join(DefaultDir(), FileName))
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus attaches an event bus that receives
// ConfigLoaded and ConfigSaved events
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = filepath.Join(DefaultDir(), FileName)
	}
	return &configService{filePath: path, bus: bus}
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration file, falling back to defaults when it does
// not exist yet. Environment overrides are applied last.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfgLog.Info("config_missing_using_defaults", slog.String("path", cs.filePath))
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	ApplyEnv(cfg)

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// Update re-reads the file, applies mutate and saves the result. Edits
// made on disk since startup are kept, and environment overrides are
// never written back.
func (cs *configService) Update(mutate func(*Config)) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return err
	}
	mutate(cfg)
	return cs.Save(cfg)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write then rename so a watcher never sees a half-written file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// ApplyEnv applies environment overrides to cfg
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvSession); v != "" {
		cfg.API.SessionCookie = v
	}
}

// normalize repairs values a hand-edited file may have broken
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.Timeout.Duration <= 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.API.Retries < 0 {
		c.API.Retries = 0
	}
	if c.UI.ComboboxLimit <= 0 {
		c.UI.ComboboxLimit = d.UI.ComboboxLimit
	}
	if c.UI.Debounce.Duration < 0 {
		c.UI.Debounce = d.UI.Debounce
	}
	if len(c.Theme.Cycle) == 0 {
		c.Theme.Cycle = d.Theme.Cycle
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:       "http://localhost:5000",
			Timeout:       Duration{10 * time.Second},
			Retries:       2,
			RetryBackoff:  Duration{500 * time.Millisecond},
			RatePerSecond: 5,
			Burst:         5,
		},
		UI: UISettings{
			Debounce:            Duration{300 * time.Millisecond},
			StatusTimeout:       Duration{3 * time.Second},
			ComboboxLimit:       10,
			AddNewCustomerLabel: "Add New Customer",
			AddNewAssetLabel:    "Add New Asset",
		},
		Theme: ThemeSettings{
			Cycle:        []string{"light", "dark"},
			FollowSystem: true,
		},
		Log: LogSettings{
			Dir:        dir,
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Cache: CacheSettings{
			Enabled: true,
			Path:    filepath.Join(dir, "cache.db"),
		},
	}
}
