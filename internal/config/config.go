package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"ivuturnos/internal/filter"
)

// Config is the top-level application configuration.
type Config struct {
	// BaseURL is the portal root, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// DataDir holds per-month JSON snapshots used for change detection.
	DataDir string `yaml:"data_dir"`

	// CalendarsDir receives the generated turnos_<YYYY-MM>.ics files.
	CalendarsDir string `yaml:"calendars_dir"`

	// BrowserLogin switches the login path to headless Chromium for
	// frontends that gate the form behind scripted checks.
	BrowserLogin bool `yaml:"browser_login"`

	// Notify posts duty changes after each scrape. Requires Twitter
	// credentials in the environment; --dry-run prints instead.
	Notify bool `yaml:"notify"`

	// MaxNotifications caps how many change notifications one run posts.
	MaxNotifications int `yaml:"max_notifications"`

	// Filter narrows which duty records are exported. Date bounds are
	// given as YYYY-MM-DD strings and resolved in the operating timezone.
	Filter     *filter.Filter `yaml:"filter,omitempty"`
	FilterFrom string         `yaml:"filter_from,omitempty"`
	FilterTo   string         `yaml:"filter_to,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://wcrew-ilsa.trenitalia.it",
		DataDir:          "~/.local/share/ivu-turnos",
		CalendarsDir:     "./calendars",
		BrowserLogin:     false,
		Notify:           false,
		MaxNotifications: 10,
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// configs still behave correctly, and resolves the filter date bounds.
func (c *Config) Normalize(loc *time.Location) error {
	if c.BaseURL == "" {
		c.BaseURL = "https://wcrew-ilsa.trenitalia.it"
	}
	for len(c.BaseURL) > 0 && c.BaseURL[len(c.BaseURL)-1] == '/' {
		c.BaseURL = c.BaseURL[:len(c.BaseURL)-1]
	}
	if c.DataDir == "" {
		c.DataDir = "~/.local/share/ivu-turnos"
	}
	if c.CalendarsDir == "" {
		c.CalendarsDir = "./calendars"
	}
	if c.MaxNotifications <= 0 {
		c.MaxNotifications = 10
	}

	if c.FilterFrom != "" || c.FilterTo != "" {
		if c.Filter == nil {
			c.Filter = filter.New()
		}
		if c.FilterFrom != "" {
			t, err := time.ParseInLocation("2006-01-02", c.FilterFrom, loc)
			if err != nil {
				return fmt.Errorf("invalid filter_from %q: %w", c.FilterFrom, err)
			}
			c.Filter.DateFrom = &t
		}
		if c.FilterTo != "" {
			t, err := time.ParseInLocation("2006-01-02", c.FilterTo, loc)
			if err != nil {
				return fmt.Errorf("invalid filter_to %q: %w", c.FilterTo, err)
			}
			// Inclusive upper bound: end of day.
			t = t.Add(24*time.Hour - time.Second)
			c.Filter.DateTo = &t
		}
	}

	return nil
}

// Load loads configuration from the given YAML path. An empty path or a
// missing file yields the defaults; a missing file is additionally written
// back so the first run leaves a config to edit.
func Load(path string, loc *time.Location) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return cfg, cfg.Normalize(loc)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, cfg.Normalize(loc)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, cfg.Normalize(loc)
}

// Save writes the configuration to path, creating the parent directory if
// needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Credentials reads the portal login from the environment. Keeping them
// out of the config file avoids persisting secrets to disk.
func Credentials() (user, pass string, err error) {
	user = os.Getenv("IVU_USER")
	pass = os.Getenv("IVU_PASS")
	if user == "" || pass == "" {
		return "", "", errors.New("IVU_USER and IVU_PASS must be set")
	}
	return user, pass, nil
}
