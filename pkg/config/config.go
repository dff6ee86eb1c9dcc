// Package config handles loading and saving sitebook configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/sitebook/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// DataDirEnvVar overrides the data directory from the config file.
const DataDirEnvVar = "SITEBOOK_DIR"

// Office is one data directory in a multi-office workspace.
type Office struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	Prefix  string `yaml:"prefix,omitempty"`  // Namespace for client IDs, defaults to Name
	Enabled *bool  `yaml:"enabled,omitempty"` // nil means enabled
}

// IsEnabled reports whether the office should be loaded.
func (o Office) IsEnabled() bool {
	return o.Enabled == nil || *o.Enabled
}

// GetPrefix returns the ID namespace for the office.
func (o Office) GetPrefix() string {
	if o.Prefix != "" {
		return o.Prefix
	}
	return strings.ToLower(o.Name)
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultFilter string `yaml:"default_filter,omitempty"` // all, building, deposit, built
	Mouse         bool   `yaml:"mouse"`                    // Enable mouse reporting
	ShowDetail    bool   `yaml:"show_detail"`              // Open detail pane on click
}

// ExperimentalConfig holds experimental feature flags.
type ExperimentalConfig struct {
	LiveReload *bool `yaml:"live_reload,omitempty"`
}

// Config is the top-level configuration for sb.
type Config struct {
	DataDir      string             `yaml:"data_dir,omitempty"`
	UI           UIConfig           `yaml:"ui"`
	Offices      []Office           `yaml:"offices,omitempty"`
	Experimental ExperimentalConfig `yaml:"experimental,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultFilter: string(model.FilterAll),
			Mouse:         true,
			ShowDetail:    true,
		},
	}
}

// LiveReloadEnabled reports whether the data file should be watched.
func (c Config) LiveReloadEnabled() bool {
	return c.Experimental.LiveReload == nil || *c.Experimental.LiveReload
}

// Filter parses UI.DefaultFilter, falling back to all.
func (c Config) Filter() model.Filter {
	f, err := model.ParseFilter(c.UI.DefaultFilter)
	if err != nil {
		return model.FilterAll
	}
	return f
}

// ResolveDataDir returns the data directory, preferring SITEBOOK_DIR over
// the config file. Empty means "discover from the working directory".
func (c Config) ResolveDataDir() string {
	if env := os.Getenv(DataDirEnvVar); env != "" {
		return expandHome(env)
	}
	return c.DataDir
}

// ConfigDir returns the XDG config directory for sb.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sitebook")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sitebook")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := model.ParseFilter(cfg.UI.DefaultFilter); err != nil {
		return cfg, fmt.Errorf("parsing config: ui.default_filter: %w", err)
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	for i := range cfg.Offices {
		cfg.Offices[i].Path = expandHome(cfg.Offices[i].Path)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// EnabledOffices returns the offices that should be loaded, in config order.
func (c Config) EnabledOffices() []Office {
	var out []Office
	for _, o := range c.Offices {
		if o.IsEnabled() {
			out = append(out, o)
		}
	}
	return out
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
