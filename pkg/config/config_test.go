package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.DefaultFilter != "all" {
		t.Errorf("expected default filter 'all', got %q", cfg.UI.DefaultFilter)
	}
	if !cfg.UI.Mouse {
		t.Error("expected mouse enabled by default")
	}
	if !cfg.UI.ShowDetail {
		t.Error("expected detail pane enabled by default")
	}
	if !cfg.LiveReloadEnabled() {
		t.Error("expected live reload enabled by default")
	}
	if cfg.Filter() != model.FilterAll {
		t.Errorf("expected FilterAll, got %q", cfg.Filter())
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.DefaultFilter != "all" {
		t.Errorf("expected default config, got filter %q", cfg.UI.DefaultFilter)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
data_dir: ~/clients/.sitebook
ui:
  default_filter: deposit
  mouse: false
  show_detail: true
offices:
  - name: North
    path: ~/north
  - name: south
    path: /srv/south
    prefix: s
    enabled: false
experimental:
  live_reload: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "clients/.sitebook"); cfg.DataDir != want {
		t.Errorf("expected expanded data dir %q, got %q", want, cfg.DataDir)
	}
	if cfg.Filter() != model.FilterDeposit {
		t.Errorf("expected deposit filter, got %q", cfg.Filter())
	}
	if cfg.UI.Mouse {
		t.Error("expected mouse disabled")
	}
	if cfg.LiveReloadEnabled() {
		t.Error("expected live reload disabled")
	}

	if len(cfg.Offices) != 2 {
		t.Fatalf("expected 2 offices, got %d", len(cfg.Offices))
	}
	if want := filepath.Join(home, "north"); cfg.Offices[0].Path != want {
		t.Errorf("expected expanded office path %q, got %q", want, cfg.Offices[0].Path)
	}
	if cfg.Offices[0].GetPrefix() != "north" {
		t.Errorf("expected prefix derived from name, got %q", cfg.Offices[0].GetPrefix())
	}
	if cfg.Offices[1].GetPrefix() != "s" {
		t.Errorf("expected explicit prefix 's', got %q", cfg.Offices[1].GetPrefix())
	}

	enabled := cfg.EnabledOffices()
	if len(enabled) != 1 || enabled[0].Name != "North" {
		t.Errorf("expected only North enabled, got %+v", enabled)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_UnknownFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("ui:\n  default_filter: archived\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for unknown default_filter")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.DataDir = "/srv/clients"
	cfg.UI.DefaultFilter = "built"
	cfg.Offices = []Office{{Name: "east", Path: "/srv/east"}}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.DataDir != "/srv/clients" {
		t.Errorf("data dir not preserved: %q", loaded.DataDir)
	}
	if loaded.Filter() != model.FilterBuilt {
		t.Errorf("filter not preserved: %q", loaded.Filter())
	}
	if len(loaded.Offices) != 1 || loaded.Offices[0].Name != "east" {
		t.Errorf("offices not preserved: %+v", loaded.Offices)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/sitebook" {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := ConfigPath(); got != "/tmp/xdg/sitebook/config.yaml" {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestResolveDataDir_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/from/config"

	t.Setenv(DataDirEnvVar, "")
	if got := cfg.ResolveDataDir(); got != "/from/config" {
		t.Errorf("expected config value, got %q", got)
	}

	t.Setenv(DataDirEnvVar, "/from/env")
	if got := cfg.ResolveDataDir(); got != "/from/env" {
		t.Errorf("expected env value, got %q", got)
	}
}
