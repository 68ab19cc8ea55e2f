package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ControllerURL != DefaultControllerURL {
		t.Errorf("ControllerURL = %s, expected %s", cfg.ControllerURL, DefaultControllerURL)
	}
	if cfg.RefreshInterval != 2*time.Second || cfg.ActionRefreshDelay != 400*time.Millisecond {
		t.Errorf("intervals = %s / %s", cfg.RefreshInterval, cfg.ActionRefreshDelay)
	}
	if cfg.Store.Backend != BackendDiskv {
		t.Errorf("Store.Backend = %s, expected diskv", cfg.Store.Backend)
	}
	tuning := cfg.Tuning()
	if tuning.RowHeight != 8 || tuning.RowGap != 20 || tuning.Padding != 12 || tuning.DefaultWidgetHeight != 240 {
		t.Errorf("Tuning() = %+v", tuning)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolboard.yaml")
	content := "controller_url: http://10.0.0.2:9000\nrefresh_interval: 5s\nstore:\n  backend: preferences\ngrid:\n  row_gap: 16\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLBOARD_GRID_ROW_HEIGHT", "10")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ControllerURL != "http://10.0.0.2:9000" {
		t.Errorf("ControllerURL = %s", cfg.ControllerURL)
	}
	if cfg.RefreshInterval != 5*time.Second {
		t.Errorf("RefreshInterval = %s", cfg.RefreshInterval)
	}
	if cfg.Store.Backend != BackendPreferences {
		t.Errorf("Store.Backend = %s", cfg.Store.Backend)
	}
	if cfg.Grid.RowGap != 16 || cfg.Grid.RowHeight != 10 {
		t.Errorf("Grid = %+v", cfg.Grid)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		v := viper.New()
		SetDefaults(v)
		return FromViper(v)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.ControllerURL = "" }},
		{"zero interval", func(c *Config) { c.RefreshInterval = 0 }},
		{"negative delay", func(c *Config) { c.ActionRefreshDelay = -time.Second }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "sqlite" }},
		{"zero row height", func(c *Config) { c.Grid.RowHeight = 0 }},
		{"zero track", func(c *Config) { c.Grid.MinTrackWidth = 0 }},
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestStatePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()

	c := &Config{Store: StoreConfig{Path: "~/.toolboard/state"}}
	got, err := c.StatePath()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, ".toolboard", "state") {
		t.Errorf("StatePath() = %s", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown", "component", "test")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("log output = %q", out)
	}

	if _, err := NewLogger(&buf, LogConfig{Level: "loud"}); err == nil {
		t.Error("NewLogger() should reject an unknown level")
	}
	if _, err := NewLogger(&buf, LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Error("NewLogger() should reject an unknown format")
	}
}

func TestPreferencesLanguage(t *testing.T) {
	app := test.NewApp()
	p := NewPreferences(app, &Config{Language: "en", ActivityDays: 30})

	if got := p.GetLanguage(); got != "en" {
		t.Errorf("GetLanguage() = %s, expected the config fallback", got)
	}
	p.SetLanguage("ru")
	if got := p.GetLanguage(); got != "ru" {
		t.Errorf("GetLanguage() = %s, expected ru", got)
	}
	if _, ok := p.GetLanguageOptions()["pt"]; !ok {
		t.Error("language options should include pt")
	}
}

func TestPreferencesActivityDays(t *testing.T) {
	app := test.NewApp()
	p := NewPreferences(app, &Config{ActivityDays: 30})

	if got := p.GetActivityDays(); got != 30 {
		t.Errorf("GetActivityDays() = %d, expected 30", got)
	}
	p.SetActivityDays(1)
	if got := p.GetActivityDays(); got != MinActivityDays {
		t.Errorf("GetActivityDays() = %d, expected clamp to %d", got, MinActivityDays)
	}
	p.SetActivityDays(10000)
	if got := p.GetActivityDays(); got != MaxActivityDays {
		t.Errorf("GetActivityDays() = %d, expected clamp to %d", got, MaxActivityDays)
	}
}

func TestPreferencesWindowSize(t *testing.T) {
	app := test.NewApp()
	p := NewPreferences(app, nil)

	if got := p.GetWindowSize(); got != fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight) {
		t.Errorf("GetWindowSize() = %v", got)
	}
	p.SetWindowSize(fyne.NewSize(100, 900))
	if got := p.GetWindowSize(); got.Width != MinWindowWidth || got.Height != 900 {
		t.Errorf("GetWindowSize() = %v, expected width clamped", got)
	}
}
