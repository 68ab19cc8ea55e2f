package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ytget/toolboard/internal/grid"
)

// Config keys
const (
	KeyControllerURL       = "controller_url"
	KeyRefreshInterval     = "refresh_interval"
	KeyActionRefreshDelay  = "action_refresh_delay"
	KeyActivityDays        = "activity_days"
	KeyLanguage            = "language"
	KeyStoreBackend        = "store.backend"
	KeyStorePath           = "store.path"
	KeyGridRowHeight       = "grid.row_height"
	KeyGridRowGap          = "grid.row_gap"
	KeyGridColumnGap       = "grid.column_gap"
	KeyGridPadding         = "grid.padding"
	KeyGridMinTrackWidth   = "grid.min_track_width"
	KeyGridDefaultWidgetHt = "grid.default_widget_height"
	KeyLogLevel            = "log.level"
	KeyLogFormat           = "log.format"
)

// Store backends
const (
	BackendDiskv       = "diskv"
	BackendPreferences = "preferences"
)

// Default values
const (
	DefaultControllerURL      = "http://127.0.0.1:8000"
	DefaultRefreshInterval    = 2 * time.Second
	DefaultActionRefreshDelay = 400 * time.Millisecond
	DefaultActivityDays       = 182
	DefaultLanguage           = "system"
	DefaultStoreBackend       = BackendDiskv
	DefaultStorePath          = "~/.toolboard/state"
	DefaultColumnGap          = 20
	DefaultMinTrackWidth      = 320
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// EnvPrefix prefixes every environment override, e.g. TOOLBOARD_CONTROLLER_URL
const EnvPrefix = "TOOLBOARD"

// ConfigName is the config file name without extension
const ConfigName = "toolboard"

// StoreConfig selects where the layout is persisted
type StoreConfig struct {
	Backend string
	Path    string
}

// GridConfig holds the presentation constants of the card grid
type GridConfig struct {
	RowHeight           float64
	RowGap              float64
	ColumnGap           float64
	Padding             float64
	MinTrackWidth       float64
	DefaultWidgetHeight float64
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string
	Format string
}

// Config is the resolved application configuration
type Config struct {
	ControllerURL      string
	RefreshInterval    time.Duration
	ActionRefreshDelay time.Duration
	ActivityDays       int
	Language           string
	Store              StoreConfig
	Grid               GridConfig
	Log                LogConfig
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	t := grid.DefaultTuning()
	v.SetDefault(KeyControllerURL, DefaultControllerURL)
	v.SetDefault(KeyRefreshInterval, DefaultRefreshInterval)
	v.SetDefault(KeyActionRefreshDelay, DefaultActionRefreshDelay)
	v.SetDefault(KeyActivityDays, DefaultActivityDays)
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyStoreBackend, DefaultStoreBackend)
	v.SetDefault(KeyStorePath, DefaultStorePath)
	v.SetDefault(KeyGridRowHeight, t.RowHeight)
	v.SetDefault(KeyGridRowGap, t.RowGap)
	v.SetDefault(KeyGridColumnGap, DefaultColumnGap)
	v.SetDefault(KeyGridPadding, t.Padding)
	v.SetDefault(KeyGridMinTrackWidth, DefaultMinTrackWidth)
	v.SetDefault(KeyGridDefaultWidgetHt, t.DefaultWidgetHeight)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
}

// Load reads defaults, an optional config file and TOOLBOARD_ environment overrides.
// An explicit configFile must exist; otherwise toolboard.yaml is looked up in
// ~/.toolboard and the working directory, and a missing file is fine.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath("$HOME/.toolboard")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper snapshots the values of v without validating them
func FromViper(v *viper.Viper) *Config {
	return &Config{
		ControllerURL:      strings.TrimSpace(v.GetString(KeyControllerURL)),
		RefreshInterval:    v.GetDuration(KeyRefreshInterval),
		ActionRefreshDelay: v.GetDuration(KeyActionRefreshDelay),
		ActivityDays:       v.GetInt(KeyActivityDays),
		Language:           v.GetString(KeyLanguage),
		Store: StoreConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreBackend))),
			Path:    v.GetString(KeyStorePath),
		},
		Grid: GridConfig{
			RowHeight:           v.GetFloat64(KeyGridRowHeight),
			RowGap:              v.GetFloat64(KeyGridRowGap),
			ColumnGap:           v.GetFloat64(KeyGridColumnGap),
			Padding:             v.GetFloat64(KeyGridPadding),
			MinTrackWidth:       v.GetFloat64(KeyGridMinTrackWidth),
			DefaultWidgetHeight: v.GetFloat64(KeyGridDefaultWidgetHt),
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	if c.ControllerURL == "" {
		return fmt.Errorf("%s must not be empty", KeyControllerURL)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyRefreshInterval, c.RefreshInterval)
	}
	if c.ActionRefreshDelay < 0 {
		return fmt.Errorf("%s must not be negative", KeyActionRefreshDelay)
	}
	switch c.Store.Backend {
	case BackendDiskv, BackendPreferences:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", KeyStoreBackend, BackendDiskv, BackendPreferences, c.Store.Backend)
	}
	if c.Grid.RowHeight <= 0 || c.Grid.RowGap < 0 || c.Grid.ColumnGap < 0 || c.Grid.Padding < 0 {
		return errors.New("grid sizes must be positive")
	}
	if c.Grid.MinTrackWidth <= 0 || c.Grid.DefaultWidgetHeight <= 0 {
		return errors.New("grid track width and widget height must be positive")
	}
	return nil
}

// Tuning returns the grid tuning described by the config
func (c *Config) Tuning() grid.Tuning {
	return grid.Tuning{
		RowHeight:           c.Grid.RowHeight,
		RowGap:              c.Grid.RowGap,
		Padding:             c.Grid.Padding,
		DefaultWidgetHeight: c.Grid.DefaultWidgetHeight,
	}
}

// StatePath returns the store directory with ~ expanded
func (c *Config) StatePath() (string, error) {
	path, err := homedir.Expand(c.Store.Path)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", KeyStorePath, err)
	}
	return path, nil
}
