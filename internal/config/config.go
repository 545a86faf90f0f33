// Package config provides configuration management for streak.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/xvierd/streak/internal/domain"
)

// EnvPrefix is the prefix for environment overrides, e.g. STREAK_TIMER_TICK_INTERVAL.
const EnvPrefix = "STREAK"

const defaultDataDir = "~/.streak"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds all configuration for the streak application.
type Config struct {
	Presets       PresetsConfig      `mapstructure:"presets"`
	Timer         TimerConfig        `mapstructure:"timer"`
	Stats         StatsConfig        `mapstructure:"stats"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// PresetConfig describes one timer preset.
type PresetConfig struct {
	Name      string   `mapstructure:"name"`
	Duration  Duration `mapstructure:"duration"`
	Countable bool     `mapstructure:"countable"`
}

// PresetsConfig holds the four built-in presets.
type PresetsConfig struct {
	Focus      PresetConfig `mapstructure:"focus"`
	ShortFocus PresetConfig `mapstructure:"short_focus"`
	Break      PresetConfig `mapstructure:"break"`
	ShortBreak PresetConfig `mapstructure:"short_break"`
}

// TimerConfig holds countdown settings.
type TimerConfig struct {
	DefaultPreset string   `mapstructure:"default_preset"`
	TickInterval  Duration `mapstructure:"tick_interval"`
}

// StatsConfig holds statistics settings.
type StatsConfig struct {
	// Timezone is an IANA name or "Local". Day buckets and streaks use it.
	Timezone string `mapstructure:"timezone"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Backend string `mapstructure:"backend"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ThemeConfig holds TUI colors.
type ThemeConfig struct {
	ColorFocus    string `mapstructure:"color_focus"`
	ColorBreak    string `mapstructure:"color_break"`
	ColorPaused   string `mapstructure:"color_paused"`
	ColorTitle    string `mapstructure:"color_title"`
	ColorHelp     string `mapstructure:"color_help"`
	GradientStart string `mapstructure:"gradient_start"`
	GradientEnd   string `mapstructure:"gradient_end"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorFocus:    "#7C6FE0",
		ColorBreak:    "#4ECDC4",
		ColorPaused:   "#6B7280",
		ColorTitle:    "#A0AEC0",
		ColorHelp:     "#95A5A6",
		GradientStart: "#7C6FE0",
		GradientEnd:   "#A78BFA",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Presets: PresetsConfig{
			Focus:      PresetConfig{Name: "Focus", Duration: Duration(25 * time.Minute), Countable: true},
			ShortFocus: PresetConfig{Name: "Short Focus", Duration: Duration(15 * time.Minute), Countable: true},
			Break:      PresetConfig{Name: "Break", Duration: Duration(5 * time.Minute)},
			ShortBreak: PresetConfig{Name: "Short Break", Duration: Duration(3 * time.Minute)},
		},
		Timer: TimerConfig{
			DefaultPreset: domain.PresetFocus,
			TickInterval:  Duration(time.Second),
		},
		Stats: StatsConfig{Timezone: "Local"},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		MCP: MCPConfig{Enabled: true},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
			Backend: BackendSQLite,
		},
		Log:   LogConfig{Level: "warn"},
		Theme: DefaultThemeConfig(),
	}
}

// Load reads the configuration file at path, creating it with defaults when
// missing. An empty path means ~/.streak/config.toml. Environment variables
// with the STREAK_ prefix override file values, and a .env file next to the
// config file is loaded first.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := newViper(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(DefaultConfig(), path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Save writes cfg to the config file at path. An empty path means the
// default location.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	setPreset(v, "presets.focus", cfg.Presets.Focus)
	setPreset(v, "presets.short_focus", cfg.Presets.ShortFocus)
	setPreset(v, "presets.break", cfg.Presets.Break)
	setPreset(v, "presets.short_break", cfg.Presets.ShortBreak)
	v.Set("timer.default_preset", cfg.Timer.DefaultPreset)
	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("stats.timezone", cfg.Stats.Timezone)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("log.level", cfg.Log.Level)
	v.Set("theme.color_focus", cfg.Theme.ColorFocus)
	v.Set("theme.color_break", cfg.Theme.ColorBreak)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.gradient_start", cfg.Theme.GradientStart)
	v.Set("theme.gradient_end", cfg.Theme.GradientEnd)

	return v.WriteConfigAs(path)
}

func setPreset(v *viper.Viper, key string, p PresetConfig) {
	v.Set(key+".name", p.Name)
	v.Set(key+".duration", p.Duration.String())
	v.Set(key+".countable", p.Countable)
}

// newViper builds a viper instance with defaults and environment overrides.
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	for key, p := range map[string]PresetConfig{
		"presets.focus":       d.Presets.Focus,
		"presets.short_focus": d.Presets.ShortFocus,
		"presets.break":       d.Presets.Break,
		"presets.short_break": d.Presets.ShortBreak,
	} {
		v.SetDefault(key+".name", p.Name)
		v.SetDefault(key+".duration", p.Duration.String())
		v.SetDefault(key+".countable", p.Countable)
	}
	v.SetDefault("timer.default_preset", d.Timer.DefaultPreset)
	v.SetDefault("timer.tick_interval", d.Timer.TickInterval.String())
	v.SetDefault("stats.timezone", d.Stats.Timezone)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("log.level", d.Log.Level)

	theme := d.Theme
	v.SetDefault("theme.color_focus", theme.ColorFocus)
	v.SetDefault("theme.color_break", theme.ColorBreak)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.gradient_start", theme.GradientStart)
	v.SetDefault("theme.gradient_end", theme.GradientEnd)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".streak", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "streak.db")
}

// GetLogPath returns the path to the log file used while the TUI owns the terminal.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "streak.log")
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}

// DomainPresets converts the preset section to a domain.PresetSet.
// Entries with a non-positive duration fall back to the built-in default.
func (c *Config) DomainPresets() domain.PresetSet {
	defaults := domain.DefaultPresets()
	set := domain.NewPresetSet()
	for _, entry := range []struct {
		id  string
		cfg PresetConfig
	}{
		{domain.PresetFocus, c.Presets.Focus},
		{domain.PresetShortFocus, c.Presets.ShortFocus},
		{domain.PresetBreak, c.Presets.Break},
		{domain.PresetShortBreak, c.Presets.ShortBreak},
	} {
		p := domain.Preset{
			ID:              entry.id,
			Name:            entry.cfg.Name,
			DurationSeconds: int(time.Duration(entry.cfg.Duration) / time.Second),
			Countable:       entry.cfg.Countable,
		}
		if !set.Put(p) {
			d, _ := defaults.Get(entry.id)
			set.Put(d)
		}
	}
	return set
}

// Preset returns the config section for a preset ID.
func (c *Config) Preset(id string) (*PresetConfig, bool) {
	switch id {
	case domain.PresetFocus:
		return &c.Presets.Focus, true
	case domain.PresetShortFocus:
		return &c.Presets.ShortFocus, true
	case domain.PresetBreak:
		return &c.Presets.Break, true
	case domain.PresetShortBreak:
		return &c.Presets.ShortBreak, true
	}
	return nil, false
}

// DefaultPreset returns the configured starting preset, falling back to focus.
func (c *Config) DefaultPreset() domain.Preset {
	presets := c.DomainPresets()
	if p, ok := presets.Get(c.Timer.DefaultPreset); ok {
		return p
	}
	p, _ := presets.Get(domain.PresetFocus)
	return p
}

// TickInterval returns the ticker interval, at least 100ms.
func (c *Config) TickInterval() time.Duration {
	d := time.Duration(c.Timer.TickInterval)
	if d < 100*time.Millisecond {
		return time.Second
	}
	return d
}

// Location resolves the statistics timezone. Unknown names fall back to Local.
func (c *Config) Location() *time.Location {
	switch c.Stats.Timezone {
	case "", "Local":
		return time.Local
	case "UTC":
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Stats.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
