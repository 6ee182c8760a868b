// Package config provides configuration management for somatic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/somatic/internal/domain"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// SOMATIC_SESSION_DURATION_SECONDS.
const EnvPrefix = "SOMATIC"

// Config holds all configuration for the somatic application.
type Config struct {
	Session       SessionConfig      `mapstructure:"session"`
	Afterglow     AfterglowConfig    `mapstructure:"afterglow"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// SessionConfig holds player session settings.
type SessionConfig struct {
	// DurationSeconds has no default. A zero value fails validation.
	DurationSeconds int      `mapstructure:"duration_seconds"`
	Grace           Duration `mapstructure:"grace"`
}

// AfterglowConfig holds the closing sequence timing.
type AfterglowConfig struct {
	PhaseDwell  []Duration `mapstructure:"phase_dwell"`
	AutoDismiss Duration   `mapstructure:"auto_dismiss"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorTitle             string `mapstructure:"color_title"`
	ColorHelp              string `mapstructure:"color_help"`
	ColorPaused            string `mapstructure:"color_paused"`
	ColorText              string `mapstructure:"color_text"`
	AfterglowGradientStart string `mapstructure:"afterglow_gradient_start"`
	AfterglowGradientEnd   string `mapstructure:"afterglow_gradient_end"`
	IconApp                string `mapstructure:"icon_app"`
	IconPaused             string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorTitle:             "#F3F4F6",
		ColorHelp:              "#95A5A6",
		ColorPaused:            "#6B7280",
		ColorText:              "#D1D5DB",
		AfterglowGradientStart: "#34D399",
		AfterglowGradientEnd:   "#14B8A6",
		IconApp:                "🫧",
		IconPaused:             "⏸",
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

const defaultLogFile = "~/.somatic/somatic.log"

// DefaultConfig returns the default configuration. The session duration is
// left unset on purpose; it must come from the file, the environment or a flag.
func DefaultConfig() *Config {
	session := domain.DefaultSessionConfig(0)
	dwell := make([]Duration, len(session.PhaseDwell))
	for i, d := range session.PhaseDwell {
		dwell[i] = Duration(d)
	}
	return &Config{
		Session: SessionConfig{
			Grace: Duration(session.Grace),
		},
		Afterglow: AfterglowConfig{
			PhaseDwell:  dwell,
			AutoDismiss: Duration(session.AutoDismiss),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogFile,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating the file with
// defaults when it does not exist. Environment variables override the file.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	logFile, err := expandHome(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	cfg.Log.File = logFile

	return &cfg, nil
}

// Save saves the configuration to configPath.
func Save(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	dwell := make([]string, len(cfg.Afterglow.PhaseDwell))
	for i, d := range cfg.Afterglow.PhaseDwell {
		dwell[i] = d.String()
	}

	v.Set("session.duration_seconds", cfg.Session.DurationSeconds)
	v.Set("session.grace", cfg.Session.Grace.String())
	v.Set("afterglow.phase_dwell", dwell)
	v.Set("afterglow.auto_dismiss", cfg.Afterglow.AutoDismiss.String())
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_text", cfg.Theme.ColorText)
	v.Set("theme.afterglow_gradient_start", cfg.Theme.AfterglowGradientStart)
	v.Set("theme.afterglow_gradient_end", cfg.Theme.AfterglowGradientEnd)
	v.Set("theme.icon_app", cfg.Theme.IconApp)
	v.Set("theme.icon_paused", cfg.Theme.IconPaused)

	return v.WriteConfig()
}

// GetConfigDir returns the directory holding somatic's files.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".somatic"), nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Validate reports the first setting that cannot drive a session.
func (c *Config) Validate() error {
	if c.Session.DurationSeconds == 0 {
		return fmt.Errorf("%w: set session.duration_seconds in the config file, %s_SESSION_DURATION_SECONDS, or --duration",
			domain.ErrDurationNotSet, EnvPrefix)
	}
	if err := c.ToSessionConfig().Validate(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// ToSessionConfig converts the config to the domain SessionConfig.
func (c *Config) ToSessionConfig() domain.SessionConfig {
	dwell := make([]time.Duration, len(c.Afterglow.PhaseDwell))
	for i, d := range c.Afterglow.PhaseDwell {
		dwell[i] = time.Duration(d)
	}
	return domain.SessionConfig{
		DurationSeconds: c.Session.DurationSeconds,
		Grace:           time.Duration(c.Session.Grace),
		PhaseDwell:      dwell,
		AutoDismiss:     time.Duration(c.Afterglow.AutoDismiss),
	}
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	// No default exists for the duration, so AutomaticEnv alone would not
	// see it during Unmarshal.
	_ = v.BindEnv("session.duration_seconds")
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	dwell := make([]string, len(defaults.Afterglow.PhaseDwell))
	for i, d := range defaults.Afterglow.PhaseDwell {
		dwell[i] = d.String()
	}

	v.SetDefault("session.grace", defaults.Session.Grace.String())
	v.SetDefault("afterglow.phase_dwell", dwell)
	v.SetDefault("afterglow.auto_dismiss", defaults.Afterglow.AutoDismiss.String())
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", true)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)

	// Theme defaults
	theme := defaults.Theme
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_text", theme.ColorText)
	v.SetDefault("theme.afterglow_gradient_start", theme.AfterglowGradientStart)
	v.SetDefault("theme.afterglow_gradient_end", theme.AfterglowGradientEnd)
	v.SetDefault("theme.icon_app", theme.IconApp)
	v.SetDefault("theme.icon_paused", theme.IconPaused)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
