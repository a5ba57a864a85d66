package config

import (
	"time"

	"github.com/nightdriver/ndsmon/internal/prefs"
)

// CurrentConfigVersion is the config schema version this build understands.
const CurrentConfigVersion = 1

// Config is the ndsmon configuration, read from .ndsmon.yaml or the global
// config file and overridden by NDSMON_* environment variables.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Server is the base URL of the canvas server API.
	Server string `yaml:"server" mapstructure:"server"`

	// PollDelay is the minimum pause between the end of one poll and the next.
	PollDelay time.Duration `yaml:"poll_delay" mapstructure:"poll_delay"`

	// RequestTimeout bounds every request to the server.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	Preferences   PreferencesConfig   `yaml:"preferences" mapstructure:"preferences"`
	Delta         DeltaConfig         `yaml:"delta" mapstructure:"delta"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
}

// NotificationsConfig controls the on-screen notification stack.
type NotificationsConfig struct {
	MaxVisible int           `yaml:"max_visible" mapstructure:"max_visible"`
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// PreferencesConfig selects where table preferences are stored.
type PreferencesConfig struct {
	// Backend is "file", "pebble" or "memory".
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Path overrides the backend's default location. Supports ~.
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// DeltaConfig sizes the clock-delta meter shown in the fleet table.
type DeltaConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
	Width     int     `yaml:"width" mapstructure:"width"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// Defaults shared by DefaultConfig and the viper defaults.
const (
	DefaultServer         = "http://localhost:7777/api"
	DefaultPollDelay      = 80 * time.Millisecond
	DefaultRequestTimeout = 5 * time.Second
	DefaultMaxVisible     = 5
	DefaultTTL            = 5 * time.Second
	DefaultDeltaThreshold = 3.0
	DefaultDeltaWidth     = 5
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		Server:         DefaultServer,
		PollDelay:      DefaultPollDelay,
		RequestTimeout: DefaultRequestTimeout,
		Notifications: NotificationsConfig{
			MaxVisible: DefaultMaxVisible,
			TTL:        DefaultTTL,
		},
		Preferences: PreferencesConfig{
			Backend: prefs.BackendFile,
		},
		Delta: DeltaConfig{
			Threshold: DefaultDeltaThreshold,
			Width:     DefaultDeltaWidth,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// PreferencesPath returns the configured preferences location, falling back
// to the backend's default.
func (c *Config) PreferencesPath() string {
	if c.Preferences.Path != "" {
		return ExpandPath(c.Preferences.Path)
	}
	return prefs.DefaultPath(c.Preferences.Backend)
}
