package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/prefs"
)

// MinPollDelay is the shortest accepted poll_delay.
const MinPollDelay = 10 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but ndsmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade ndsmon, or lower the version in your config")
	}

	if err := ValidateServer(cfg.Server); err != nil {
		return err
	}

	if cfg.PollDelay < MinPollDelay {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll_delay %s is too short", cfg.PollDelay),
			fmt.Sprintf("Use at least %s so the server isn't hammered", MinPollDelay))
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"request_timeout must be positive",
			"Set it to a duration like 5s")
	}

	if err := validateNotifications(cfg.Notifications); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'notifications' section in your .ndsmon.yaml.")
	}

	if !prefs.ValidBackend(cfg.Preferences.Backend) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown preferences backend '%s'", cfg.Preferences.Backend),
			"Use one of: "+strings.Join(prefs.Backends, ", "))
	}

	if err := validateDelta(cfg.Delta); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'delta' section in your .ndsmon.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .ndsmon.yaml.")
	}

	return nil
}

// ValidateServer checks that server is an absolute http(s) URL.
func ValidateServer(server string) error {
	u, err := url.Parse(server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid server URL '%s'", server),
			"Use an http(s) URL like http://localhost:7777/api")
	}
	return nil
}

func validateNotifications(n NotificationsConfig) error {
	if n.MaxVisible < 1 {
		return fmt.Errorf("notifications.max_visible must be at least 1, got %d", n.MaxVisible)
	}
	if n.TTL <= 0 {
		return fmt.Errorf("notifications.ttl must be positive, got %s", n.TTL)
	}
	return nil
}

func validateDelta(d DeltaConfig) error {
	if d.Threshold <= 0 {
		return fmt.Errorf("delta.threshold must be positive, got %g", d.Threshold)
	}
	if d.Width < 1 {
		return fmt.Errorf("delta.width must be at least 1, got %d", d.Width)
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	switch o.Color {
	case "", "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("output.color must be auto, always or never, got '%s'", o.Color)
}
