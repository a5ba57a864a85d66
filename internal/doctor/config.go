package doctor

import (
	"context"
	"fmt"

	"github.com/nightdriver/ndsmon/internal/config"
	"github.com/nightdriver/ndsmon/internal/errors"
)

// ConfigFileCheck reports which config file is in use. Running on
// defaults is fine, so a missing file only passes with a note.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    errors.Message(err),
			Suggestion: "Check the --config path and its permissions",
		}
	}
	if path == "" {
		return CheckResult{
			Status:  StatusPass,
			Message: "No config file, using defaults and NDSMON_* environment",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

// ConfigSchemaCheck loads and validates the config that would be used,
// including a --server override.
type ConfigSchemaCheck struct {
	ConfigPath string
	Server     string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "CONFIG" }

func (c *ConfigSchemaCheck) Run(context.Context) CheckResult {
	cfg, path, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", errors.Message(err)),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}
	if c.Server != "" {
		cfg.Server = c.Server
	}
	if err := config.Validate(cfg); err != nil {
		source := path
		if source == "" {
			source = "the NDSMON_* environment"
		}
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %s", errors.Message(err)),
			Suggestion: "Fix the configuration errors in " + source,
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "Schema valid",
	}
}
