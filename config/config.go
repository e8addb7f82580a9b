// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stratastor/logger"

	"github.com/jcronenberg/wicked2nm/internal/constants"
	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

// Settings is the process-wide migration configuration. It is constructed
// once at startup and passed read-only into every stage; no stage reaches
// for global state.
type Settings struct {
	// ContinueMigration logs warnings and carries best-effort data forward
	// instead of aborting the run.
	ContinueMigration bool `mapstructure:"continueMigration"`

	// DryRun assembles and dumps the state without contacting NetworkManager.
	DryRun bool `mapstructure:"dryRun"`

	// WithNetconfig merges the legacy netconfig DNS policy into the state.
	WithNetconfig bool `mapstructure:"withNetconfig"`

	NetconfigPath     string `mapstructure:"netconfigPath"`
	NetconfigDhcpPath string `mapstructure:"netconfigDhcpPath"`

	LogLevel string `mapstructure:"logLevel"`
}

// Load builds Settings from defaults, W2NM_* environment variables and the
// bound command line flags, in increasing precedence.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("continueMigration", false)
	v.SetDefault("dryRun", false)
	v.SetDefault("withNetconfig", false)
	v.SetDefault("netconfigPath", constants.NetconfigPath)
	v.SetDefault("netconfigDhcpPath", constants.NetconfigDhcpPath)
	v.SetDefault("logLevel", "info")

	v.SetEnvPrefix("W2NM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		// Flag names use dashes, settings keys use camelCase.
		bindings := map[string]string{
			"continueMigration": "continue-migration",
			"dryRun":            "dry-run",
			"withNetconfig":     "netconfig",
			"netconfigPath":     "netconfig-path",
			"netconfigDhcpPath": "netconfig-dhcp-path",
			"logLevel":          "log-level",
		}
		for key, name := range bindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrap(err, errors.ConfigLoadFailed).
						WithMetadata("flag", name)
				}
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, errors.Wrap(err, errors.ConfigLoadFailed)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Validate rejects settings combinations the engine cannot honor.
func (s *Settings) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ConfigValidationFailed, "unknown log level").
			WithMetadata("logLevel", s.LogLevel)
	}

	if s.WithNetconfig && s.NetconfigPath == "" {
		return errors.New(errors.ConfigValidationFailed, "netconfig requested without a path")
	}

	return nil
}

// NewLoggerConfig derives the logger configuration from the settings.
func NewLoggerConfig(s *Settings) logger.Config {
	if s == nil {
		return logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
	}

	return logger.Config{
		LogLevel:     s.LogLevel,
		EnableSentry: false,
		SentryDSN:    "",
	}
}
