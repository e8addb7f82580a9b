// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcronenberg/wicked2nm/internal/constants"
	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load(nil)
	require.NoError(t, err)

	assert.False(t, settings.ContinueMigration)
	assert.False(t, settings.DryRun)
	assert.False(t, settings.WithNetconfig)
	assert.Equal(t, constants.NetconfigPath, settings.NetconfigPath)
	assert.Equal(t, constants.NetconfigDhcpPath, settings.NetconfigDhcpPath)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestLoadBindsFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("continue-migration", false, "")
	flags.Bool("dry-run", false, "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--dry-run", "--log-level=debug"}))

	settings, err := Load(flags)
	require.NoError(t, err)
	assert.True(t, settings.DryRun)
	assert.False(t, settings.ContinueMigration)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{
			name:     "defaults are valid",
			settings: Settings{LogLevel: "info"},
		},
		{
			name:     "unknown log level",
			settings: Settings{LogLevel: "loud"},
			wantErr:  true,
		},
		{
			name:     "netconfig without path",
			settings: Settings{LogLevel: "info", WithNetconfig: true},
			wantErr:  true,
		},
		{
			name: "netconfig with path",
			settings: Settings{
				LogLevel:      "info",
				WithNetconfig: true,
				NetconfigPath: "/etc/sysconfig/network/config",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ConfigValidationFailed))
				return
			}
			require.NoError(t, err)
		})
	}
}
