// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package show

import (
	"github.com/spf13/cobra"
	"github.com/stratastor/logger"

	"github.com/jcronenberg/wicked2nm/config"
	"github.com/jcronenberg/wicked2nm/internal/constants"
	"github.com/jcronenberg/wicked2nm/pkg/migrate"
)

func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [paths...]",
		Short: "Print the migrated state without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			// show never touches the system
			settings.DryRun = true

			log, err := logger.NewTag(config.NewLoggerConfig(settings), "show")
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths = []string{constants.WickedConfigDir}
			}

			m := migrate.NewMigrator(log, settings, nil)
			return m.Run(cmd.Context(), paths)
		},
	}
}
