// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"github.com/spf13/cobra"
	"github.com/stratastor/logger"

	"github.com/jcronenberg/wicked2nm/config"
	"github.com/jcronenberg/wicked2nm/internal/constants"
	"github.com/jcronenberg/wicked2nm/pkg/migrate"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [paths...]",
		Short: "Migrate wicked interface descriptors to NetworkManager",
		Long: `Parses wicked XML interface descriptors and applies the equivalent
NetworkManager connection profiles. Paths may be XML files, directories
searched recursively, or "-" to read from stdin. Without arguments the
wicked configuration directory is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			log, err := logger.NewTag(config.NewLoggerConfig(settings), "migrate")
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths = []string{constants.WickedConfigDir}
			}

			adapter := nm.NewNetworkManagerAdapter(log)
			m := migrate.NewMigrator(log, settings, adapter)
			return m.Run(cmd.Context(), paths)
		},
	}
}
