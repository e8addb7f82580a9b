package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jcronenberg/wicked2nm/cmd/migrate"
	"github.com/jcronenberg/wicked2nm/cmd/show"
	"github.com/jcronenberg/wicked2nm/cmd/version"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wicked2nm",
		Short: "Migrate wicked network configuration to NetworkManager",
	}

	flags := rootCmd.PersistentFlags()
	flags.Bool("continue-migration", false,
		"log warnings and continue instead of aborting")
	flags.Bool("dry-run", false,
		"assemble and print the resulting state without applying it")
	flags.Bool("netconfig", false,
		"merge the netconfig DNS policy into the migrated state")
	flags.String("netconfig-path", "",
		"path of the netconfig DNS policy document")
	flags.String("netconfig-dhcp-path", "",
		"path of the netconfig DHCP policy document")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(migrate.NewMigrateCmd())
	rootCmd.AddCommand(show.NewShowCmd())
	rootCmd.AddCommand(version.NewVersionCmd())

	return rootCmd
}
