// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcronenberg/wicked2nm/internal/constants"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show wicked2nm version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wicked2nm Version: %s\n", constants.Version)
			fmt.Printf("Commit: %s\n", constants.CommitSHA)
			fmt.Printf("Build Time: %s\n", constants.BuildTime)
		},
	}
}
