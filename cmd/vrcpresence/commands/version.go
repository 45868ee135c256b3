package commands

import (
	"fmt"

	"github.com/livp123/vrcpresence/internal/version"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Show the current version of vrcpresence`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vrcpresence %s\n", version.Version)
	},
}
