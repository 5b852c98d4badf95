package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/update"
	"github.com/sqlspine/sqlspine/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		fmt.Println(info.String())
		return update.CheckForUpdates(info.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
