package commands

import (
	_ "embed"

	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/ui"
)

//go:embed usage.md
var usageDoc string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the usage guide",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.PrintMarkdown(usageDoc)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
