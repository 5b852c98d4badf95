package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/config"
	"github.com/sqlspine/sqlspine/cli/internal/ui"
	"github.com/sqlspine/sqlspine/export"
)

var executeCmd = &cobra.Command{
	Use:   "execute <sql-file>",
	Short: "Execute a SQL script",
	Long:  "Run each statement of a SQL file against the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecute,
}

func init() {
	rootCmd.AddCommand(executeCmd)
}

func runExecute(cmd *cobra.Command, args []string) error {
	e, err := openExecutor()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := export.RunScript(cmd.Context(), e, config.AppFs, args[0]); err != nil {
		return err
	}
	ui.PrintSuccess("Executed %s", args[0])
	return nil
}
