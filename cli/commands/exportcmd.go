package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/config"
	"github.com/sqlspine/sqlspine/cli/internal/ui"
	"github.com/sqlspine/sqlspine/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Export a table to CSV",
	Long:  "Dump every row of a table as CSV, ordered by primary key",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	t, ok := reg.Table(args[0])
	if !ok {
		return fmt.Errorf("unknown table %s", args[0])
	}

	e, err := openExecutor()
	if err != nil {
		return err
	}
	defer e.Close()

	if exportOut == "" {
		return export.CSV(cmd.Context(), e, t, os.Stdout)
	}

	spinner, _ := ui.PrintSpinner(fmt.Sprintf("Exporting %s...", t.Name()))
	if err := export.CSVFile(cmd.Context(), e, t, config.AppFs, exportOut); err != nil {
		spinner.Fail("Export failed")
		return err
	}
	spinner.Success(fmt.Sprintf("Exported %s to %s", t.Name(), exportOut))
	return nil
}
