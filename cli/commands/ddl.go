package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/ui"
	"github.com/sqlspine/sqlspine/cli/internal/watch"
)

var (
	ddlApply bool
	ddlWatch bool
)

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Generate DDL from the schema",
	Long: `Generate CREATE TABLE statements, indexes, foreign keys and triggers
for every table in the schema file.

With --apply the statements run against the configured database.
With --watch the schema file is re-rendered on every change.`,
	RunE: runDDL,
}

func init() {
	ddlCmd.Flags().BoolVar(&ddlApply, "apply", false, "execute the DDL against the database")
	ddlCmd.Flags().BoolVar(&ddlWatch, "watch", false, "re-render when the schema file changes")
	rootCmd.AddCommand(ddlCmd)
}

func runDDL(cmd *cobra.Command, args []string) error {
	if ddlWatch && ddlApply {
		return fmt.Errorf("--watch and --apply are mutually exclusive")
	}

	if ddlWatch {
		w, err := watch.NewWatcher(cfg.SchemaPath, renderDDL)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		ui.PrintInfo("Watching %s for changes. Press Ctrl+C to stop.", cfg.SchemaPath)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		return nil
	}

	if ddlApply {
		return applyDDL(cmd.Context())
	}
	return renderDDL()
}

func renderDDL() error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	c, err := newCompiler()
	if err != nil {
		return err
	}

	var out strings.Builder
	for _, t := range reg.Tables() {
		stmt, err := c.CreateTable(t, true)
		if err != nil {
			return err
		}
		out.WriteString(stmt)
		out.WriteString("\n")
		for _, extra := range c.TableExtras(t) {
			out.WriteString(extra)
			out.WriteString("\n")
		}
	}

	ui.PrintCodeBlock(strings.TrimRight(out.String(), "\n"))
	return nil
}

func applyDDL(ctx context.Context) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	e, err := openExecutor()
	if err != nil {
		return err
	}
	defer e.Close()

	spinner, _ := ui.PrintSpinner("Applying schema...")
	if err := e.CreateSchema(ctx, reg); err != nil {
		spinner.Fail("Schema apply failed")
		return err
	}
	spinner.Success("Schema applied")

	ui.PrintSuccess("Created %d tables", len(reg.Tables()))
	return nil
}
