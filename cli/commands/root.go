// Package commands implements the sqlspine CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/config"
	"github.com/sqlspine/sqlspine/cli/internal/ui"
	"github.com/sqlspine/sqlspine/executor"
	"github.com/sqlspine/sqlspine/schema"
	"github.com/sqlspine/sqlspine/sqlgen"
)

var (
	cfg *config.Config

	flagSchema  string
	flagDialect string
	flagDSN     string
)

var rootCmd = &cobra.Command{
	Use:   "sqlspine",
	Short: "Typed SQL construction and execution toolkit",
	Long: `sqlspine builds and runs SQL from a typed schema definition.

Define tables in a YAML schema file, then generate DDL, run filtered
queries, export data and execute scripts against SQLite, MySQL,
PostgreSQL or any generic SQL server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagSchema != "" {
			cfg.SchemaPath = flagSchema
		}
		if flagDialect != "" {
			cfg.Dialect = flagDialect
		}
		if flagDSN != "" {
			cfg.DatabaseURL = flagDSN
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSchema, "schema", "", "path to the schema YAML file")
	rootCmd.PersistentFlags().StringVar(&flagDialect, "dialect", "", "SQL dialect: generic, sqlite, mysql or postgres")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "url", "", "database connection string (overrides DATABASE_URL)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

func loadRegistry() (*schema.Registry, error) {
	reg, err := schema.LoadFile(config.AppFs, cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", cfg.SchemaPath, err)
	}
	return reg, nil
}

func newCompiler() (*sqlgen.Compiler, error) {
	d, err := sqlgen.DialectFor(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return sqlgen.New(d), nil
}

func openExecutor() (*executor.Executor, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("no database URL: set DATABASE_URL or pass --url")
	}
	d, err := sqlgen.DialectFor(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return executor.Open(d, cfg.DatabaseURL)
}
