package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/config"
	"github.com/sqlspine/sqlspine/cli/internal/ui"
)

var starterSchema = `# sqlspine schema definition
tables:
  - name: users
    columns:
      - name: id
        type: int64
        auto_increment: true
      - name: email
        type: string
        unique: true
        not_null: true
      - name: name
        type: string
      - name: created
        type: time
        not_null: true
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new sqlspine project",
	Long:  "Create a starter schema file and save the configuration",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ui.PrintHeader("sqlspine", "Typed SQL construction and execution")

	answers := struct {
		SchemaPath  string
		Dialect     string
		DatabaseURL string
	}{}

	questions := []*survey.Question{
		{
			Name: "schemaPath",
			Prompt: &survey.Input{
				Message: "Schema file path:",
				Default: "schema.yaml",
			},
			Validate: survey.Required,
		},
		{
			Name: "dialect",
			Prompt: &survey.Select{
				Message: "SQL dialect:",
				Options: []string{"generic", "sqlite", "mysql", "postgres"},
				Default: "generic",
			},
		},
		{
			Name: "databaseURL",
			Prompt: &survey.Input{
				Message: "Database URL (leave empty to use DATABASE_URL):",
			},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	if exists, _ := afero.Exists(config.AppFs, answers.SchemaPath); exists {
		ui.PrintWarning("Schema file already exists: %s", answers.SchemaPath)
	} else {
		if err := afero.WriteFile(config.AppFs, answers.SchemaPath, []byte(starterSchema), 0644); err != nil {
			return fmt.Errorf("failed to create schema file: %w", err)
		}
		ui.PrintSuccess("Created schema file: %s", answers.SchemaPath)
	}

	newCfg := &config.Config{
		SchemaPath: answers.SchemaPath,
		Dialect:    answers.Dialect,
		OutputPath: ".",
	}
	if err := config.SaveConfig(newCfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	ui.PrintSuccess("Saved configuration")

	if answers.DatabaseURL != "" {
		envContent := fmt.Sprintf("DATABASE_URL=%q\n", answers.DatabaseURL)
		if exists, _ := afero.Exists(config.AppFs, ".env"); !exists {
			if err := afero.WriteFile(config.AppFs, ".env", []byte(envContent), 0644); err != nil {
				return fmt.Errorf("failed to create .env: %w", err)
			}
			ui.PrintSuccess("Created .env file")
		}
	}

	ui.PrintInfo("Next: edit %s, then run `sqlspine ddl` to see the generated SQL", answers.SchemaPath)
	return nil
}
