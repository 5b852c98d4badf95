package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlspine/sqlspine/cli/internal/ui"
	"github.com/sqlspine/sqlspine/exprparse"
	"github.com/sqlspine/sqlspine/query"
)

var (
	queryWhere string
	queryLimit int
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Query a table and print the rows",
	Long: `Select rows from a table, optionally filtered.

The --where flag takes an expression such as:

    sqlspine query users --where "age >= 18 AND name LIKE 'A%'"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryWhere, "where", "", "filter expression")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 100, "maximum rows to print")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	t, ok := reg.Table(args[0])
	if !ok {
		return fmt.Errorf("unknown table %s", args[0])
	}

	q := query.SelectAll(t).WithLimit(queryLimit)
	if queryWhere != "" {
		cond, err := exprparse.Parse(queryWhere, reg, t)
		if err != nil {
			return err
		}
		q.WhereCond(cond)
	}

	e, err := openExecutor()
	if err != nil {
		return err
	}
	defer e.Close()

	rows, err := e.Select(cmd.Context(), q)
	if err != nil {
		return err
	}
	defer rows.Close()

	headers := make([]string, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		headers = append(headers, col.Name())
	}

	var tableRows [][]string
	count := 0
	for rows.Next() {
		rec, err := rows.Record()
		if err != nil {
			return err
		}
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = fmt.Sprint(rec[h])
		}
		tableRows = append(tableRows, row)
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	ui.PrintTable(headers, tableRows)
	ui.PrintInfo("%d rows", count)
	return nil
}
