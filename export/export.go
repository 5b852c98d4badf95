// Package export provides file-based import and export: CSV dumps of
// whole tables and execution of SQL script files. Both are thin wrappers
// over the executor; no SQL text is built here beyond splitting scripts.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sqlspine/sqlspine/executor"
	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/schema"
)

// Selector is the slice of the execution surface the exporter needs;
// both *executor.Executor and *executor.Session satisfy it.
type Selector interface {
	Select(ctx context.Context, q *query.Query) (*executor.Rows, error)
}

// CSV writes every row of the table, ordered by its primary key, as CSV
// with a header line of column names.
func CSV(ctx context.Context, sel Selector, t *schema.Table, w io.Writer) error {
	q := query.SelectAll(t)
	for _, pk := range t.PrimaryKeys() {
		q.OrderBy(pk, query.Asc)
	}

	rows, err := sel.Select(ctx, q)
	if err != nil {
		return fmt.Errorf("export %s: %w", t.Name(), err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns()))
	for i, c := range t.Columns() {
		header[i] = c.Name()
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("export %s: %w", t.Name(), err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("export %s: %w", t.Name(), err)
	}
	cw.Flush()
	return cw.Error()
}

// CSVFile writes the table dump to a file on the given filesystem.
func CSVFile(ctx context.Context, sel Selector, t *schema.Table, fsys afero.Fs, path string) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return CSV(ctx, sel, t, f)
}

// RunScript executes a ;-separated SQL script file statement by
// statement. Intended for schema bootstrap and fixtures; the script text
// carries no caller values.
func RunScript(ctx context.Context, e *executor.Executor, fsys afero.Fs, path string) error {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read script %s: %w", path, err)
	}
	for i, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := e.ExecSQL(ctx, stmt); err != nil {
			return fmt.Errorf("script %s, statement %d: %w", path, i+1, err)
		}
	}
	return nil
}

func formatValue(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	case time.Time:
		return n.Format(time.RFC3339)
	default:
		return fmt.Sprint(n)
	}
}
