package executor

import (
	"database/sql"
	"fmt"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/types"
)

// Rows iterates a result set, coercing raw driver values into the native
// types declared by the selected columns.
type Rows struct {
	rows    *sql.Rows
	selects []query.SelectExpr
}

// Next advances to the next row.
func (r *Rows) Next() bool { return r.rows.Next() }

// Err reports the first iteration error.
func (r *Rows) Err() error { return r.rows.Err() }

// Close releases the result set.
func (r *Rows) Close() error { return r.rows.Close() }

// Scan passes through to database/sql for callers that want raw values.
func (r *Rows) Scan(dest ...interface{}) error { return r.rows.Scan(dest...) }

// Values reads the current row as typed values, in select-list order.
// Function expressions pass through uncoerced; plain column references
// are converted per the column's declared kind.
func (r *Rows) Values() ([]interface{}, error) {
	raw := make([]interface{}, len(r.selects))
	ptrs := make([]interface{}, len(r.selects))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	out := make([]interface{}, len(r.selects))
	for i, sel := range r.selects {
		if sel.Fn != "" {
			out[i] = raw[i]
			continue
		}
		v, err := types.ScanValue(sel.Col.Col.Kind(), raw[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", sel.Col.QualifiedName(), err)
		}
		out[i] = v
	}
	return out, nil
}

// Record reads the current row as a name-keyed map. Aliased references
// key as "alias.column" to stay unambiguous in self-joins.
func (r *Rows) Record() (map[string]interface{}, error) {
	values, err := r.Values()
	if err != nil {
		return nil, err
	}
	rec := make(map[string]interface{}, len(values))
	for i, sel := range r.selects {
		key := sel.Col.Col.Name()
		if sel.Col.TableAlias != "" {
			key = sel.Col.QualifiedName()
		}
		if sel.Fn != "" {
			key = sel.Fn + "(" + key + ")"
		}
		rec[key] = values[i]
	}
	return rec, nil
}
