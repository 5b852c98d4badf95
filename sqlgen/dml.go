package sqlgen

import (
	"fmt"
	"strings"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/types"
)

// CompileQuery renders a SELECT statement. Join-condition parameters are
// collected before where-clause parameters, matching the textual order of
// their placeholders.
func (c *Compiler) CompileQuery(q *query.Query) (*Statement, error) {
	if len(q.Selects) == 0 {
		return nil, fmt.Errorf("%w: query selects no expressions", ErrEmptyInstruction)
	}
	if q.From == nil {
		return nil, fmt.Errorf("%w: query has no source table", ErrEmptyInstruction)
	}

	sink := &argSink{}
	exprs := make([]string, len(q.Selects))
	for i, e := range q.Selects {
		if e.Fn != "" {
			exprs[i] = fmt.Sprintf("%s(%s)", strings.ToUpper(e.Fn), e.Col.QualifiedName())
		} else {
			exprs[i] = e.Col.QualifiedName()
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(exprs, ", "), q.From.Name())

	for _, j := range q.Joins {
		b.WriteString(" " + string(j.Type) + " " + j.Table.Name())
		if j.Alias != "" {
			b.WriteString(" AS " + j.Alias)
		}
		on, err := c.condition(j.On, sink)
		if err != nil {
			return nil, fmt.Errorf("join on %s: %w", j.Table.Name(), err)
		}
		b.WriteString(" ON " + on)
	}

	if q.Where != nil {
		where, err := c.condition(q.Where, sink)
		if err != nil {
			return nil, err
		}
		b.WriteString(" WHERE " + where)
	}

	if len(q.GroupBys) > 0 {
		names := make([]string, len(q.GroupBys))
		for i, g := range q.GroupBys {
			names[i] = g.QualifiedName()
		}
		b.WriteString(" GROUP BY " + strings.Join(names, ", "))
	}

	if len(q.OrderBys) > 0 {
		entries := make([]string, len(q.OrderBys))
		for i, o := range q.OrderBys {
			entries[i] = o.Col.QualifiedName() + " " + string(o.Dir)
		}
		b.WriteString(" ORDER BY " + strings.Join(entries, ", "))
	}

	if q.Limit != query.Unset {
		b.WriteString(" LIMIT ?")
		sink.add(int64(q.Limit))
	}
	if q.Offset != query.Unset {
		b.WriteString(" OFFSET ?")
		sink.add(int64(q.Offset))
	}

	stmt := c.finalize(b.String(), sink)
	stmt.Selects = q.Selects
	return stmt, nil
}

// CompileInsert renders a single-row INSERT. The target table is taken
// from the first assignment's column only; later assignments are not
// checked against it.
func (c *Compiler) CompileInsert(ins query.InsertSingle) (*Statement, error) {
	if len(ins.Values) == 0 {
		return nil, fmt.Errorf("%w: insert has no values", ErrEmptyInstruction)
	}
	table := ins.Values[0].Col.Table()
	cols, placeholders, sink, err := assignmentRow(ins.Values)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES(%s)",
		table.Name(), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return c.finalize(sql, sink), nil
}

// CompileInsertMultiple renders one INSERT with a VALUES tuple per row.
// Rows of unequal arity fail before any SQL is produced.
func (c *Compiler) CompileInsertMultiple(ins query.InsertMultiple) (*Statement, error) {
	if len(ins.Rows) == 0 || len(ins.Rows[0]) == 0 {
		return nil, fmt.Errorf("%w: multi-row insert has no values", ErrEmptyInstruction)
	}
	arity := len(ins.Rows[0])
	for i, row := range ins.Rows {
		if len(row) != arity {
			return nil, fmt.Errorf("%w: row %d has %d values, first row has %d",
				ErrArityMismatch, i, len(row), arity)
		}
	}

	table := ins.Rows[0][0].Col.Table()
	cols := make([]string, arity)
	for i, a := range ins.Rows[0] {
		cols[i] = a.Col.Name()
	}

	sink := &argSink{}
	tuples := make([]string, len(ins.Rows))
	for i, row := range ins.Rows {
		placeholders := make([]string, len(row))
		for j, a := range row {
			v, err := types.BindValue(a.Col.Kind(), a.Value)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", i, a.Col.Name(), err)
			}
			sink.add(v)
			placeholders[j] = "?"
		}
		tuples[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES%s",
		table.Name(), strings.Join(cols, ", "), strings.Join(tuples, ", "))
	return c.finalize(sql, sink), nil
}

// CompileMerge renders an upsert keyed on the key column, in the
// dialect's native style. Key-column uniqueness is the caller's
// responsibility.
func (c *Compiler) CompileMerge(m query.Merge) (*Statement, error) {
	if len(m.Values) == 0 {
		return nil, fmt.Errorf("%w: merge has no values", ErrEmptyInstruction)
	}
	if m.Key == nil {
		return nil, fmt.Errorf("%w: merge has no key column", ErrEmptyInstruction)
	}
	table := m.Values[0].Col.Table()
	cols, placeholders, sink, err := assignmentRow(m.Values)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	switch c.dialect.Merge {
	case MergeKey:
		fmt.Fprintf(&b, "MERGE INTO %s (%s) KEY(%s) VALUES(%s)",
			table.Name(), strings.Join(cols, ", "), m.Key.Name(), strings.Join(placeholders, ", "))

	case MergeOnConflict:
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES(%s) ON CONFLICT(%s) DO ",
			table.Name(), strings.Join(cols, ", "), strings.Join(placeholders, ", "), m.Key.Name())
		updates := mergeUpdates(cols, m.Key.Name(), "excluded.%s")
		if len(updates) == 0 {
			b.WriteString("NOTHING")
		} else {
			b.WriteString("UPDATE SET " + strings.Join(updates, ", "))
		}

	case MergeDuplicateKey:
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES(%s) ON DUPLICATE KEY UPDATE ",
			table.Name(), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
		updates := mergeUpdates(cols, m.Key.Name(), "VALUES(%s)")
		if len(updates) == 0 {
			// Nothing to rewrite besides the key; keep the statement valid.
			updates = []string{fmt.Sprintf("%s=%s", m.Key.Name(), m.Key.Name())}
		}
		b.WriteString(strings.Join(updates, ", "))
	}
	return c.finalize(b.String(), sink), nil
}

// CompileUpdate renders an UPDATE. SET-clause parameters precede
// WHERE-clause parameters.
func (c *Compiler) CompileUpdate(u query.Update) (*Statement, error) {
	if len(u.Set) == 0 {
		return nil, fmt.Errorf("%w: update sets no columns", ErrEmptyInstruction)
	}
	table := u.Set[0].Col.Table()
	sink := &argSink{}
	sets := make([]string, len(u.Set))
	for i, a := range u.Set {
		v, err := types.BindValue(a.Col.Kind(), a.Value)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", a.Col.Name(), err)
		}
		sink.add(v)
		sets[i] = a.Col.Name() + "=?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", table.Name(), strings.Join(sets, ", "))
	if u.Where != nil {
		where, err := c.condition(u.Where, sink)
		if err != nil {
			return nil, err
		}
		b.WriteString(" WHERE " + where)
	}
	return c.finalize(b.String(), sink), nil
}

// CompileDelete renders a DELETE.
func (c *Compiler) CompileDelete(d query.Delete) (*Statement, error) {
	if d.Table == nil {
		return nil, fmt.Errorf("%w: delete has no table", ErrEmptyInstruction)
	}
	sink := &argSink{}
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", d.Table.Name())
	if d.Where != nil {
		where, err := c.condition(d.Where, sink)
		if err != nil {
			return nil, err
		}
		b.WriteString(" WHERE " + where)
	}
	return c.finalize(b.String(), sink), nil
}

// assignmentRow coerces one row of assignments into column names,
// placeholders and bound args.
func assignmentRow(values []query.Assignment) ([]string, []string, *argSink, error) {
	sink := &argSink{}
	cols := make([]string, len(values))
	placeholders := make([]string, len(values))
	for i, a := range values {
		v, err := types.BindValue(a.Col.Kind(), a.Value)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("column %s: %w", a.Col.Name(), err)
		}
		sink.add(v)
		cols[i] = a.Col.Name()
		placeholders[i] = "?"
	}
	return cols, placeholders, sink, nil
}

// mergeUpdates builds the non-key update assignments of an upsert, with
// the right-hand side rendered by sourceFmt.
func mergeUpdates(cols []string, key string, sourceFmt string) []string {
	var updates []string
	for _, col := range cols {
		if col == key {
			continue
		}
		updates = append(updates, col+"="+fmt.Sprintf(sourceFmt, col))
	}
	return updates
}
