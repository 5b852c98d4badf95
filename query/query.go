package query

import (
	"github.com/sqlspine/sqlspine/schema"
)

// Unset marks an absent limit or offset.
const Unset = -1

// JoinType selects the join keyword emitted for a Join.
type JoinType string

const (
	Join      JoinType = "JOIN"
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	LeftOuter JoinType = "LEFT OUTER JOIN"
	OuterJoin JoinType = "OUTER JOIN"
)

// Direction orders a sort entry.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SelectExpr is one entry of a select list: a column reference, optionally
// wrapped in a function application such as COUNT or MAX.
type SelectExpr struct {
	Col schema.ColumnRef
	Fn  string
}

// Col makes a bare column select expression.
func Col(ref schema.Referencer) SelectExpr {
	return SelectExpr{Col: ref.Ref()}
}

// Fn wraps a column in a function application, e.g. Fn("count", col).
func Fn(fn string, ref schema.Referencer) SelectExpr {
	return SelectExpr{Col: ref.Ref(), Fn: fn}
}

// JoinClause attaches another table to a query. It is consumed once at
// compile time.
type JoinClause struct {
	Type  JoinType
	Table *schema.Table
	Alias string
	On    Condition
}

// OrderEntry is one order-by expression with its direction.
type OrderEntry struct {
	Col schema.ColumnRef
	Dir Direction
}

// Query is the typed description of a SELECT statement.
type Query struct {
	Selects  []SelectExpr
	From     *schema.Table
	Joins    []JoinClause
	Where    Condition
	GroupBys []schema.ColumnRef
	OrderBys []OrderEntry
	Limit    int
	Offset   int
}

// Select starts a query with the given select expressions.
func Select(exprs ...SelectExpr) *Query {
	return &Query{Selects: exprs, Limit: Unset, Offset: Unset}
}

// SelectColumns starts a query selecting the given columns bare.
func SelectColumns(cols ...schema.Referencer) *Query {
	exprs := make([]SelectExpr, len(cols))
	for i, c := range cols {
		exprs[i] = Col(c)
	}
	return Select(exprs...)
}

// SelectAll starts a query selecting every column of the table, in
// declaration order, with the table as source.
func SelectAll(t *schema.Table) *Query {
	q := &Query{Limit: Unset, Offset: Unset, From: t}
	for _, c := range t.Columns() {
		q.Selects = append(q.Selects, Col(c))
	}
	return q
}

// FromTable sets the query source.
func (q *Query) FromTable(t *schema.Table) *Query {
	q.From = t
	return q
}

// JoinOn attaches a join clause.
func (q *Query) JoinOn(jt JoinType, t *schema.Table, alias string, on Condition) *Query {
	q.Joins = append(q.Joins, JoinClause{Type: jt, Table: t, Alias: alias, On: on})
	return q
}

// WhereCond sets the filter condition.
func (q *Query) WhereCond(c Condition) *Query {
	q.Where = c
	return q
}

// GroupBy appends grouping columns.
func (q *Query) GroupBy(cols ...schema.Referencer) *Query {
	for _, c := range cols {
		q.GroupBys = append(q.GroupBys, c.Ref())
	}
	return q
}

// OrderBy appends one ordered sort entry.
func (q *Query) OrderBy(col schema.Referencer, dir Direction) *Query {
	q.OrderBys = append(q.OrderBys, OrderEntry{Col: col.Ref(), Dir: dir})
	return q
}

// WithLimit sets the row limit.
func (q *Query) WithLimit(n int) *Query {
	q.Limit = n
	return q
}

// WithOffset sets the row offset.
func (q *Query) WithOffset(n int) *Query {
	q.Offset = n
	return q
}
