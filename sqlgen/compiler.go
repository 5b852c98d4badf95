// Package sqlgen compiles typed statement models into SQL text plus an
// ordered bind-parameter list. The compiler is pure: identical inputs
// produce byte-identical statements, and it holds no mutable state, so
// it is safe for concurrent use.
package sqlgen

import (
	"github.com/sqlspine/sqlspine/query"
)

// Statement is compiled SQL with its positional arguments. The Nth ?
// placeholder in SQL corresponds to Args[N].
type Statement struct {
	SQL  string
	Args []interface{}

	// Selects carries the select list of a compiled query so the result
	// iterator can coerce row values; nil for other statement kinds.
	Selects []query.SelectExpr
}

// Compiler renders statements for one dialect.
type Compiler struct {
	dialect *Dialect
}

// New creates a compiler. A nil dialect means Generic.
func New(d *Dialect) *Compiler {
	if d == nil {
		d = Generic
	}
	return &Compiler{dialect: d}
}

// Dialect returns the compiler's target dialect.
func (c *Compiler) Dialect() *Dialect { return c.dialect }

// argSink accumulates bind parameters during a compile walk. Append order
// must exactly track placeholder emission order.
type argSink struct {
	args []interface{}
}

func (s *argSink) add(v interface{}) {
	s.args = append(s.args, v)
}

// finalize applies the dialect's placeholder style and packages the
// statement.
func (c *Compiler) finalize(sql string, sink *argSink) *Statement {
	if c.dialect.NumberedArgs {
		sql = Rebind(sql)
	}
	return &Statement{SQL: sql, Args: sink.args}
}
