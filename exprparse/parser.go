// Package exprparse parses textual filter expressions such as
//
//	users.age >= 18 AND (users.name LIKE 'A%' OR users.email IS NOT NULL)
//
// into condition trees. It exists for surfaces that accept filters as
// text (the CLI); programs compose query conditions directly.
package exprparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/schema"
	"github.com/sqlspine/sqlspine/types"
)

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|IS|NULL|IN|LIKE|REGEXP|TRUE|FALSE)\b`},
	{Name: "Op", Pattern: `<=|>=|<>|!=|=|<|>`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var parser = participle.MustBuild[expression](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(3),
)

type expression struct {
	First *andTerm   `@@`
	Rest  []*andTerm `( "OR" @@ )*`
}

type andTerm struct {
	First *primary   `@@`
	Rest  []*primary `( "AND" @@ )*`
}

type primary struct {
	Sub  *expression `"(" @@ ")"`
	Pred *predicate  `| @@`
}

type predicate struct {
	Ref  *columnRef `@@`
	Null *nullTail  `( @@`
	In   *inTail    `| @@`
	Cmp  *cmpTail   `| @@ )`
}

type columnRef struct {
	First  string `@Ident`
	Second string `( "." @Ident )?`
}

type nullTail struct {
	Not bool `"IS" @"NOT"? "NULL"`
}

type inTail struct {
	Not    bool     `@"NOT"? "IN"`
	Values []*value `"(" @@ ( "," @@ )* ")"`
}

type cmpTail struct {
	Not   bool   `@"NOT"?`
	Op    string `@( Op | "LIKE" | "REGEXP" )`
	Value *value `@@`
}

type value struct {
	Str    *string `@String`
	Number *string `| @Number`
	True   bool    `| @"TRUE"`
	False  bool    `| @"FALSE"`
}

// Parse turns a filter expression into a condition tree. Bare column
// names resolve against defaultTable; qualified names resolve through
// the registry.
func Parse(input string, reg *schema.Registry, defaultTable *schema.Table) (query.Condition, error) {
	ast, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	conv := &converter{reg: reg, def: defaultTable}
	return conv.expression(ast)
}

type converter struct {
	reg *schema.Registry
	def *schema.Table
}

func (c *converter) expression(e *expression) (query.Condition, error) {
	first, err := c.andTerm(e.First)
	if err != nil {
		return nil, err
	}
	if len(e.Rest) == 0 {
		return first, nil
	}
	children := []query.Condition{first}
	for _, t := range e.Rest {
		cond, err := c.andTerm(t)
		if err != nil {
			return nil, err
		}
		children = append(children, cond)
	}
	return query.OrGroup(children...), nil
}

func (c *converter) andTerm(t *andTerm) (query.Condition, error) {
	first, err := c.primary(t.First)
	if err != nil {
		return nil, err
	}
	if len(t.Rest) == 0 {
		return first, nil
	}
	children := []query.Condition{first}
	for _, p := range t.Rest {
		cond, err := c.primary(p)
		if err != nil {
			return nil, err
		}
		children = append(children, cond)
	}
	return query.AndGroup(children...), nil
}

func (c *converter) primary(p *primary) (query.Condition, error) {
	if p.Sub != nil {
		return c.expression(p.Sub)
	}
	return c.predicate(p.Pred)
}

func (c *converter) predicate(p *predicate) (query.Condition, error) {
	col, err := c.resolve(p.Ref)
	if err != nil {
		return nil, err
	}

	switch {
	case p.Null != nil:
		if p.Null.Not {
			return query.NotNull(col), nil
		}
		return query.Null(col), nil

	case p.In != nil:
		values := make([]interface{}, len(p.In.Values))
		for i, v := range p.In.Values {
			lit, err := literal(v, col.Kind())
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name(), err)
			}
			values[i] = lit
		}
		if p.In.Not {
			return query.NotIn(col, values...), nil
		}
		return query.In(col, values...), nil

	case p.Cmp != nil:
		return c.comparison(col, p.Cmp)

	default:
		return nil, fmt.Errorf("column %s: incomplete predicate", col.Name())
	}
}

func (c *converter) comparison(col *schema.Column, cmp *cmpTail) (query.Condition, error) {
	op := strings.ToUpper(cmp.Op)
	if cmp.Not && op != "LIKE" && op != "REGEXP" {
		return nil, fmt.Errorf("NOT is only valid before LIKE or REGEXP, not %s", op)
	}

	switch op {
	case "LIKE", "REGEXP":
		if cmp.Value.Str == nil {
			return nil, fmt.Errorf("%s needs a string pattern", op)
		}
		pattern := unquote(*cmp.Value.Str)
		switch {
		case op == "LIKE" && cmp.Not:
			return query.NotLike(col, pattern), nil
		case op == "LIKE":
			return query.Like(col, pattern), nil
		case cmp.Not:
			return query.NotRegexp(col, pattern), nil
		default:
			return query.Regexp(col, pattern), nil
		}
	}

	lit, err := literal(cmp.Value, col.Kind())
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col.Name(), err)
	}
	switch op {
	case "=":
		return query.Eq(col, lit), nil
	case "!=", "<>":
		return query.Ne(col, lit), nil
	case ">":
		return query.Gt(col, lit), nil
	case ">=":
		return query.Ge(col, lit), nil
	case "<":
		return query.Lt(col, lit), nil
	case "<=":
		return query.Le(col, lit), nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", op)
	}
}

func (c *converter) resolve(ref *columnRef) (*schema.Column, error) {
	if ref.Second == "" {
		if c.def == nil {
			return nil, fmt.Errorf("bare column %s needs a default table", ref.First)
		}
		col, ok := c.def.Column(ref.First)
		if !ok {
			return nil, fmt.Errorf("table %s has no column %s", c.def.Name(), ref.First)
		}
		return col, nil
	}
	t, ok := c.reg.Table(ref.First)
	if !ok {
		return nil, fmt.Errorf("unknown table %s", ref.First)
	}
	col, ok := t.Column(ref.Second)
	if !ok {
		return nil, fmt.Errorf("table %s has no column %s", ref.First, ref.Second)
	}
	return col, nil
}

// literal converts a parsed value token into the native type the column
// expects.
func literal(v *value, kind types.Kind) (interface{}, error) {
	switch {
	case v.Str != nil:
		if kind != types.String {
			return nil, fmt.Errorf("string literal for %s column", kind)
		}
		return unquote(*v.Str), nil

	case v.Number != nil:
		switch kind {
		case types.Int:
			n, err := strconv.Atoi(*v.Number)
			if err != nil {
				return nil, fmt.Errorf("bad int literal %q", *v.Number)
			}
			return n, nil
		case types.Int64:
			n, err := strconv.ParseInt(*v.Number, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad int64 literal %q", *v.Number)
			}
			return n, nil
		case types.Float64:
			n, err := strconv.ParseFloat(*v.Number, 64)
			if err != nil {
				return nil, fmt.Errorf("bad float literal %q", *v.Number)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("numeric literal for %s column", kind)
		}

	case v.True || v.False:
		if kind != types.Bool {
			return nil, fmt.Errorf("boolean literal for %s column", kind)
		}
		return v.True, nil

	default:
		return nil, fmt.Errorf("empty literal")
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
