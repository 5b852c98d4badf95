package sqlgen

import (
	"fmt"
	"strings"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/types"
)

// condition renders one node of the condition tree, appending every bound
// value to the sink. The append order matches the left-to-right order of
// the ? placeholders in the returned fragment; this holds recursively for
// arbitrarily nested groups.
func (c *Compiler) condition(cond query.Condition, sink *argSink) (string, error) {
	switch n := cond.(type) {
	case query.ColumnCondition:
		return fmt.Sprintf("%s %s %s", n.Left.QualifiedName(), n.Op, n.Right.QualifiedName()), nil

	case query.NullCondition:
		if n.Negate {
			return n.Col.QualifiedName() + " IS NOT NULL", nil
		}
		return n.Col.QualifiedName() + " IS NULL", nil

	case query.DirectCondition:
		v, err := types.BindValue(n.Col.Col.Kind(), n.Value)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", n.Col.QualifiedName(), err)
		}
		sink.add(v)
		return fmt.Sprintf("%s %s ?", n.Col.QualifiedName(), n.Op), nil

	case query.LikeCondition:
		sink.add(n.Pattern)
		if n.Negate {
			return n.Col.QualifiedName() + " NOT LIKE ?", nil
		}
		return n.Col.QualifiedName() + " LIKE ?", nil

	case query.RegexCondition:
		sink.add(n.Source)
		if n.Negate {
			return fmt.Sprintf("%s NOT %s ?", n.Col.QualifiedName(), c.dialect.RegexpOp), nil
		}
		return fmt.Sprintf("%s %s ?", n.Col.QualifiedName(), c.dialect.RegexpOp), nil

	case query.RangeCondition:
		return c.rangeCondition(n, sink)

	case query.Group:
		if len(n.Children) == 0 {
			return "", fmt.Errorf("%w: condition group has no children", ErrEmptyInstruction)
		}
		parts := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			sql, err := c.condition(child, sink)
			if err != nil {
				return "", err
			}
			parts = append(parts, sql)
		}
		connective := strings.ToUpper(string(n.Connective))
		return "(" + strings.Join(parts, " "+connective+" ") + ")", nil

	default:
		return "", fmt.Errorf("unsupported condition %T", cond)
	}
}

func (c *Compiler) rangeCondition(n query.RangeCondition, sink *argSink) (string, error) {
	kind := n.Col.Col.Kind()
	if n.Op == query.RangeBetween {
		if len(n.Values) != 2 {
			return "", fmt.Errorf("%w: BETWEEN needs exactly 2 values, got %d", ErrArityMismatch, len(n.Values))
		}
		for _, v := range n.Values {
			bound, err := types.BindValue(kind, v)
			if err != nil {
				return "", fmt.Errorf("column %s: %w", n.Col.QualifiedName(), err)
			}
			sink.add(bound)
		}
		return n.Col.QualifiedName() + " BETWEEN ? AND ?", nil
	}

	placeholders := make([]string, len(n.Values))
	for i, v := range n.Values {
		bound, err := types.BindValue(kind, v)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", n.Col.QualifiedName(), err)
		}
		sink.add(bound)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("%s %s(%s)", n.Col.QualifiedName(), n.Op, strings.Join(placeholders, ", ")), nil
}
