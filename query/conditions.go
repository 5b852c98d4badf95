// Package query defines the typed statement models: the recursive
// condition algebra and the five instruction kinds the compiler accepts.
// All of its values are transient; they are built per call, compiled once
// and discarded.
package query

import "github.com/sqlspine/sqlspine/schema"

// Op is a comparison operator usable in column and direct conditions.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "<>"
	OpGt Op = ">"
	OpGe Op = ">="
	OpLt Op = "<"
	OpLe Op = "<="
)

// RangeOp selects the shape of a range condition.
type RangeOp string

const (
	RangeBetween RangeOp = "BETWEEN"
	RangeIn      RangeOp = "IN"
	RangeNotIn   RangeOp = "NOT IN"
)

// Connective joins the children of a condition group.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// Condition is the closed variant set of filter expressions. The concrete
// types below are the only implementations; the compiler dispatches on
// them exhaustively.
type Condition interface {
	isCondition()
}

// ColumnCondition compares two column references; it binds no parameters.
type ColumnCondition struct {
	Left  schema.ColumnRef
	Op    Op
	Right schema.ColumnRef
}

// NullCondition tests a column against NULL; it binds no parameters.
type NullCondition struct {
	Col    schema.ColumnRef
	Negate bool
}

// DirectCondition compares a column against a literal, which becomes one
// bound parameter.
type DirectCondition struct {
	Col   schema.ColumnRef
	Op    Op
	Value interface{}
}

// LikeCondition is a pattern match; the pattern becomes one parameter.
type LikeCondition struct {
	Col     schema.ColumnRef
	Pattern string
	Negate  bool
}

// RegexCondition is a regular-expression match; the source becomes one
// parameter.
type RegexCondition struct {
	Col    schema.ColumnRef
	Source string
	Negate bool
}

// RangeCondition matches a column against a value list. Every value
// becomes one parameter, in list order.
type RangeCondition struct {
	Col    schema.ColumnRef
	Op     RangeOp
	Values []interface{}
}

// Group is a boolean combination of child conditions.
type Group struct {
	Connective Connective
	Children   []Condition
}

func (ColumnCondition) isCondition() {}
func (NullCondition) isCondition()   {}
func (DirectCondition) isCondition() {}
func (LikeCondition) isCondition()   {}
func (RegexCondition) isCondition()  {}
func (RangeCondition) isCondition()  {}
func (Group) isCondition()           {}

// Eq builds col = value.
func Eq(col schema.Referencer, v interface{}) Condition {
	return DirectCondition{Col: col.Ref(), Op: OpEq, Value: v}
}

// Ne builds col <> value.
func Ne(col schema.Referencer, v interface{}) Condition {
	return DirectCondition{Col: col.Ref(), Op: OpNe, Value: v}
}

// Gt builds col > value.
func Gt(col schema.Referencer, v interface{}) Condition {
	return DirectCondition{Col: col.Ref(), Op: OpGt, Value: v}
}

// Ge builds col >= value.
func Ge(col schema.Referencer, v interface{}) Condition {
	return DirectCondition{Col: col.Ref(), Op: OpGe, Value: v}
}

// Lt builds col < value.
func Lt(col schema.Referencer, v interface{}) Condition {
	return DirectCondition{Col: col.Ref(), Op: OpLt, Value: v}
}

// Le builds col <= value.
func Le(col schema.Referencer, v interface{}) Condition {
	return DirectCondition{Col: col.Ref(), Op: OpLe, Value: v}
}

// Cols compares two columns, e.g. orders.user_id = users.id in a join.
func Cols(left schema.Referencer, op Op, right schema.Referencer) Condition {
	return ColumnCondition{Left: left.Ref(), Op: op, Right: right.Ref()}
}

// Null builds col IS NULL.
func Null(col schema.Referencer) Condition {
	return NullCondition{Col: col.Ref()}
}

// NotNull builds col IS NOT NULL.
func NotNull(col schema.Referencer) Condition {
	return NullCondition{Col: col.Ref(), Negate: true}
}

// Like builds col LIKE pattern.
func Like(col schema.Referencer, pattern string) Condition {
	return LikeCondition{Col: col.Ref(), Pattern: pattern}
}

// NotLike builds col NOT LIKE pattern.
func NotLike(col schema.Referencer, pattern string) Condition {
	return LikeCondition{Col: col.Ref(), Pattern: pattern, Negate: true}
}

// Regexp builds col REGEXP source.
func Regexp(col schema.Referencer, source string) Condition {
	return RegexCondition{Col: col.Ref(), Source: source}
}

// NotRegexp builds col NOT REGEXP source.
func NotRegexp(col schema.Referencer, source string) Condition {
	return RegexCondition{Col: col.Ref(), Source: source, Negate: true}
}

// Between builds col BETWEEN lo AND hi.
func Between(col schema.Referencer, lo, hi interface{}) Condition {
	return RangeCondition{Col: col.Ref(), Op: RangeBetween, Values: []interface{}{lo, hi}}
}

// In builds col IN(v1, v2, ...).
func In(col schema.Referencer, values ...interface{}) Condition {
	return RangeCondition{Col: col.Ref(), Op: RangeIn, Values: values}
}

// NotIn builds col NOT IN(v1, v2, ...).
func NotIn(col schema.Referencer, values ...interface{}) Condition {
	return RangeCondition{Col: col.Ref(), Op: RangeNotIn, Values: values}
}

// AndGroup combines conditions with AND.
func AndGroup(children ...Condition) Condition {
	return Group{Connective: And, Children: children}
}

// OrGroup combines conditions with OR.
func OrGroup(children ...Condition) Condition {
	return Group{Connective: Or, Children: children}
}
