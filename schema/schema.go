// Package schema holds the static typed description of a database schema:
// tables, columns and their properties. Schema entities are built once at
// startup and are immutable afterwards; cross-table references (foreign
// keys) are stored as name pairs and resolved through a Registry rather
// than as live pointers.
package schema

import (
	"fmt"

	"github.com/sqlspine/sqlspine/types"
)

// TriggerEvent names a statement kind a trigger fires on.
type TriggerEvent string

const (
	TriggerInsert TriggerEvent = "INSERT"
	TriggerUpdate TriggerEvent = "UPDATE"
	TriggerDelete TriggerEvent = "DELETE"
	TriggerSelect TriggerEvent = "SELECT"
)

// Triggers configures the trigger events of a table and the handler they
// call.
type Triggers struct {
	Handler string
	Events  []TriggerEvent
}

// Index is a table-level index over one or more columns.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// ForeignKey references a column of another table by name.
type ForeignKey struct {
	Table  string
	Column string
}

// Table is an ordered set of columns plus table-level properties. Column
// order is the declaration order and drives generated DDL.
type Table struct {
	name     string
	columns  []*Column
	byName   map[string]*Column
	indexes  []Index
	triggers *Triggers
}

// NewTable creates an empty table description.
func NewTable(name string) *Table {
	return &Table{name: name, byName: make(map[string]*Column)}
}

func (t *Table) Name() string { return t.name }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column { return t.columns }

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// MustColumn looks up a column and panics when it is absent. Intended for
// schema definitions wired at startup.
func (t *Table) MustColumn(name string) *Column {
	c, ok := t.byName[name]
	if !ok {
		panic(fmt.Sprintf("schema: table %s has no column %s", t.name, name))
	}
	return c
}

// AddColumn declares a new column. The table owns the column exclusively;
// redeclaring a name is an error.
func (t *Table) AddColumn(name string, kind types.Kind, opts ...ColumnOption) (*Column, error) {
	if _, dup := t.byName[name]; dup {
		return nil, fmt.Errorf("schema: duplicate column %s.%s", t.name, name)
	}
	c := &Column{table: t, name: name, kind: kind}
	for _, opt := range opts {
		opt(c)
	}
	if c.autoIncrement {
		c.primaryKey = true
	}
	t.columns = append(t.columns, c)
	t.byName[name] = c
	return c, nil
}

// MustAddColumn is AddColumn for startup-time schema definitions.
func (t *Table) MustAddColumn(name string, kind types.Kind, opts ...ColumnOption) *Column {
	c, err := t.AddColumn(name, kind, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// AddIndex declares a table-level index.
func (t *Table) AddIndex(name string, unique bool, columns ...string) {
	t.indexes = append(t.indexes, Index{Name: name, Columns: columns, Unique: unique})
}

// Indexes returns the table-level indexes in declaration order.
func (t *Table) Indexes() []Index { return t.indexes }

// SetTriggers configures the table's trigger events.
func (t *Table) SetTriggers(handler string, events ...TriggerEvent) {
	t.triggers = &Triggers{Handler: handler, Events: events}
}

// Triggers returns the trigger configuration, or nil when none is set.
func (t *Table) Triggers() *Triggers { return t.triggers }

// PrimaryKeys returns the primary-key columns in declaration order.
func (t *Table) PrimaryKeys() []*Column {
	var pks []*Column
	for _, c := range t.columns {
		if c.primaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

// AutoIncrementCount reports how many columns are auto-increment. Some
// dialects allow at most one per table; the compiler enforces that.
func (t *Table) AutoIncrementCount() int {
	n := 0
	for _, c := range t.columns {
		if c.autoIncrement {
			n++
		}
	}
	return n
}

// Column belongs to exactly one table and carries a value kind tag plus
// the column-level properties.
type Column struct {
	table         *Table
	name          string
	kind          types.Kind
	primaryKey    bool
	autoIncrement bool
	unique        bool
	notNull       bool
	def           interface{}
	indexName     string
	foreignKey    *ForeignKey
}

// ColumnOption configures a column at declaration time.
type ColumnOption func(*Column)

// PrimaryKey marks the column as part of the table's primary key.
func PrimaryKey() ColumnOption { return func(c *Column) { c.primaryKey = true } }

// AutoIncrement marks the column auto-increment, which implies PrimaryKey.
func AutoIncrement() ColumnOption { return func(c *Column) { c.autoIncrement = true } }

// Unique adds a uniqueness constraint.
func Unique() ColumnOption { return func(c *Column) { c.unique = true } }

// NotNull forbids NULL values.
func NotNull() ColumnOption { return func(c *Column) { c.notNull = true } }

// Default records a default literal for the column.
func Default(v interface{}) ColumnOption { return func(c *Column) { c.def = v } }

// Indexed requests a single-column index with the given name.
func Indexed(name string) ColumnOption { return func(c *Column) { c.indexName = name } }

// References declares a foreign key to another table's column.
func References(table, column string) ColumnOption {
	return func(c *Column) { c.foreignKey = &ForeignKey{Table: table, Column: column} }
}

func (c *Column) Table() *Table           { return c.table }
func (c *Column) Name() string            { return c.name }
func (c *Column) Kind() types.Kind        { return c.kind }
func (c *Column) IsPrimaryKey() bool      { return c.primaryKey }
func (c *Column) IsAutoIncrement() bool   { return c.autoIncrement }
func (c *Column) IsUnique() bool          { return c.unique }
func (c *Column) IsNotNull() bool         { return c.notNull }
func (c *Column) DefaultValue() interface{} { return c.def }
func (c *Column) IndexName() string       { return c.indexName }
func (c *Column) ForeignKey() *ForeignKey { return c.foreignKey }

// Ref returns an unaliased reference to the column.
func (c *Column) Ref() ColumnRef { return ColumnRef{Col: c} }

// As returns a reference that resolves through a table alias, for joins
// where the same table appears more than once.
func (c *Column) As(tableAlias string) ColumnRef {
	return ColumnRef{Col: c, TableAlias: tableAlias}
}

// ColumnRef is a column plus an optional table alias. It renders as
// "alias.column" when aliased and "table.column" otherwise.
type ColumnRef struct {
	Col        *Column
	TableAlias string
}

// Ref makes ColumnRef satisfy Referencer.
func (r ColumnRef) Ref() ColumnRef { return r }

// QualifiedName returns the SQL name of the reference.
func (r ColumnRef) QualifiedName() string {
	if r.TableAlias != "" {
		return r.TableAlias + "." + r.Col.Name()
	}
	return r.Col.Table().Name() + "." + r.Col.Name()
}

// Referencer is anything that resolves to a column reference: a *Column
// or an aliased ColumnRef.
type Referencer interface {
	Ref() ColumnRef
}
