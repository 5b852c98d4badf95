package sqlgen

import (
	"fmt"
	"strings"

	"github.com/sqlspine/sqlspine/schema"
)

// CreateTable renders the CREATE TABLE statement for a table. Column
// order follows the declaration order; per-column clauses are fixed as
// type, NOT NULL, auto-increment, UNIQUE; the primary key is always a
// trailing clause, even for single-column keys.
func (c *Compiler) CreateTable(t *schema.Table, ifNotExists bool) (string, error) {
	if c.dialect.SingleAutoIncrement && t.AutoIncrementCount() > 1 {
		return "", fmt.Errorf("%w: table %s declares %d auto-increment columns, dialect %s allows one",
			ErrSchemaViolation, t.Name(), t.AutoIncrementCount(), c.dialect.Name)
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(t.Name())
	b.WriteString("(")

	for i, col := range t.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.Name() + " " + c.dialect.TypeName(col.Kind()))
		if col.IsNotNull() {
			b.WriteString(" NOT NULL")
		}
		if col.IsAutoIncrement() {
			b.WriteString(" " + c.dialect.AutoIncrement)
		}
		if col.IsUnique() {
			b.WriteString(" UNIQUE")
		}
	}

	if pks := t.PrimaryKeys(); len(pks) > 0 {
		names := make([]string, len(pks))
		for i, pk := range pks {
			names[i] = pk.Name()
		}
		b.WriteString(", PRIMARY KEY(" + strings.Join(names, ", ") + ")")
	}

	b.WriteString(");")
	return b.String(), nil
}

// TableExtras renders the statements that accompany a CREATE TABLE, in
// three ordered phases: foreign keys, then indexes, then triggers.
func (c *Compiler) TableExtras(t *schema.Table) []string {
	var stmts []string

	for _, col := range t.Columns() {
		fk := col.ForeignKey()
		if fk == nil {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD FOREIGN KEY(%s) REFERENCES %s(%s);",
			t.Name(), col.Name(), fk.Table, fk.Column))
	}

	for _, col := range t.Columns() {
		if col.IndexName() == "" {
			continue
		}
		stmts = append(stmts, createIndex(col.IndexName(), col.IsUnique(), t.Name(), []string{col.Name()}))
	}
	for _, idx := range t.Indexes() {
		stmts = append(stmts, createIndex(idx.Name, idx.Unique, t.Name(), idx.Columns))
	}

	if trig := t.Triggers(); trig != nil {
		for _, ev := range trig.Events {
			stmts = append(stmts, createTrigger(t.Name(), ev, trig.Handler))
		}
	}
	return stmts
}

func createIndex(name string, unique bool, table string, cols []string) string {
	kw := "CREATE INDEX"
	if unique {
		kw = "CREATE UNIQUE INDEX"
	}
	return fmt.Sprintf("%s IF NOT EXISTS %s ON %s(%s);", kw, name, table, strings.Join(cols, ", "))
}

// createTrigger renders one trigger statement. Insert, update and delete
// triggers are row-level AFTER triggers; select triggers fire BEFORE at
// statement level and carry no FOR EACH ROW.
func createTrigger(table string, ev schema.TriggerEvent, handler string) string {
	timing := "AFTER"
	forEachRow := " FOR EACH ROW"
	if ev == schema.TriggerSelect {
		timing = "BEFORE"
		forEachRow = ""
	}
	return fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS %s_%s_TRIGGER %s %s ON %s%s CALL %s;",
		table, ev, timing, ev, table, forEachRow, handler)
}
