package query

import "github.com/sqlspine/sqlspine/schema"

// Assignment pairs a column with the value to write into it.
type Assignment struct {
	Col   *schema.Column
	Value interface{}
}

// Set builds one column=value pair.
func Set(col *schema.Column, v interface{}) Assignment {
	return Assignment{Col: col, Value: v}
}

// InsertSingle inserts one row. The target table is taken from the first
// assignment's column; the remaining assignments are not cross-checked
// against it.
type InsertSingle struct {
	Values []Assignment
}

// Insert builds a single-row insert.
func Insert(values ...Assignment) InsertSingle {
	return InsertSingle{Values: values}
}

// InsertMultiple inserts several rows in one statement. All rows must
// share the same column arity; a mismatch fails compilation outright, no
// partial insert happens.
type InsertMultiple struct {
	Rows [][]Assignment
}

// InsertMany builds a multi-row insert.
func InsertMany(rows ...[]Assignment) InsertMultiple {
	return InsertMultiple{Rows: rows}
}

// Update rewrites columns on rows matching the condition. The target
// table is taken from the first assignment's column.
type Update struct {
	Set   []Assignment
	Where Condition
}

// Delete removes rows matching the condition, or all rows when the
// condition is nil.
type Delete struct {
	Table *schema.Table
	Where Condition
}

// Merge upserts one row keyed on Key. The schema should declare Key
// unique; the compiler does not verify that.
type Merge struct {
	Key    *schema.Column
	Values []Assignment
}
