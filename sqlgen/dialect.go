package sqlgen

import (
	"fmt"
	"strings"

	"github.com/sqlspine/sqlspine/types"
)

// MergeStyle selects how a Merge instruction is rendered.
type MergeStyle int

const (
	// MergeKey renders MERGE INTO ... KEY(...) VALUES(...).
	MergeKey MergeStyle = iota
	// MergeOnConflict renders INSERT ... ON CONFLICT(key) DO UPDATE.
	MergeOnConflict
	// MergeDuplicateKey renders INSERT ... ON DUPLICATE KEY UPDATE.
	MergeDuplicateKey
)

// Dialect is the keyword/type-name table for one SQL target. Dialects are
// plain data; the compiler consults them but never mutates them.
type Dialect struct {
	Name       string
	DriverName string

	typeNames     map[types.Kind]string
	AutoIncrement string
	RegexpOp      string
	Merge         MergeStyle

	// NumberedArgs rewrites ? placeholders into $1..$n at the text stage.
	NumberedArgs bool

	// SingleAutoIncrement restricts tables to at most one auto-increment
	// column.
	SingleAutoIncrement bool

	// MinServerVersion gates connections; empty skips the check.
	MinServerVersion string
	VersionQuery     string
}

// TypeName returns the DDL type keyword for a column kind.
func (d *Dialect) TypeName(k types.Kind) string {
	if n, ok := d.typeNames[k]; ok {
		return n
	}
	return strings.ToUpper(k.String())
}

// Generic is the default dialect: ? placeholders, MERGE ... KEY upserts,
// REGEXP matching, and an explicit unbounded-varchar marker.
var Generic = &Dialect{
	Name: "generic",
	typeNames: map[types.Kind]string{
		types.Int:     "INTEGER",
		types.Int64:   "BIGINT",
		types.Float64: "DOUBLE",
		types.Bool:    "BOOLEAN",
		types.String:  "VARCHAR(2147483647)",
		types.Time:    "TIMESTAMP",
	},
	AutoIncrement:       "AUTO_INCREMENT",
	RegexpOp:            "REGEXP",
	Merge:               MergeKey,
	SingleAutoIncrement: true,
}

// SQLite targets mattn/go-sqlite3.
var SQLite = &Dialect{
	Name:       "sqlite",
	DriverName: "sqlite3",
	typeNames: map[types.Kind]string{
		types.Int:     "INTEGER",
		types.Int64:   "INTEGER",
		types.Float64: "REAL",
		types.Bool:    "BOOLEAN",
		types.String:  "TEXT",
		types.Time:    "TIMESTAMP",
	},
	AutoIncrement:       "AUTOINCREMENT",
	RegexpOp:            "REGEXP",
	Merge:               MergeOnConflict,
	SingleAutoIncrement: true,
	MinServerVersion:    "3.24",
	VersionQuery:        "SELECT sqlite_version()",
}

// MySQL targets go-sql-driver/mysql.
var MySQL = &Dialect{
	Name:       "mysql",
	DriverName: "mysql",
	typeNames: map[types.Kind]string{
		types.Int:     "INT",
		types.Int64:   "BIGINT",
		types.Float64: "DOUBLE",
		types.Bool:    "BOOLEAN",
		types.String:  "LONGTEXT",
		types.Time:    "DATETIME",
	},
	AutoIncrement:       "AUTO_INCREMENT",
	RegexpOp:            "REGEXP",
	Merge:               MergeDuplicateKey,
	SingleAutoIncrement: true,
	MinServerVersion:    "5.7",
	VersionQuery:        "SELECT version()",
}

// Postgres targets lib/pq. Statements are rebound to $n placeholders.
var Postgres = &Dialect{
	Name:       "postgres",
	DriverName: "postgres",
	typeNames: map[types.Kind]string{
		types.Int:     "INTEGER",
		types.Int64:   "BIGINT",
		types.Float64: "DOUBLE PRECISION",
		types.Bool:    "BOOLEAN",
		types.String:  "TEXT",
		types.Time:    "TIMESTAMP",
	},
	AutoIncrement:    "GENERATED BY DEFAULT AS IDENTITY",
	RegexpOp:         "~",
	Merge:            MergeOnConflict,
	NumberedArgs:     true,
	MinServerVersion: "9.5",
	VersionQuery:     "SELECT version()",
}

// DialectFor maps a provider name to its dialect.
func DialectFor(name string) (*Dialect, error) {
	switch name {
	case "", "generic":
		return Generic, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return Postgres, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
}

// Rebind rewrites ? placeholders to numbered $n ones. Parameter order is
// untouched; only the text changes. Safe because compiled statements
// never carry string literals, all values are bound.
func Rebind(sql string) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(sql[i])
	}
	return b.String()
}
