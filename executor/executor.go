// Package executor runs compiled statements against a database/sql
// connection. It is the only component that touches the driver; every
// statement it issues was produced by the sqlgen compiler, and every
// caller value travels through the bind-parameter list.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"

	// Drivers matched by dialect name.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/schema"
	"github.com/sqlspine/sqlspine/sqlgen"
)

// ErrNoSession reports an execution attempted on a nil or closed session.
var ErrNoSession = errors.New("no active session")

// runner is the subset of database/sql handles a statement can execute
// against: *sql.DB, *sql.Conn or *sql.Tx.
type runner interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Executor owns a connection pool and a compiler for one dialect.
// Concurrent calls are safe; per-connection serialization happens in
// sessions.
type Executor struct {
	db          *sql.DB
	compiler    *sqlgen.Compiler
	middlewares []Middleware
}

// Open connects using the dialect's driver and verifies the server meets
// the dialect's minimum version, when one is declared.
func Open(d *sqlgen.Dialect, dsn string) (*Executor, error) {
	if d == nil || d.DriverName == "" {
		return nil, fmt.Errorf("dialect %q has no driver", dialectName(d))
	}
	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	e := NewExecutor(db, d)
	if err := e.checkServerVersion(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

func dialectName(d *sqlgen.Dialect) string {
	if d == nil {
		return "nil"
	}
	return d.Name
}

// NewExecutor wraps an existing pool.
func NewExecutor(db *sql.DB, d *sqlgen.Dialect) *Executor {
	return &Executor{db: db, compiler: sqlgen.New(d)}
}

// Compiler exposes the executor's compiler, for callers that want the
// text without executing it.
func (e *Executor) Compiler() *sqlgen.Compiler { return e.compiler }

// DB exposes the underlying pool.
func (e *Executor) DB() *sql.DB { return e.db }

// Close releases the pool.
func (e *Executor) Close() error { return e.db.Close() }

// Use appends a middleware invoked around every statement, in
// registration order.
func (e *Executor) Use(m Middleware) {
	e.middlewares = append(e.middlewares, m)
}

func (e *Executor) checkServerVersion(ctx context.Context) error {
	d := e.compiler.Dialect()
	if d.MinServerVersion == "" || d.VersionQuery == "" {
		return nil
	}
	var reported string
	if err := e.db.QueryRowContext(ctx, d.VersionQuery).Scan(&reported); err != nil {
		return fmt.Errorf("query server version: %w", err)
	}
	current, err := goversion.NewVersion(extractVersion(reported))
	if err != nil {
		// Unparseable banner; do not block the connection on it.
		return nil
	}
	min := goversion.Must(goversion.NewVersion(d.MinServerVersion))
	if current.LessThan(min) {
		return fmt.Errorf("server version %s is below the minimum %s for dialect %s",
			current, min, d.Name)
	}
	return nil
}

// extractVersion pulls the first numeric token out of a version banner
// such as "PostgreSQL 15.4 on x86_64".
func extractVersion(banner string) string {
	for _, f := range strings.Fields(banner) {
		if f[0] >= '0' && f[0] <= '9' {
			return f
		}
	}
	return banner
}

// Select compiles and executes a query, returning a typed row iterator.
func (e *Executor) Select(ctx context.Context, q *query.Query) (*Rows, error) {
	stmt, err := e.compiler.CompileQuery(q)
	if err != nil {
		return nil, err
	}
	return doQuery(ctx, e.middlewares, e.db, stmt)
}

// Insert compiles and executes a single-row insert and returns the
// generated key.
func (e *Executor) Insert(ctx context.Context, ins query.InsertSingle) (int64, error) {
	stmt, err := e.compiler.CompileInsert(ins)
	if err != nil {
		return 0, err
	}
	return doInsert(ctx, e.middlewares, e.db, e.compiler, insertTable(ins), stmt)
}

// InsertMultiple executes a multi-row insert and returns one generated
// key per row, in row order. Arity is validated before any SQL runs.
func (e *Executor) InsertMultiple(ctx context.Context, ins query.InsertMultiple) ([]int64, error) {
	return doInsertMultiple(ctx, e.middlewares, e.db, e.compiler, ins)
}

// Merge compiles and executes an upsert, returning the affected count.
func (e *Executor) Merge(ctx context.Context, m query.Merge) (int64, error) {
	stmt, err := e.compiler.CompileMerge(m)
	if err != nil {
		return 0, err
	}
	return doExec(ctx, e.middlewares, e.db, stmt)
}

// Update compiles and executes an update, returning the affected count.
func (e *Executor) Update(ctx context.Context, u query.Update) (int64, error) {
	stmt, err := e.compiler.CompileUpdate(u)
	if err != nil {
		return 0, err
	}
	return doExec(ctx, e.middlewares, e.db, stmt)
}

// Delete compiles and executes a delete, returning the affected count.
func (e *Executor) Delete(ctx context.Context, d query.Delete) (int64, error) {
	stmt, err := e.compiler.CompileDelete(d)
	if err != nil {
		return 0, err
	}
	return doExec(ctx, e.middlewares, e.db, stmt)
}

// ExecSQL runs pre-rendered statement text, for DDL bootstrap and script
// import. Caller values still arrive through args.
func (e *Executor) ExecSQL(ctx context.Context, sqlText string, args ...interface{}) (int64, error) {
	return doExec(ctx, e.middlewares, e.db, &sqlgen.Statement{SQL: sqlText, Args: args})
}

// CreateSchema creates every table of the registry plus its foreign keys,
// indexes and triggers, in registration order.
func (e *Executor) CreateSchema(ctx context.Context, reg *schema.Registry) error {
	for _, t := range reg.Tables() {
		ddl, err := e.compiler.CreateTable(t, true)
		if err != nil {
			return err
		}
		if _, err := e.ExecSQL(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name(), err)
		}
		for _, extra := range e.compiler.TableExtras(t) {
			if _, err := e.ExecSQL(ctx, extra); err != nil {
				return fmt.Errorf("table %s extras: %w", t.Name(), err)
			}
		}
	}
	return nil
}

// shared statement plumbing, used by Executor and Session

func doQuery(ctx context.Context, mws []Middleware, r runner, stmt *sqlgen.Statement) (*Rows, error) {
	var rows *sql.Rows
	err := runWithMiddleware(ctx, mws, stmt, func() error {
		var qerr error
		rows, qerr = r.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if qerr != nil {
			return fmt.Errorf("query failed: %w", qerr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows, selects: stmt.Selects}, nil
}

func doExec(ctx context.Context, mws []Middleware, r runner, stmt *sqlgen.Statement) (int64, error) {
	var affected int64
	err := runWithMiddleware(ctx, mws, stmt, func() error {
		res, xerr := r.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if xerr != nil {
			return fmt.Errorf("exec failed: %w", xerr)
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func doInsert(ctx context.Context, mws []Middleware, r runner, c *sqlgen.Compiler, t *schema.Table, stmt *sqlgen.Statement) (int64, error) {
	// Drivers without LastInsertId report keys through RETURNING.
	if c.Dialect().NumberedArgs {
		return doInsertReturning(ctx, mws, r, t, stmt)
	}
	var key int64
	err := runWithMiddleware(ctx, mws, stmt, func() error {
		res, xerr := r.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if xerr != nil {
			return fmt.Errorf("insert failed: %w", xerr)
		}
		key, xerr = res.LastInsertId()
		if xerr != nil {
			return fmt.Errorf("insert key: %w", xerr)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return key, nil
}

func doInsertReturning(ctx context.Context, mws []Middleware, r runner, t *schema.Table, stmt *sqlgen.Statement) (int64, error) {
	pks := t.PrimaryKeys()
	if len(pks) == 0 {
		// Without a primary key there is no generated key to report.
		if _, err := doExec(ctx, mws, r, stmt); err != nil {
			return 0, err
		}
		return 0, nil
	}
	returning := &sqlgen.Statement{
		SQL:  stmt.SQL + " RETURNING " + pks[0].Name(),
		Args: stmt.Args,
	}
	var key int64
	err := runWithMiddleware(ctx, mws, returning, func() error {
		if xerr := r.QueryRowContext(ctx, returning.SQL, returning.Args...).Scan(&key); xerr != nil {
			return fmt.Errorf("insert failed: %w", xerr)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return key, nil
}

func doInsertMultiple(ctx context.Context, mws []Middleware, r runner, c *sqlgen.Compiler, ins query.InsertMultiple) ([]int64, error) {
	// Validates arity and empty rows before any SQL is issued.
	if _, err := c.CompileInsertMultiple(ins); err != nil {
		return nil, err
	}

	first, err := c.CompileInsert(query.InsertSingle{Values: ins.Rows[0]})
	if err != nil {
		return nil, err
	}

	// Drivers without LastInsertId report keys through RETURNING; the
	// clause is appended once and prepared with the row statement.
	numbered := c.Dialect().NumberedArgs
	sqlText := first.SQL
	var keyed bool
	if numbered {
		if pks := ins.Rows[0][0].Col.Table().PrimaryKeys(); len(pks) > 0 {
			sqlText += " RETURNING " + pks[0].Name()
			keyed = true
		}
	}

	prepared, err := r.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer prepared.Close()

	keys := make([]int64, 0, len(ins.Rows))
	for i, row := range ins.Rows {
		stmt, err := c.CompileInsert(query.InsertSingle{Values: row})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		stmt.SQL = sqlText
		err = runWithMiddleware(ctx, mws, stmt, func() error {
			if keyed {
				var key int64
				if xerr := prepared.QueryRowContext(ctx, stmt.Args...).Scan(&key); xerr != nil {
					return fmt.Errorf("insert row %d failed: %w", i, xerr)
				}
				keys = append(keys, key)
				return nil
			}
			res, xerr := prepared.ExecContext(ctx, stmt.Args...)
			if xerr != nil {
				return fmt.Errorf("insert row %d failed: %w", i, xerr)
			}
			if numbered {
				// No primary key, so no generated key to report.
				keys = append(keys, 0)
				return nil
			}
			key, xerr := res.LastInsertId()
			if xerr != nil {
				return fmt.Errorf("insert row %d key: %w", i, xerr)
			}
			keys = append(keys, key)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func insertTable(ins query.InsertSingle) *schema.Table {
	if len(ins.Values) == 0 {
		return nil
	}
	return ins.Values[0].Col.Table()
}
