package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/sqlgen"
)

// ErrTxAborted reports an outermost commit after a nested scope rolled
// back.
var ErrTxAborted = errors.New("transaction aborted by nested rollback")

// Session binds a unit of work to exactly one live connection. A session
// is confined to the task that created it; concurrent executions against
// one session must be serialized by its owner. Transactions nest
// idempotently: only the outermost Begin opens a transaction and only the
// outermost Commit or Rollback ends it.
type Session struct {
	exec   *Executor
	conn   *sql.Conn
	tx     *sql.Tx
	depth  int
	closed bool
	failed bool
}

// Session reserves a dedicated connection from the pool.
func (e *Executor) Session(ctx context.Context) (*Session, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Session{exec: e, conn: conn}, nil
}

// Close releases the session's connection. An open transaction is rolled
// back first.
func (s *Session) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	if s.tx != nil {
		s.tx.Rollback()
		s.tx = nil
	}
	return s.conn.Close()
}

func (s *Session) active() (runner, error) {
	if s == nil || s.closed {
		return nil, ErrNoSession
	}
	if s.tx != nil {
		return s.tx, nil
	}
	return s.conn, nil
}

// Begin enters a transaction scope. Entering while one is active is a
// no-op beyond tracking depth.
func (s *Session) Begin(ctx context.Context) error {
	if s == nil || s.closed {
		return ErrNoSession
	}
	if s.depth == 0 {
		tx, err := s.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		s.tx = tx
		s.failed = false
	}
	s.depth++
	return nil
}

// Commit leaves the current scope. The transaction commits only at the
// outermost scope; if any nested scope rolled back, the outermost commit
// rolls back instead and reports ErrTxAborted.
func (s *Session) Commit() error {
	if s == nil || s.closed || s.depth == 0 {
		return ErrNoSession
	}
	s.depth--
	if s.depth > 0 {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if s.failed {
		tx.Rollback()
		return ErrTxAborted
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback leaves the current scope, abandoning the transaction. Nested
// scopes only mark it failed; the outermost scope performs the rollback.
func (s *Session) Rollback() error {
	if s == nil || s.closed || s.depth == 0 {
		return ErrNoSession
	}
	s.depth--
	if s.depth > 0 {
		s.failed = true
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Transact runs fn inside a transaction scope: a failure rolls back and
// is re-raised unchanged, a normal return commits.
func (s *Session) Transact(ctx context.Context, fn func(*Session) error) error {
	if err := s.Begin(ctx); err != nil {
		return err
	}
	if err := fn(s); err != nil {
		s.Rollback()
		return err
	}
	return s.Commit()
}

// Statement methods mirror the executor's, running on the session's
// connection (or its transaction when one is active).

func (s *Session) Select(ctx context.Context, q *query.Query) (*Rows, error) {
	r, err := s.active()
	if err != nil {
		return nil, err
	}
	stmt, err := s.exec.compiler.CompileQuery(q)
	if err != nil {
		return nil, err
	}
	return doQuery(ctx, s.exec.middlewares, r, stmt)
}

func (s *Session) Insert(ctx context.Context, ins query.InsertSingle) (int64, error) {
	r, err := s.active()
	if err != nil {
		return 0, err
	}
	stmt, err := s.exec.compiler.CompileInsert(ins)
	if err != nil {
		return 0, err
	}
	return doInsert(ctx, s.exec.middlewares, r, s.exec.compiler, insertTable(ins), stmt)
}

func (s *Session) InsertMultiple(ctx context.Context, ins query.InsertMultiple) ([]int64, error) {
	r, err := s.active()
	if err != nil {
		return nil, err
	}
	return doInsertMultiple(ctx, s.exec.middlewares, r, s.exec.compiler, ins)
}

func (s *Session) Merge(ctx context.Context, m query.Merge) (int64, error) {
	r, err := s.active()
	if err != nil {
		return 0, err
	}
	stmt, err := s.exec.compiler.CompileMerge(m)
	if err != nil {
		return 0, err
	}
	return doExec(ctx, s.exec.middlewares, r, stmt)
}

func (s *Session) Update(ctx context.Context, u query.Update) (int64, error) {
	r, err := s.active()
	if err != nil {
		return 0, err
	}
	stmt, err := s.exec.compiler.CompileUpdate(u)
	if err != nil {
		return 0, err
	}
	return doExec(ctx, s.exec.middlewares, r, stmt)
}

func (s *Session) Delete(ctx context.Context, d query.Delete) (int64, error) {
	r, err := s.active()
	if err != nil {
		return 0, err
	}
	stmt, err := s.exec.compiler.CompileDelete(d)
	if err != nil {
		return 0, err
	}
	return doExec(ctx, s.exec.middlewares, r, stmt)
}

func (s *Session) ExecSQL(ctx context.Context, sqlText string, args ...interface{}) (int64, error) {
	r, err := s.active()
	if err != nil {
		return 0, err
	}
	return doExec(ctx, s.exec.middlewares, r, &sqlgen.Statement{SQL: sqlText, Args: args})
}
