package executor

import (
	"context"
	"time"

	"github.com/sqlspine/sqlspine/sqlgen"
)

// QueryEvent describes one statement execution, before and after it runs.
type QueryEvent struct {
	SQL      string
	Args     []interface{}
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Err      error
}

// Middleware intercepts statement execution. Call next to continue the
// chain; the last link runs the statement itself.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// runWithMiddleware threads one execution through the registered chain.
func runWithMiddleware(ctx context.Context, mws []Middleware, stmt *sqlgen.Statement, exec func() error) error {
	if len(mws) == 0 {
		return exec()
	}

	event := &QueryEvent{
		SQL:   stmt.SQL,
		Args:  stmt.Args,
		Start: time.Now(),
	}

	index := 0
	var next func() error
	next = func() error {
		if index >= len(mws) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Err = err
			return err
		}
		mw := mws[index]
		index++
		return mw(ctx, event, next)
	}
	return next()
}

// LoggingMiddleware logs every statement through a printf-style sink.
func LoggingMiddleware(logf func(format string, args ...interface{})) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		logf("executing: %s args=%v", event.SQL, event.Args)
		err := next()
		if err != nil {
			logf("statement failed: %v", err)
		} else {
			logf("statement completed in %v", event.Duration)
		}
		return err
	}
}

// TimingMiddleware reports each statement's duration.
func TimingMiddleware(onTiming func(sql string, d time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.SQL, event.Duration)
		}
		return err
	}
}
