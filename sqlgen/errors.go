package sqlgen

import "errors"

var (
	// ErrEmptyInstruction reports an insert, update or query with nothing
	// to compile.
	ErrEmptyInstruction = errors.New("empty instruction")

	// ErrArityMismatch reports multi-row inserts whose rows differ in
	// column count, or a range condition with the wrong value count.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrSchemaViolation reports a table definition the target dialect
	// cannot express.
	ErrSchemaViolation = errors.New("schema violation")
)
