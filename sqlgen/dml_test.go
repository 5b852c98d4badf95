package sqlgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/schema"
	"github.com/sqlspine/sqlspine/types"
)

func crudTables(t *testing.T) (*schema.Table, *schema.Table) {
	t.Helper()
	users := schema.NewTable("users")
	users.MustAddColumn("id", types.Int64, schema.AutoIncrement())
	users.MustAddColumn("name", types.String)
	users.MustAddColumn("age", types.Int)

	orders := schema.NewTable("orders")
	orders.MustAddColumn("id", types.Int64, schema.AutoIncrement())
	orders.MustAddColumn("user_id", types.Int64, schema.References("users", "id"))
	orders.MustAddColumn("total", types.Float64)
	return users, orders
}

func TestCompileQueryBare(t *testing.T) {
	users, _ := crudTables(t)
	stmt, err := New(Generic).CompileQuery(query.SelectAll(users))
	require.NoError(t, err)
	assert.Equal(t, "SELECT users.id, users.name, users.age FROM users", stmt.SQL)
	assert.Empty(t, stmt.Args)
}

func TestCompileQueryFull(t *testing.T) {
	users, orders := crudTables(t)
	age := users.MustColumn("age")

	q := query.Select(query.Col(users.MustColumn("name")), query.Fn("count", orders.MustColumn("id"))).
		FromTable(users).
		JoinOn(query.LeftJoin, orders, "", query.Cols(orders.MustColumn("user_id"), query.OpEq, users.MustColumn("id"))).
		WhereCond(query.Ge(age, 21)).
		GroupBy(users.MustColumn("name")).
		OrderBy(users.MustColumn("name"), query.Asc).
		WithLimit(10).
		WithOffset(20)

	stmt, err := New(Generic).CompileQuery(q)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT users.name, COUNT(orders.id) FROM users LEFT JOIN orders ON orders.user_id = users.id "+
			"WHERE users.age >= ? GROUP BY users.name ORDER BY users.name ASC LIMIT ? OFFSET ?",
		stmt.SQL)
	assert.Equal(t, []interface{}{int64(21), int64(10), int64(20)}, stmt.Args)
}

func TestCompileQueryJoinParamsBeforeWhereParams(t *testing.T) {
	users, orders := crudTables(t)

	on := query.AndGroup(
		query.Cols(orders.MustColumn("user_id"), query.OpEq, users.MustColumn("id")),
		query.Gt(orders.MustColumn("total"), 9.5),
	)
	q := query.SelectAll(users).
		JoinOn(query.InnerJoin, orders, "", on).
		WhereCond(query.Eq(users.MustColumn("age"), 30))

	stmt, err := New(Generic).CompileQuery(q)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{9.5, int64(30)}, stmt.Args)
}

func TestCompileQueryJoinAlias(t *testing.T) {
	users, orders := crudTables(t)

	on := query.Cols(orders.MustColumn("user_id").As("o"), query.OpEq, users.MustColumn("id"))
	q := query.SelectAll(users).JoinOn(query.Join, orders, "o", on)

	stmt, err := New(Generic).CompileQuery(q)
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "JOIN orders AS o ON o.user_id = users.id")
}

func TestCompileQueryEmpty(t *testing.T) {
	_, err := New(Generic).CompileQuery(query.Select())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyInstruction))
}

func TestCompileQueryDeterministic(t *testing.T) {
	users, _ := crudTables(t)
	q := query.SelectAll(users).
		WhereCond(query.In(users.MustColumn("age"), 1, 2, 3)).
		WithLimit(5)

	c := New(Generic)
	first, err := c.CompileQuery(q)
	require.NoError(t, err)
	second, err := c.CompileQuery(q)
	require.NoError(t, err)
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.Args, second.Args)
}

func TestCompileInsert(t *testing.T) {
	users, _ := crudTables(t)
	ins := query.Insert(
		query.Set(users.MustColumn("name"), "ada"),
		query.Set(users.MustColumn("age"), 36),
	)
	stmt, err := New(Generic).CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (name, age) VALUES(?, ?)", stmt.SQL)
	assert.Equal(t, []interface{}{"ada", int64(36)}, stmt.Args)
}

func TestCompileInsertEmpty(t *testing.T) {
	_, err := New(Generic).CompileInsert(query.Insert())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyInstruction))
}

func TestCompileInsertTypeMismatch(t *testing.T) {
	users, _ := crudTables(t)
	ins := query.Insert(query.Set(users.MustColumn("age"), "old"))
	_, err := New(Generic).CompileInsert(ins)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTypeMismatch))
}

func TestCompileInsertMultiple(t *testing.T) {
	users, _ := crudTables(t)
	name := users.MustColumn("name")
	age := users.MustColumn("age")

	ins := query.InsertMany(
		[]query.Assignment{query.Set(name, "a"), query.Set(age, 1)},
		[]query.Assignment{query.Set(name, "b"), query.Set(age, 2)},
	)
	stmt, err := New(Generic).CompileInsertMultiple(ins)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (name, age) VALUES(?, ?), (?, ?)", stmt.SQL)
	assert.Equal(t, []interface{}{"a", int64(1), "b", int64(2)}, stmt.Args)
}

func TestCompileInsertMultipleArityMismatch(t *testing.T) {
	users, _ := crudTables(t)
	name := users.MustColumn("name")
	age := users.MustColumn("age")

	ins := query.InsertMany(
		[]query.Assignment{query.Set(name, "a"), query.Set(age, 1)},
		[]query.Assignment{query.Set(name, "b")},
	)
	_, err := New(Generic).CompileInsertMultiple(ins)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArityMismatch))
}

func TestCompileMergeStyles(t *testing.T) {
	users, _ := crudTables(t)
	id := users.MustColumn("id")
	m := query.Merge{
		Key: id,
		Values: []query.Assignment{
			query.Set(id, int64(1)),
			query.Set(users.MustColumn("name"), "ada"),
		},
	}

	stmt, err := New(Generic).CompileMerge(m)
	require.NoError(t, err)
	assert.Equal(t, "MERGE INTO users (id, name) KEY(id) VALUES(?, ?)", stmt.SQL)

	stmt, err = New(SQLite).CompileMerge(m)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO users (id, name) VALUES(?, ?) ON CONFLICT(id) DO UPDATE SET name=excluded.name",
		stmt.SQL)

	stmt, err = New(MySQL).CompileMerge(m)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO users (id, name) VALUES(?, ?) ON DUPLICATE KEY UPDATE name=VALUES(name)",
		stmt.SQL)

	stmt, err = New(Postgres).CompileMerge(m)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO users (id, name) VALUES($1, $2) ON CONFLICT(id) DO UPDATE SET name=excluded.name",
		stmt.SQL)
}

func TestCompileMergeKeyOnly(t *testing.T) {
	users, _ := crudTables(t)
	id := users.MustColumn("id")
	m := query.Merge{Key: id, Values: []query.Assignment{query.Set(id, int64(1))}}

	stmt, err := New(SQLite).CompileMerge(m)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (id) VALUES(?) ON CONFLICT(id) DO NOTHING", stmt.SQL)
}

func TestCompileUpdateSetBeforeWhere(t *testing.T) {
	users, _ := crudTables(t)
	u := query.Update{
		Set: []query.Assignment{
			query.Set(users.MustColumn("name"), "grace"),
			query.Set(users.MustColumn("age"), 45),
		},
		Where: query.Eq(users.MustColumn("id"), int64(7)),
	}
	stmt, err := New(Generic).CompileUpdate(u)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name=?, age=? WHERE users.id = ?", stmt.SQL)
	assert.Equal(t, []interface{}{"grace", int64(45), int64(7)}, stmt.Args)
}

func TestCompileUpdateNoWhere(t *testing.T) {
	users, _ := crudTables(t)
	u := query.Update{Set: []query.Assignment{query.Set(users.MustColumn("age"), 1)}}
	stmt, err := New(Generic).CompileUpdate(u)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET age=?", stmt.SQL)
}

func TestCompileDelete(t *testing.T) {
	users, _ := crudTables(t)
	stmt, err := New(Generic).CompileDelete(query.Delete{Table: users})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users", stmt.SQL)
	assert.Empty(t, stmt.Args)

	stmt, err = New(Generic).CompileDelete(query.Delete{
		Table: users,
		Where: query.Lt(users.MustColumn("age"), 18),
	})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE users.age < ?", stmt.SQL)
	assert.Equal(t, []interface{}{int64(18)}, stmt.Args)
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "SELECT $1, $2, $3", Rebind("SELECT ?, ?, ?"))
	assert.Equal(t, "no placeholders", Rebind("no placeholders"))
}
