package export

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlspine/sqlspine/executor"
	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/schema"
	"github.com/sqlspine/sqlspine/sqlgen"
	"github.com/sqlspine/sqlspine/types"
)

func newTestExecutor(t *testing.T) (*executor.Executor, *schema.Table) {
	t.Helper()
	users := schema.NewTable("users")
	users.MustAddColumn("id", types.Int64, schema.AutoIncrement())
	users.MustAddColumn("name", types.String)
	users.MustAddColumn("age", types.Int)

	reg := schema.NewRegistry()
	require.NoError(t, reg.Add(users))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	e, err := executor.Open(sqlgen.SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	require.NoError(t, e.CreateSchema(context.Background(), reg))
	return e, users
}

func TestCSV(t *testing.T) {
	e, users := newTestExecutor(t)
	ctx := context.Background()

	name := users.MustColumn("name")
	age := users.MustColumn("age")
	_, err := e.InsertMultiple(ctx, query.InsertMany(
		[]query.Assignment{query.Set(name, "ada"), query.Set(age, 36)},
		[]query.Assignment{query.Set(name, "grace"), query.Set(age, 45)},
	))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, CSV(ctx, e, users, &buf))

	assert.Equal(t, "id,name,age\n1,ada,36\n2,grace,45\n", buf.String())
}

func TestCSVEmptyTable(t *testing.T) {
	e, users := newTestExecutor(t)

	var buf bytes.Buffer
	require.NoError(t, CSV(context.Background(), e, users, &buf))
	assert.Equal(t, "id,name,age\n", buf.String())
}

func TestCSVNullsAsEmpty(t *testing.T) {
	e, users := newTestExecutor(t)
	ctx := context.Background()

	_, err := e.Insert(ctx, query.Insert(query.Set(users.MustColumn("name"), "ada")))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, CSV(ctx, e, users, &buf))
	assert.Equal(t, "id,name,age\n1,ada,\n", buf.String())
}

func TestCSVFile(t *testing.T) {
	e, users := newTestExecutor(t)
	ctx := context.Background()

	_, err := e.Insert(ctx, query.Insert(
		query.Set(users.MustColumn("name"), "ada"),
		query.Set(users.MustColumn("age"), 36),
	))
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, CSVFile(ctx, e, users, fsys, "dump/users.csv"))

	raw, err := afero.ReadFile(fsys, "dump/users.csv")
	require.NoError(t, err)
	assert.Equal(t, "id,name,age\n1,ada,36\n", string(raw))
}

func TestRunScript(t *testing.T) {
	e, users := newTestExecutor(t)
	ctx := context.Background()

	script := `
INSERT INTO users (name, age) VALUES('ada', 36);
INSERT INTO users (name, age) VALUES('grace', 45);
UPDATE users SET age=46 WHERE name='grace';
`
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "seed.sql", []byte(script), 0644))
	require.NoError(t, RunScript(ctx, e, fsys, "seed.sql"))

	rows, err := e.Select(ctx, query.SelectAll(users).WhereCond(
		query.Eq(users.MustColumn("name"), "grace")))
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	rec, err := rows.Record()
	require.NoError(t, err)
	assert.Equal(t, 46, rec["age"])
}

func TestRunScriptStopsOnError(t *testing.T) {
	e, users := newTestExecutor(t)
	ctx := context.Background()

	script := `
INSERT INTO users (name, age) VALUES('ada', 36);
INSERT INTO nowhere VALUES(1);
INSERT INTO users (name, age) VALUES('grace', 45);
`
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "bad.sql", []byte(script), 0644))

	err := RunScript(ctx, e, fsys, "bad.sql")
	require.Error(t, err)

	rows, err := e.Select(ctx, query.SelectAll(users))
	require.NoError(t, err)
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 1, count)
}

func TestRunScriptMissingFile(t *testing.T) {
	e, _ := newTestExecutor(t)
	err := RunScript(context.Background(), e, afero.NewMemMapFs(), "missing.sql")
	assert.Error(t, err)
}
