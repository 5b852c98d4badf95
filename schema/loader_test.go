package schema

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlspine/sqlspine/types"
)

const sampleSchema = `
tables:
  - name: users
    columns:
      - name: id
        type: int64
        auto_increment: true
      - name: email
        type: string
        unique: true
        not_null: true
      - name: age
        type: int
        index: users_age_idx
    triggers:
      handler: audit.UserHandler
      events: [insert, delete]
  - name: orders
    columns:
      - name: id
        type: int64
        auto_increment: true
      - name: user_id
        type: int64
        not_null: true
        references:
          table: users
          column: id
      - name: total
        type: float64
    indexes:
      - name: orders_user_idx
        columns: [user_id]
`

func TestLoad(t *testing.T) {
	reg, err := Load(strings.NewReader(sampleSchema))
	require.NoError(t, err)

	users, ok := reg.Table("users")
	require.True(t, ok)
	require.Len(t, users.Columns(), 3)

	id, _ := users.Column("id")
	assert.Equal(t, types.Int64, id.Kind())
	assert.True(t, id.IsAutoIncrement())

	email, _ := users.Column("email")
	assert.True(t, email.IsUnique())
	assert.True(t, email.IsNotNull())

	age, _ := users.Column("age")
	assert.Equal(t, "users_age_idx", age.IndexName())

	trig := users.Triggers()
	require.NotNil(t, trig)
	assert.Equal(t, "audit.UserHandler", trig.Handler)
	assert.Equal(t, []TriggerEvent{TriggerInsert, TriggerDelete}, trig.Events)

	orders, ok := reg.Table("orders")
	require.True(t, ok)
	userID, _ := orders.Column("user_id")
	require.NotNil(t, userID.ForeignKey())
	assert.Equal(t, "users", userID.ForeignKey().Table)
	require.Len(t, orders.Indexes(), 1)
}

func TestLoadFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "schema.yaml", []byte(sampleSchema), 0644))

	reg, err := LoadFile(fsys, "schema.yaml")
	require.NoError(t, err)
	assert.Len(t, reg.Tables(), 2)

	_, err = LoadFile(fsys, "missing.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownType(t *testing.T) {
	bad := `
tables:
  - name: users
    columns:
      - name: id
        type: decimal
`
	_, err := Load(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal")
}

func TestLoadRejectsDanglingReference(t *testing.T) {
	bad := `
tables:
  - name: orders
    columns:
      - name: user_id
        type: int64
        references:
          table: users
          column: id
`
	_, err := Load(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestLoadRejectsEmptySchema(t *testing.T) {
	_, err := Load(strings.NewReader("tables: []\n"))
	assert.Error(t, err)
}
