package exprparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlspine/sqlspine/query"
	"github.com/sqlspine/sqlspine/schema"
	"github.com/sqlspine/sqlspine/types"
)

func testRegistry(t *testing.T) (*schema.Registry, *schema.Table) {
	t.Helper()
	users := schema.NewTable("users")
	users.MustAddColumn("id", types.Int64, schema.AutoIncrement())
	users.MustAddColumn("name", types.String)
	users.MustAddColumn("age", types.Int)
	users.MustAddColumn("active", types.Bool)

	reg := schema.NewRegistry()
	require.NoError(t, reg.Add(users))
	return reg, users
}

func TestParseComparison(t *testing.T) {
	reg, users := testRegistry(t)

	cond, err := Parse("age >= 18", reg, users)
	require.NoError(t, err)

	direct, ok := cond.(query.DirectCondition)
	require.True(t, ok)
	assert.Equal(t, query.OpGe, direct.Op)
	assert.Equal(t, "users.age", direct.Col.QualifiedName())
	assert.Equal(t, 18, direct.Value)
}

func TestParseQualifiedColumn(t *testing.T) {
	reg, _ := testRegistry(t)

	cond, err := Parse("users.name = 'ada'", reg, nil)
	require.NoError(t, err)

	direct, ok := cond.(query.DirectCondition)
	require.True(t, ok)
	assert.Equal(t, "ada", direct.Value)
}

func TestParseLiteralCoercion(t *testing.T) {
	reg, users := testRegistry(t)

	cond, err := Parse("id = 9000000000", reg, users)
	require.NoError(t, err)
	assert.Equal(t, int64(9000000000), cond.(query.DirectCondition).Value)

	cond, err = Parse("active = TRUE", reg, users)
	require.NoError(t, err)
	assert.Equal(t, true, cond.(query.DirectCondition).Value)

	_, err = Parse("age = 'ten'", reg, users)
	assert.Error(t, err)
}

func TestParseNull(t *testing.T) {
	reg, users := testRegistry(t)

	cond, err := Parse("name IS NULL", reg, users)
	require.NoError(t, err)
	null, ok := cond.(query.NullCondition)
	require.True(t, ok)
	assert.False(t, null.Negate)

	cond, err = Parse("name IS NOT NULL", reg, users)
	require.NoError(t, err)
	assert.True(t, cond.(query.NullCondition).Negate)
}

func TestParseLike(t *testing.T) {
	reg, users := testRegistry(t)

	cond, err := Parse("name LIKE 'A%'", reg, users)
	require.NoError(t, err)
	like, ok := cond.(query.LikeCondition)
	require.True(t, ok)
	assert.Equal(t, "A%", like.Pattern)
	assert.False(t, like.Negate)

	cond, err = Parse("name NOT LIKE 'A%'", reg, users)
	require.NoError(t, err)
	assert.True(t, cond.(query.LikeCondition).Negate)
}

func TestParseIn(t *testing.T) {
	reg, users := testRegistry(t)

	cond, err := Parse("age IN (1, 2, 3)", reg, users)
	require.NoError(t, err)
	rng, ok := cond.(query.RangeCondition)
	require.True(t, ok)
	assert.Equal(t, query.RangeIn, rng.Op)
	assert.Equal(t, []interface{}{1, 2, 3}, rng.Values)

	cond, err = Parse("name NOT IN ('a', 'b')", reg, users)
	require.NoError(t, err)
	assert.Equal(t, query.RangeNotIn, cond.(query.RangeCondition).Op)
}

func TestParseBooleanNesting(t *testing.T) {
	reg, users := testRegistry(t)

	cond, err := Parse("age >= 18 AND (name LIKE 'A%' OR name IS NULL)", reg, users)
	require.NoError(t, err)

	grp, ok := cond.(query.Group)
	require.True(t, ok)
	assert.Equal(t, query.And, grp.Connective)
	require.Len(t, grp.Children, 2)

	inner, ok := grp.Children[1].(query.Group)
	require.True(t, ok)
	assert.Equal(t, query.Or, inner.Connective)
	assert.Len(t, inner.Children, 2)
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	reg, users := testRegistry(t)

	cond, err := Parse("age > 1 and name is not null", reg, users)
	require.NoError(t, err)
	grp, ok := cond.(query.Group)
	require.True(t, ok)
	assert.Equal(t, query.And, grp.Connective)
}

func TestParseErrors(t *testing.T) {
	reg, users := testRegistry(t)

	_, err := Parse("nope = 1", reg, users)
	assert.Error(t, err)

	_, err = Parse("ghosts.age = 1", reg, nil)
	assert.Error(t, err)

	_, err = Parse("age = 1", reg, nil)
	assert.Error(t, err)

	_, err = Parse("age >< 1", reg, users)
	assert.Error(t, err)

	_, err = Parse("age NOT = 1", reg, users)
	assert.Error(t, err)
}
