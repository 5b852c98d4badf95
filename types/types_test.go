package types

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindValueWidening(t *testing.T) {
	v, err := BindValue(Int64, int(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = BindValue(Int, int32(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = BindValue(Float64, float32(1.5))
	require.NoError(t, err)
	assert.Equal(t, float64(1.5), v)
}

func TestBindValueRejectsNarrowing(t *testing.T) {
	_, err := BindValue(Int, int64(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = BindValue(Int, float64(1))
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = BindValue(String, 5)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = BindValue(Bool, "true")
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestBindValueNil(t *testing.T) {
	v, err := BindValue(String, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestScanValue(t *testing.T) {
	v, err := ScanValue(Int, int64(12))
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = ScanValue(Int64, int64(12))
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	v, err = ScanValue(String, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = ScanValue(Bool, int64(1))
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = ScanValue(Float64, int64(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestScanValueIntOverflow(t *testing.T) {
	_, err := ScanValue(Int, int64(math.MaxInt32)+1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestScanValueTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	v, err := ScanValue(Time, now)
	require.NoError(t, err)
	assert.Equal(t, now, v)

	v, err = ScanValue(Time, now.Format(time.RFC3339))
	require.NoError(t, err)
	assert.True(t, now.Equal(v.(time.Time)))
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"int": Int, "integer": Int,
		"int64": Int64, "bigint": Int64,
		"float64": Float64, "double": Float64,
		"bool": Bool, "string": String, "text": String,
		"time": Time, "timestamp": Time,
	} {
		k, err := ParseKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, k, name)
	}

	_, err := ParseKind("decimal")
	assert.Error(t, err)
}
