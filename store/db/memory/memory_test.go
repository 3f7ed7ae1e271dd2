package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysPrefixGlob(t *testing.T) {
	ctx := context.Background()
	d := NewDB()
	require.NoError(t, d.Set(ctx, "session:a", "1", 0))
	require.NoError(t, d.Set(ctx, "session:b", "2", 0))
	require.NoError(t, d.Set(ctx, "other:c", "3", 0))

	keys, err := d.Keys(ctx, "session:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"session:a", "session:b"}, keys)

	keys, err = d.Keys(ctx, "other:c")
	require.NoError(t, err)
	assert.Equal(t, []string{"other:c"}, keys)
}

func TestMGetMissingYieldsNil(t *testing.T) {
	ctx := context.Background()
	d := NewDB()
	require.NoError(t, d.Set(ctx, "a", "1", 0))

	values, err := d.MGet(ctx, "a", "missing")
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.NotNil(t, values[0])
	assert.Equal(t, "1", *values[0])
	assert.Nil(t, values[1])
}

func TestDeleteCountsOnlyExisting(t *testing.T) {
	ctx := context.Background()
	d := NewDB()
	require.NoError(t, d.Set(ctx, "a", "1", 0))

	count, err := d.Delete(ctx, "a", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	ok, err := d.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	d := NewDB()
	require.NoError(t, d.Set(ctx, "a", "1", 5*time.Millisecond))

	_, ok, err := d.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(10 * time.Millisecond)
	_, ok, err = d.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
