package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "key1", []byte("value1"), time.Minute))

	value, ok, err := m.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value1"), value)
}

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryZeroTTLStoresNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "key1", []byte("value1"), 0))

	_, ok, err := m.Get(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	m := NewMemory()
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "key1", []byte("value1"), time.Minute))

	_, ok, err := m.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)

	_, ok, err = m.Get(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry should be dropped")
}

func TestMemoryValueCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	buf := []byte("original")
	require.NoError(t, m.Set(ctx, "key1", buf, time.Minute))
	buf[0] = 'X'

	value, ok, err := m.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("original"), value)
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "key1", []byte("value1"), time.Minute))
	require.NoError(t, m.Delete(ctx, "key1"))

	_, ok, err := m.Get(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "ipqs_a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "ipqs_b", []byte("2"), time.Minute))
	require.NoError(t, m.Set(ctx, "other", []byte("3"), time.Minute))

	require.NoError(t, m.DeletePrefix(ctx, "ipqs_"))

	_, ok, _ := m.Get(ctx, "ipqs_a")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "ipqs_b")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "other")
	assert.True(t, ok, "entries outside the prefix survive")
}
