package embedcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/textrag/core"
)

func newMemoryCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestGetMissReturnsNotFound(t *testing.T) {
	cache := newMemoryCache(t)

	vector, found, err := cache.Get(core.IDFromContent("absent"), "model-a")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, vector)
}

func TestPutThenGetRoundTrip(t *testing.T) {
	cache := newMemoryCache(t)
	id := core.IDFromContent("some chunk text")
	want := []float32{0.25, -1.5, 3.0}

	require.NoError(t, cache.Put(id, "model-a", want))

	got, found, err := cache.Get(id, "model-a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestPutOverwritesExistingVector(t *testing.T) {
	cache := newMemoryCache(t)
	id := core.IDFromContent("chunk")

	require.NoError(t, cache.Put(id, "model-a", []float32{1, 2}))
	require.NoError(t, cache.Put(id, "model-a", []float32{3, 4}))

	got, found, err := cache.Get(id, "model-a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []float32{3, 4}, got)
}

func TestModelsDoNotCollide(t *testing.T) {
	cache := newMemoryCache(t)
	id := core.IDFromContent("chunk")

	require.NoError(t, cache.Put(id, "model-a", []float32{1}))

	_, found, err := cache.Get(id, "model-b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutValidatesArguments(t *testing.T) {
	cache := newMemoryCache(t)
	id := core.IDFromContent("chunk")

	assert.ErrorIs(t, cache.Put(id, "", []float32{1}), ErrEmptyModel)
	assert.ErrorIs(t, cache.Put(id, "model-a", nil), ErrEmptyVector)

	_, _, err := cache.Get(id, "")
	assert.ErrorIs(t, err, ErrEmptyModel)
}

func TestVectorSerializationRoundTrip(t *testing.T) {
	want := []float32{0, -0.5, 1.25, 9999.75}
	got, err := UnmarshalVector(MarshalVector(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
