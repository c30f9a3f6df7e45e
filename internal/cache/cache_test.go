package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real-estate-catalog/internal/logging"
)

type listing struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, PropertyDetail, "p1", []byte(`{}`)))
	_, ok, err := store.Get(ctx, PropertyDetail, "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = store.Get(ctx, PropertyDetail, "p1")
	assert.False(t, ok)
}

func TestMemoryStoreEvictAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	require.NoError(t, store.Put(ctx, Featured, FeaturedKey, []byte(`[]`)))
	require.NoError(t, store.Put(ctx, PropertyDetail, "p1", []byte(`{}`)))

	require.NoError(t, store.EvictAll(ctx))
	assert.Equal(t, 0, store.Len(Featured))
	assert.Equal(t, 0, store.Len(PropertyDetail))
}

func TestReadThroughCachesValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	layer := NewLayer(store, logging.Discard())

	loads := 0
	load := func(context.Context) (listing, error) {
		loads++
		return listing{ID: "p1", Title: "Villa"}, nil
	}

	first, err := ReadThrough(ctx, layer, PropertyDetail, "p1", nil, load)
	require.NoError(t, err)
	second, err := ReadThrough(ctx, layer, PropertyDetail, "p1", nil, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)
}

func TestReadThroughSkipsEmptyFeatured(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	layer := NewLayer(store, logging.Discard())
	skipEmpty := func(v []listing) bool { return len(v) == 0 }

	loads := 0
	_, err := ReadThrough(ctx, layer, Featured, FeaturedKey, skipEmpty, func(context.Context) ([]listing, error) {
		loads++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len(Featured))

	_, err = ReadThrough(ctx, layer, Featured, FeaturedKey, skipEmpty, func(context.Context) ([]listing, error) {
		loads++
		return []listing{{ID: "p1"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
	assert.Equal(t, 1, store.Len(Featured))
}

func TestReadThroughLoadError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	layer := NewLayer(store, logging.Discard())

	_, err := ReadThrough(ctx, layer, PropertyDetail, "p1", nil, func(context.Context) (listing, error) {
		return listing{}, errors.New("db down")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len(PropertyDetail))
}

func TestReadThroughDropsFillAfterEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	layer := NewLayer(store, logging.Discard())

	_, err := ReadThrough(ctx, layer, PropertyDetail, "p1", nil, func(context.Context) (listing, error) {
		// a mutation commits and evicts while this load is in flight
		layer.EvictAll(ctx)
		return listing{ID: "p1", Title: "stale"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len(PropertyDetail))
	assert.Equal(t, uint64(1), layer.Epoch())
}

type failingStore struct{}

func (failingStore) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingStore) Put(context.Context, string, string, []byte) error {
	return errors.New("connection refused")
}
func (failingStore) EvictAll(context.Context) error { return errors.New("connection refused") }

func TestReadThroughBackendFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	layer := NewLayer(failingStore{}, logging.Discard())

	got, err := ReadThrough(ctx, layer, PropertyDetail, "p1", nil, func(context.Context) (listing, error) {
		return listing{ID: "p1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	layer.EvictAll(ctx)
	assert.Equal(t, uint64(1), layer.Epoch())
}

// flakyEvictStore fails EvictAll while failEvict is set
type flakyEvictStore struct {
	*MemoryStore
	failEvict  bool
	evictCalls int
}

func (f *flakyEvictStore) EvictAll(ctx context.Context) error {
	f.evictCalls++
	if f.failEvict {
		return errors.New("redis: connection reset")
	}
	return f.MemoryStore.EvictAll(ctx)
}

func TestFailedEvictionBypassesStaleEntries(t *testing.T) {
	ctx := context.Background()
	store := &flakyEvictStore{MemoryStore: NewMemoryStore(0)}
	layer := NewLayer(store, logging.Discard())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	layer.now = func() time.Time { return now }

	load := func(title string) func(context.Context) (listing, error) {
		return func(context.Context) (listing, error) { return listing{ID: "p1", Title: title}, nil }
	}

	got, err := ReadThrough(ctx, layer, PropertyDetail, "p1", nil, load("old"))
	require.NoError(t, err)
	assert.Equal(t, "old", got.Title)
	require.Equal(t, 1, store.Len(PropertyDetail))

	// the write commits but the backend refuses the eviction
	store.failEvict = true
	layer.EvictAll(ctx)
	assert.True(t, layer.Dirty())

	got, err = ReadThrough(ctx, layer, PropertyDetail, "p1", nil, load("new"))
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title, "stale entry must not be served")

	// retries are throttled
	calls := store.evictCalls
	_, err = ReadThrough(ctx, layer, PropertyDetail, "p1", nil, load("new"))
	require.NoError(t, err)
	assert.Equal(t, calls, store.evictCalls)

	// backend recovers; the next read after the interval clears the cache
	store.failEvict = false
	now = now.Add(evictRetryInterval)
	got, err = ReadThrough(ctx, layer, PropertyDetail, "p1", nil, load("new"))
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.False(t, layer.Dirty())
	assert.Equal(t, 1, store.Len(PropertyDetail))

	got, err = ReadThrough(ctx, layer, PropertyDetail, "p1", nil, load("unused"))
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
}

func TestSuccessfulEvictionClearsDirty(t *testing.T) {
	ctx := context.Background()
	store := &flakyEvictStore{MemoryStore: NewMemoryStore(0), failEvict: true}
	layer := NewLayer(store, logging.Discard())

	layer.EvictAll(ctx)
	require.True(t, layer.Dirty())

	store.failEvict = false
	layer.EvictAll(ctx)
	assert.False(t, layer.Dirty())
}
