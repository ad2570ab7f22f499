package phrase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStorage counts backend reads.
type countingStorage struct {
	PhraseStorage
	gets   atomic.Int32
	exists atomic.Int32
}

func (c *countingStorage) Get(ctx context.Context, name string) (*StoredPhrase, error) {
	c.gets.Add(1)
	return c.PhraseStorage.Get(ctx, name)
}

func (c *countingStorage) Exists(ctx context.Context, name string) (bool, error) {
	c.exists.Add(1)
	return c.PhraseStorage.Exists(ctx, name)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(t *testing.T, config CacheConfig) (*CachedStorage, *countingStorage, *fakeClock) {
	t.Helper()
	backend := &countingStorage{PhraseStorage: NewMemoryStorage()}
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCachedStorage(backend, config)
	cache.now = clock.Now
	return cache, backend, clock
}

func TestCachedStorage_GetCachesUntilTTL(t *testing.T) {
	ctx := context.Background()
	cache, backend, clock := newTestCache(t, CacheConfig{TTL: time.Minute})
	require.NoError(t, backend.PhraseStorage.Save(ctx, &StoredPhrase{Name: "a", Pattern: "x"}))

	for i := 0; i < 3; i++ {
		p, err := cache.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "x", p.Pattern)
	}
	assert.Equal(t, int32(1), backend.gets.Load())
	assert.Equal(t, 1, cache.Len())

	clock.Advance(time.Minute)
	_, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int32(2), backend.gets.Load())
}

func TestCachedStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache, _, _ := newTestCache(t, DefaultCacheConfig())
	require.NoError(t, cache.Save(ctx, &StoredPhrase{Name: "a", Pattern: "x"}))

	p, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	p.Pattern = "mutated"

	again, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "x", again.Pattern)
}

func TestCachedStorage_SaveAndDeleteInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, backend, _ := newTestCache(t, DefaultCacheConfig())

	require.NoError(t, cache.Save(ctx, &StoredPhrase{Name: "a", Pattern: "v1"}))
	_, err := cache.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, cache.Save(ctx, &StoredPhrase{Name: "a", Pattern: "v2"}))
	p, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v2", p.Pattern)
	assert.Equal(t, int32(2), backend.gets.Load())

	require.NoError(t, cache.Delete(ctx, "a"))
	_, err = cache.Get(ctx, "a")
	assert.True(t, errors.Is(err, ErrPhraseNotFound))
}

func TestCachedStorage_NegativeCaching(t *testing.T) {
	ctx := context.Background()
	cache, backend, clock := newTestCache(t, CacheConfig{TTL: time.Minute, NegativeTTL: 10 * time.Second})

	for i := 0; i < 2; i++ {
		_, err := cache.Get(ctx, "missing")
		assert.True(t, errors.Is(err, ErrPhraseNotFound))
	}
	assert.Equal(t, int32(1), backend.gets.Load())

	ok, err := cache.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(0), backend.exists.Load())

	clock.Advance(10 * time.Second)
	_, err = cache.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrPhraseNotFound))
	assert.Equal(t, int32(2), backend.gets.Load())

	// a save replaces the negative entry
	require.NoError(t, cache.Save(ctx, &StoredPhrase{Name: "missing", Pattern: "now here"}))
	p, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "now here", p.Pattern)
}

func TestCachedStorage_NegativeCachingDisabled(t *testing.T) {
	ctx := context.Background()
	cache, backend, _ := newTestCache(t, CacheConfig{TTL: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := cache.Get(ctx, "missing")
		assert.True(t, errors.Is(err, ErrPhraseNotFound))
	}
	assert.Equal(t, int32(3), backend.gets.Load())
	assert.Equal(t, 0, cache.Len())
}

func TestCachedStorage_ExistsFromCache(t *testing.T) {
	ctx := context.Background()
	cache, backend, _ := newTestCache(t, DefaultCacheConfig())
	require.NoError(t, cache.Save(ctx, &StoredPhrase{Name: "a", Pattern: "x"}))

	ok, err := cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), backend.exists.Load())

	_, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	ok, err = cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), backend.exists.Load())
}

func TestCachedStorage_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	cache, backend, clock := newTestCache(t, CacheConfig{TTL: time.Hour, MaxEntries: 2})

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, backend.PhraseStorage.Save(ctx, &StoredPhrase{Name: name, Pattern: name}))
	}
	for _, name := range []string{"a", "b", "c"} {
		_, err := cache.Get(ctx, name)
		require.NoError(t, err)
		clock.Advance(time.Second)
	}
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, int32(3), backend.gets.Load())

	// "a" was evicted, "c" is still cached
	_, err := cache.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int32(3), backend.gets.Load())
	_, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int32(4), backend.gets.Load())
}

func TestCachedStorage_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, backend, _ := newTestCache(t, DefaultCacheConfig())
	require.NoError(t, backend.PhraseStorage.Save(ctx, &StoredPhrase{Name: "a", Pattern: "x"}))
	require.NoError(t, backend.PhraseStorage.Save(ctx, &StoredPhrase{Name: "b", Pattern: "y"}))

	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "b")
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate("a")
	assert.Equal(t, 1, cache.Len())

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
	assert.Same(t, backend, cache.Unwrap())
}

func TestNewCachedStorage_Defaults(t *testing.T) {
	cache := NewCachedStorage(NewMemoryStorage(), CacheConfig{})
	assert.Equal(t, DefaultCacheTTL, cache.config.TTL)
	assert.Equal(t, DefaultCacheMaxEntries, cache.config.MaxEntries)
	assert.Equal(t, time.Duration(0), cache.config.NegativeTTL)
}
