package phrase

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Cache defaults
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheNegativeTTL = 30 * time.Second
	DefaultCacheMaxEntries  = 1000
)

// CacheConfig configures CachedStorage.
type CacheConfig struct {
	// TTL is how long a cached phrase stays valid.
	// Default: 5 minutes
	TTL time.Duration `yaml:"ttl"`

	// NegativeTTL is how long a "not found" result is cached.
	// 0 disables negative caching.
	NegativeTTL time.Duration `yaml:"negative_ttl"`

	// MaxEntries bounds the cache; the oldest entry is evicted first.
	// Default: 1000
	MaxEntries int `yaml:"max_entries"`
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:         DefaultCacheTTL,
		NegativeTTL: DefaultCacheNegativeTTL,
		MaxEntries:  DefaultCacheMaxEntries,
	}
}

type cacheEntry struct {
	phrase   *StoredPhrase
	notFound bool
	cachedAt time.Time
}

// CachedStorage wraps any PhraseStorage and caches Get results. Save and
// Delete invalidate the affected name. List always reaches the backend.
type CachedStorage struct {
	storage PhraseStorage
	config  CacheConfig
	now     func() time.Time

	mu     sync.Mutex
	cache  map[string]*cacheEntry
	closed bool
}

// NewCachedStorage wraps storage with caching.
func NewCachedStorage(storage PhraseStorage, config CacheConfig) *CachedStorage {
	if config.TTL == 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	return &CachedStorage{
		storage: storage,
		config:  config,
		now:     time.Now,
		cache:   make(map[string]*cacheEntry),
	}
}

// Get returns a cached phrase or fetches and caches it.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		s.mu.Unlock()
		if entry.notFound {
			return nil, NewPhraseNotFoundError(name)
		}
		return copyStoredPhrase(entry.phrase), nil
	}
	s.mu.Unlock()

	p, err := s.storage.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if err != nil {
		if errors.Is(err, ErrPhraseNotFound) && s.config.NegativeTTL > 0 {
			s.add(name, nil, true)
		}
		return nil, err
	}
	s.add(name, p, false)
	return copyStoredPhrase(p), nil
}

// Save writes through and invalidates name.
func (s *CachedStorage) Save(ctx context.Context, p *StoredPhrase) error {
	if err := s.storage.Save(ctx, p); err != nil {
		return err
	}
	s.Invalidate(p.Name)
	return nil
}

// Delete writes through and invalidates name.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// List bypasses the cache.
func (s *CachedStorage) List(ctx context.Context, query *PhraseQuery) ([]*StoredPhrase, error) {
	return s.storage.List(ctx, query)
}

// Exists answers from the cache when it holds a valid entry.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		s.mu.Unlock()
		return !entry.notFound, nil
	}
	s.mu.Unlock()

	return s.storage.Exists(ctx, name)
}

// Close clears the cache and closes the wrapped storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.mu.Unlock()
	return s.storage.Close()
}

// Invalidate drops the cached entry for name.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, name)
}

// InvalidateAll drops every cached entry.
func (s *CachedStorage) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.cache = make(map[string]*cacheEntry)
	}
}

// Len returns the number of cached entries, including expired ones not
// yet evicted.
func (s *CachedStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Unwrap returns the wrapped storage.
func (s *CachedStorage) Unwrap() PhraseStorage {
	return s.storage
}

func (s *CachedStorage) isValid(entry *cacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeTTL
	}
	return s.now().Sub(entry.cachedAt) < ttl
}

// add stores an entry, evicting the oldest when full. Callers hold mu.
func (s *CachedStorage) add(name string, p *StoredPhrase, notFound bool) {
	if _, exists := s.cache[name]; !exists && len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}
	s.cache[name] = &cacheEntry{
		phrase:   copyStoredPhrase(p),
		notFound: notFound,
		cachedAt: s.now(),
	}
}

func (s *CachedStorage) evictOldest() {
	var oldestName string
	var oldest time.Time
	first := true
	for name, entry := range s.cache {
		if first || entry.cachedAt.Before(oldest) {
			oldestName, oldest, first = name, entry.cachedAt, false
		}
	}
	if !first {
		delete(s.cache, oldestName)
	}
}
