package phrase

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps phrases in a map.
// It is primarily intended for testing and development.
type MemoryStorage struct {
	mu      sync.RWMutex
	phrases map[string]*StoredPhrase
	closed  bool
	now     func() time.Time
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage. The DSN is ignored.
func (d *MemoryStorageDriver) Open(dsn string) (PhraseStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		phrases: make(map[string]*StoredPhrase),
		now:     time.Now,
	}
}

// Get returns the phrase stored under name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	p, ok := s.phrases[name]
	if !ok {
		return nil, NewPhraseNotFoundError(name)
	}
	return copyStoredPhrase(p), nil
}

// Save inserts or replaces a phrase.
func (s *MemoryStorage) Save(ctx context.Context, p *StoredPhrase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validatePhrase(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	stampPhrase(p, s.phrases[p.Name], s.now())
	s.phrases[p.Name] = copyStoredPhrase(p)
	return nil
}

// Delete removes the phrase stored under name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if _, ok := s.phrases[name]; !ok {
		return NewPhraseNotFoundError(name)
	}
	delete(s.phrases, name)
	return nil
}

// List returns the phrases matching query, ordered by name.
func (s *MemoryStorage) List(ctx context.Context, query *PhraseQuery) ([]*StoredPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	out := make([]*StoredPhrase, 0, len(s.phrases))
	for _, p := range s.phrases {
		if query.matches(p) {
			out = append(out, copyStoredPhrase(p))
		}
	}
	sortPhrasesByName(out)
	return query.page(out), nil
}

// Exists reports whether a phrase is stored under name.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	_, ok := s.phrases[name]
	return ok, nil
}

// Close drops every phrase.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.phrases = nil
	return nil
}
