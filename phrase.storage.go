package phrase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/go-cuserr"
)

// StoredPhrase is a named pattern kept in a storage backend.
type StoredPhrase struct {
	// ID is assigned on the first save and kept across updates.
	ID string `json:"id" yaml:"id"`

	// Name is the unique lookup key.
	Name string `json:"name" yaml:"name"`

	// Pattern is the raw, unparsed pattern.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Bracket is the profile the pattern is parsed with.
	Bracket Bracket `json:"bracket" yaml:"bracket"`

	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// HasTag reports whether the phrase carries tag.
func (p *StoredPhrase) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PhraseQuery filters List results. A nil query matches everything.
type PhraseQuery struct {
	// NamePrefix keeps names starting with this prefix.
	NamePrefix string

	// Tag keeps phrases carrying this tag.
	Tag string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// PhraseStorage is the interface for pluggable phrase backends.
// Implementations must be safe for concurrent use.
type PhraseStorage interface {
	// Get returns the phrase stored under name.
	// Returns ErrPhraseNotFound if there is none.
	Get(ctx context.Context, name string) (*StoredPhrase, error)

	// Save inserts or replaces the phrase with p.Name. ID and CreatedAt
	// are assigned on insert and kept on update; UpdatedAt is always set.
	// The stored values are written back into p.
	Save(ctx context.Context, p *StoredPhrase) error

	// Delete removes the phrase stored under name.
	// Returns ErrPhraseNotFound if there is none.
	Delete(ctx context.Context, name string) error

	// List returns the phrases matching query, ordered by name.
	List(ctx context.Context, query *PhraseQuery) ([]*StoredPhrase, error)

	// Exists reports whether a phrase is stored under name.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases resources. Later calls fail with a storage closed error.
	Close() error
}

// StorageDriver creates storage instances from a driver specific DSN.
// Drivers register themselves during init().
type StorageDriver interface {
	Open(dsn string) (PhraseStorage, error)
}

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNameSQLite     = "sqlite"
	StorageDriverNamePostgres   = "postgres"
)

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgPhraseNotFound          = "phrase not found"
	ErrMsgInvalidPhraseName       = "invalid phrase name"
	ErrMsgInvalidBracket          = "invalid bracket profile"
)

// ErrPhraseNotFound is wrapped by every lookup of a missing phrase
var ErrPhraseNotFound = errors.New(ErrMsgPhraseNotFound)

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if driver is nil or the name is taken.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage using the named driver.
//
//	storage, err := phrase.OpenStorage("memory", "")
//	storage, err := phrase.OpenStorage("filesystem", "/path/to/phrases")
//	storage, err := phrase.OpenStorage("sqlite", "/path/to/phrases.db")
func OpenStorage(driverName, dsn string) (PhraseStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(dsn)
}

// ListStorageDrivers returns the registered driver names, sorted.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StorageError represents a storage-related failure.
type StorageError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageDriverNotFoundError creates an error for an unregistered driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// NewPhraseNotFoundError creates an error for a missing phrase.
func NewPhraseNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrPhraseNotFound, ErrCodeStorage, ErrMsgPhraseNotFound).
		WithMetadata(MetaKeyName, name)
}

// IsStorageClosed reports whether err came from a closed storage.
func IsStorageClosed(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Message == ErrMsgStorageClosed
}

// validatePhrase checks the fields every backend requires.
func validatePhrase(p *StoredPhrase) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return &StorageError{Message: ErrMsgInvalidPhraseName}
	}
	if !p.Bracket.Valid() {
		return &StorageError{Message: ErrMsgInvalidBracket, Name: p.Name}
	}
	return nil
}

// stampPhrase fills ID and timestamps for a save. existing is the stored
// version, or nil on insert.
func stampPhrase(p *StoredPhrase, existing *StoredPhrase, now time.Time) {
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func copyStoredPhrase(p *StoredPhrase) *StoredPhrase {
	if p == nil {
		return nil
	}
	out := *p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return &out
}

func (q *PhraseQuery) matches(p *StoredPhrase) bool {
	if q == nil {
		return true
	}
	if q.NamePrefix != "" && !strings.HasPrefix(p.Name, q.NamePrefix) {
		return false
	}
	if q.Tag != "" && !p.HasTag(q.Tag) {
		return false
	}
	return true
}

// page applies Offset and Limit to a name-ordered result.
func (q *PhraseQuery) page(phrases []*StoredPhrase) []*StoredPhrase {
	if q == nil {
		return phrases
	}
	if q.Offset > 0 {
		if q.Offset >= len(phrases) {
			return []*StoredPhrase{}
		}
		phrases = phrases[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(phrases) {
		phrases = phrases[:q.Limit]
	}
	return phrases
}

func sortPhrasesByName(phrases []*StoredPhrase) {
	sort.Slice(phrases, func(i, j int) bool {
		return phrases[i].Name < phrases[j].Name
	})
}
