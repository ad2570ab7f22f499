package phrase

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemFileSuffix      = ".yaml"
)

// Filesystem storage error messages
const (
	ErrMsgInvalidStorageRoot = "storage root directory is empty"
	ErrMsgCreateStorageDir   = "failed to create storage directory"
	ErrMsgReadPhraseFile     = "failed to read phrase file"
	ErrMsgWritePhraseFile    = "failed to write phrase file"
	ErrMsgDecodePhraseFile   = "failed to decode phrase file"
)

// FilesystemStorage keeps one YAML document per phrase:
//
//	<root>/
//	  greeting.yaml
//	  order.confirmation.yaml
//
// Names are restricted to letters, digits, '_', '-' and '.' so that every
// name maps to exactly one file inside root.
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
	now    func() time.Time
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a FilesystemStorage. The DSN is the root directory.
func (d *FilesystemStorageDriver) Open(dsn string) (PhraseStorage, error) {
	return NewFilesystemStorage(dsn)
}

// NewFilesystemStorage creates a storage rooted at root, creating the
// directory when needed.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{
			Message: ErrMsgCreateStorageDir,
			Name:    root,
			Cause:   err,
		}
	}
	return &FilesystemStorage{root: root, now: time.Now}, nil
}

// Get returns the phrase stored under name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if !validFileName(name) {
		return nil, NewPhraseNotFoundError(name)
	}
	return s.load(name)
}

// Save writes the phrase file, replacing any previous version atomically.
func (s *FilesystemStorage) Save(ctx context.Context, p *StoredPhrase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validatePhrase(p); err != nil {
		return err
	}
	if !validFileName(p.Name) {
		return &StorageError{Message: ErrMsgInvalidPhraseName, Name: p.Name}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	existing, err := s.load(p.Name)
	if err != nil && !errors.Is(err, ErrPhraseNotFound) {
		return err
	}
	stampPhrase(p, existing, s.now())

	data, err := yaml.Marshal(p)
	if err != nil {
		return &StorageError{Message: ErrMsgWritePhraseFile, Name: p.Name, Cause: err}
	}
	if err := writeFileAtomic(s.path(p.Name), data); err != nil {
		return &StorageError{Message: ErrMsgWritePhraseFile, Name: p.Name, Cause: err}
	}
	return nil
}

// Delete removes the phrase file.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if !validFileName(name) {
		return NewPhraseNotFoundError(name)
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewPhraseNotFoundError(name)
		}
		return &StorageError{Message: ErrMsgWritePhraseFile, Name: name, Cause: err}
	}
	return nil
}

// List reads every phrase file and returns the matches ordered by name.
func (s *FilesystemStorage) List(ctx context.Context, query *PhraseQuery) ([]*StoredPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadPhraseFile, Name: s.root, Cause: err}
	}

	out := make([]*StoredPhrase, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FilesystemFileSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), FilesystemFileSuffix)
		if query != nil && query.NamePrefix != "" && !strings.HasPrefix(name, query.NamePrefix) {
			continue
		}
		p, err := s.load(name)
		if err != nil {
			return nil, err
		}
		if query.matches(p) {
			out = append(out, p)
		}
	}
	sortPhrasesByName(out)
	return query.page(out), nil
}

// Exists reports whether a phrase file exists for name.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}
	if !validFileName(name) {
		return false, nil
	}

	if _, err := os.Stat(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &StorageError{Message: ErrMsgReadPhraseFile, Name: name, Cause: err}
	}
	return true, nil
}

// Close marks the storage closed. Files are left in place.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Root returns the storage directory.
func (s *FilesystemStorage) Root() string {
	return s.root
}

func (s *FilesystemStorage) path(name string) string {
	return filepath.Join(s.root, name+FilesystemFileSuffix)
}

func (s *FilesystemStorage) load(name string) (*StoredPhrase, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewPhraseNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgReadPhraseFile, Name: name, Cause: err}
	}

	var p StoredPhrase
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &StorageError{Message: ErrMsgDecodePhraseFile, Name: name, Cause: err}
	}
	// the file name is authoritative
	p.Name = name
	return &p, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".phrase-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, FilesystemFilePermissions); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func validFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
