package phrase

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteMemoryPath opens a private in-memory database
const SQLiteMemoryPath = ":memory:"

// SQLiteConfig configures the SQLite storage driver.
type SQLiteConfig struct {
	// Path is the database file, or SQLiteMemoryPath.
	Path string

	// TablePrefix prefixes the table names.
	// Default: "phrase_"
	TablePrefix string

	// QueryTimeout bounds every statement.
	// Default: 30 seconds
	QueryTimeout time.Duration
}

// SQLiteStorage keeps phrases in a SQLite database.
// It is suitable for single-process use.
type SQLiteStorage struct {
	*sqlStorage
	path string
}

// SQLiteStorageDriver is the driver for creating SQLiteStorage instances.
type SQLiteStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameSQLite, &SQLiteStorageDriver{})
}

// Open creates a SQLiteStorage. The DSN is the database path.
func (d *SQLiteStorageDriver) Open(dsn string) (PhraseStorage, error) {
	return NewSQLiteStorage(SQLiteConfig{Path: dsn})
}

// NewSQLiteStorage opens the database, enables WAL for file databases and
// applies the schema migrations.
func NewSQLiteStorage(config SQLiteConfig) (*SQLiteStorage, error) {
	if config.Path == "" {
		return nil, &StorageError{Message: ErrMsgSQLEmptyDSN}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLConnectionFailed, Name: config.Path, Cause: err}
	}

	if config.Path == SQLiteMemoryPath {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, &StorageError{Message: ErrMsgSQLConnectionFailed, Name: config.Path, Cause: err}
	}

	storage := &SQLiteStorage{
		sqlStorage: newSQLStorage(db, sqliteDialect{}, config.TablePrefix, config.QueryTimeout),
		path:       config.Path,
	}

	ctx, cancel := context.WithTimeout(context.Background(), storage.queryTimeout)
	defer cancel()
	if err := storage.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

// Path returns the database path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

type sqliteDialect struct{}

func (sqliteDialect) placeholder(int) string { return "?" }

func (sqliteDialect) migrations(table, _ string) []sqlMigration {
	return []sqlMigration{
		{
			Version:     1,
			Description: "create phrases table",
			Statements: []string{
				fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
					id          TEXT PRIMARY KEY,
					name        TEXT NOT NULL UNIQUE,
					pattern     TEXT NOT NULL,
					bracket     TEXT NOT NULL DEFAULT 'curly',
					description TEXT NOT NULL DEFAULT '',
					tags        TEXT NOT NULL DEFAULT '[]',
					created_at  TEXT NOT NULL,
					updated_at  TEXT NOT NULL
				)`, table),
			},
		},
	}
}

func (sqliteDialect) tagsArg(tags []string) (any, error) {
	data, err := json.Marshal(nonNilTags(tags))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (sqliteDialect) tagsDest(dest *[]string) any {
	return &jsonTags{dest: dest}
}

func (sqliteDialect) timeArg(t time.Time) any {
	return t.UTC().Format(time.RFC3339Nano)
}

func (sqliteDialect) timeDest(dest *time.Time) any {
	return &textTime{dest: dest}
}

func (sqliteDialect) hasTag(ph string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(tags) WHERE json_each.value = %s)", ph)
}

func (sqliteDialect) noLimit() string { return "-1" }

// jsonTags scans a JSON array column into a string slice.
type jsonTags struct {
	dest *[]string
}

func (j *jsonTags) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*j.dest = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}
	return json.Unmarshal(data, j.dest)
}

// textTime scans an RFC 3339 text column into a time.
type textTime struct {
	dest *time.Time
}

func (t *textTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t.dest = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
}

func (t *textTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t.dest = parsed.UTC()
	return nil
}
