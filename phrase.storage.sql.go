package phrase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// SQL storage error messages
const (
	ErrMsgSQLConnectionFailed  = "failed to connect to database"
	ErrMsgSQLQueryFailed       = "database query failed"
	ErrMsgSQLTransactionFailed = "database transaction failed"
	ErrMsgSQLScanFailed        = "failed to scan database row"
	ErrMsgSQLMigrationFailed   = "database migration failed"
	ErrMsgSQLEmptyDSN          = "database connection string is empty"
)

// SQL storage defaults
const (
	SQLDefaultTablePrefix  = "phrase_"
	SQLDefaultQueryTimeout = 30 * time.Second
)

// sqlDialect hides the differences between the SQL backends.
type sqlDialect interface {
	// placeholder returns the n-th (1-based) bind parameter.
	placeholder(n int) string
	// migrations returns the schema history for the given table names.
	migrations(table, migrationsTable string) []sqlMigration
	tagsArg(tags []string) (any, error)
	tagsDest(dest *[]string) any
	timeArg(t time.Time) any
	timeDest(dest *time.Time) any
	// hasTag returns a condition matching rows whose tags contain the
	// parameter ph.
	hasTag(ph string) string
	// noLimit is the LIMIT operand meaning unbounded, needed before OFFSET.
	noLimit() string
}

type sqlMigration struct {
	Version     int
	Description string
	Statements  []string
}

// sqlStorage implements PhraseStorage on database/sql. The backends embed
// it and supply the dialect.
type sqlStorage struct {
	db           *sql.DB
	dialect      sqlDialect
	tablePrefix  string
	queryTimeout time.Duration
	mu           sync.RWMutex
	closed       bool
	now          func() time.Time
}

func newSQLStorage(db *sql.DB, dialect sqlDialect, tablePrefix string, queryTimeout time.Duration) *sqlStorage {
	if tablePrefix == "" {
		tablePrefix = SQLDefaultTablePrefix
	}
	if queryTimeout == 0 {
		queryTimeout = SQLDefaultQueryTimeout
	}
	return &sqlStorage{
		db:           db,
		dialect:      dialect,
		tablePrefix:  tablePrefix,
		queryTimeout: queryTimeout,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *sqlStorage) tableName() string {
	return s.tablePrefix + "phrases"
}

func (s *sqlStorage) migrationsTableName() string {
	return s.tablePrefix + "schema_migrations"
}

const sqlColumns = "id, name, pattern, bracket, description, tags, created_at, updated_at"

// Get returns the phrase stored under name.
func (s *sqlStorage) Get(ctx context.Context, name string) (*StoredPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = %s",
		sqlColumns, s.tableName(), s.dialect.placeholder(1))
	p, err := s.scanPhrase(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewPhraseNotFoundError(name)
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLQueryFailed, Name: name, Cause: err}
	}
	return p, nil
}

// Save inserts or updates the row for p.Name inside one transaction.
func (s *sqlStorage) Save(ctx context.Context, p *StoredPhrase) error {
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

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLTransactionFailed, Name: p.Name, Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	ph := s.dialect.placeholder
	var existing *StoredPhrase
	current, err := s.scanPhrase(tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE name = %s", sqlColumns, s.tableName(), ph(1)), p.Name))
	switch {
	case err == nil:
		existing = current
	case !errors.Is(err, sql.ErrNoRows):
		return &StorageError{Message: ErrMsgSQLQueryFailed, Name: p.Name, Cause: err}
	}

	saved := copyStoredPhrase(p)
	stampPhrase(saved, existing, s.now())

	tags, err := s.dialect.tagsArg(saved.Tags)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLQueryFailed, Name: p.Name, Cause: err}
	}

	if existing != nil {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE %s SET pattern = %s, bracket = %s, description = %s, tags = %s, updated_at = %s WHERE name = %s",
			s.tableName(), ph(1), ph(2), ph(3), ph(4), ph(5), ph(6)),
			saved.Pattern, saved.Bracket.String(), saved.Description, tags,
			s.dialect.timeArg(saved.UpdatedAt), saved.Name)
	} else {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s, %s, %s, %s, %s, %s, %s, %s)",
			s.tableName(), sqlColumns, ph(1), ph(2), ph(3), ph(4), ph(5), ph(6), ph(7), ph(8)),
			saved.ID, saved.Name, saved.Pattern, saved.Bracket.String(), saved.Description, tags,
			s.dialect.timeArg(saved.CreatedAt), s.dialect.timeArg(saved.UpdatedAt))
	}
	if err != nil {
		return &StorageError{Message: ErrMsgSQLQueryFailed, Name: p.Name, Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Message: ErrMsgSQLTransactionFailed, Name: p.Name, Cause: err}
	}

	p.ID = saved.ID
	p.CreatedAt = saved.CreatedAt
	p.UpdatedAt = saved.UpdatedAt
	return nil
}

// Delete removes the row for name.
func (s *sqlStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE name = %s", s.tableName(), s.dialect.placeholder(1)), name)
	if err != nil {
		return &StorageError{Message: ErrMsgSQLQueryFailed, Name: name, Cause: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Message: ErrMsgSQLQueryFailed, Name: name, Cause: err}
	}
	if n == 0 {
		return NewPhraseNotFoundError(name)
	}
	return nil
}

// List returns the rows matching query, ordered by name.
func (s *sqlStorage) List(ctx context.Context, query *PhraseQuery) ([]*StoredPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var sb strings.Builder
	var args []any
	fmt.Fprintf(&sb, "SELECT %s FROM %s", sqlColumns, s.tableName())

	var conditions []string
	if query != nil && query.NamePrefix != "" {
		// substr instead of LIKE: SQLite's LIKE ignores ASCII case
		args = append(args, query.NamePrefix, query.NamePrefix)
		conditions = append(conditions, fmt.Sprintf("substr(name, 1, length(CAST(%s AS TEXT))) = %s",
			s.dialect.placeholder(len(args)-1), s.dialect.placeholder(len(args))))
	}
	if query != nil && query.Tag != "" {
		args = append(args, query.Tag)
		conditions = append(conditions, s.dialect.hasTag(s.dialect.placeholder(len(args))))
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY name")
	if query != nil && query.Limit > 0 {
		args = append(args, query.Limit)
		fmt.Fprintf(&sb, " LIMIT %s", s.dialect.placeholder(len(args)))
	}
	if query != nil && query.Offset > 0 {
		if query.Limit <= 0 {
			sb.WriteString(" LIMIT " + s.dialect.noLimit())
		}
		args = append(args, query.Offset)
		fmt.Fprintf(&sb, " OFFSET %s", s.dialect.placeholder(len(args)))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLQueryFailed, Cause: err}
	}
	defer rows.Close()

	out := []*StoredPhrase{}
	for rows.Next() {
		p, err := s.scanPhrase(rows)
		if err != nil {
			return nil, &StorageError{Message: ErrMsgSQLScanFailed, Cause: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Message: ErrMsgSQLQueryFailed, Cause: err}
	}
	return out, nil
}

// Exists reports whether a row exists for name.
func (s *sqlStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE name = %s", s.tableName(), s.dialect.placeholder(1)),
		name).Scan(&n)
	if err != nil {
		return false, &StorageError{Message: ErrMsgSQLQueryFailed, Name: name, Cause: err}
	}
	return n > 0, nil
}

// Close closes the database handle.
func (s *sqlStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// RunMigrations applies every migration not yet recorded in the
// migrations table.
func (s *sqlStorage) RunMigrations(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version     INTEGER PRIMARY KEY,
			description VARCHAR(255)
		)`, s.migrationsTableName()))
	if err != nil {
		return &StorageError{Message: ErrMsgSQLMigrationFailed, Cause: err}
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, m := range s.dialect.migrations(s.tableName(), s.migrationsTableName()) {
		if applied[m.Version] {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return &StorageError{
				Message: ErrMsgSQLMigrationFailed,
				Cause:   fmt.Errorf("migration %d: %w", m.Version, err),
			}
		}
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied migration, or 0.
func (s *sqlStorage) CurrentSchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT MAX(version) FROM %s", s.migrationsTableName())).Scan(&version)
	if err != nil {
		return 0, &StorageError{Message: ErrMsgSQLQueryFailed, Cause: err}
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

func (s *sqlStorage) appliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT version FROM %s", s.migrationsTableName()))
	if err != nil {
		return nil, &StorageError{Message: ErrMsgSQLMigrationFailed, Cause: err}
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, &StorageError{Message: ErrMsgSQLMigrationFailed, Cause: err}
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Message: ErrMsgSQLMigrationFailed, Cause: err}
	}
	return applied, nil
}

func (s *sqlStorage) applyMigration(ctx context.Context, m sqlMigration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	ph := s.dialect.placeholder
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (version, description) VALUES (%s, %s)", s.migrationsTableName(), ph(1), ph(2)),
		m.Version, m.Description); err != nil {
		return err
	}
	return tx.Commit()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *sqlStorage) scanPhrase(row rowScanner) (*StoredPhrase, error) {
	var p StoredPhrase
	var bracket string
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Pattern, &bracket, &description,
		s.dialect.tagsDest(&p.Tags),
		s.dialect.timeDest(&p.CreatedAt),
		s.dialect.timeDest(&p.UpdatedAt)); err != nil {
		return nil, err
	}

	b, err := ParseBracket(bracket)
	if err != nil {
		return nil, err
	}
	p.Bracket = b
	p.Description = description.String
	if len(p.Tags) == 0 {
		p.Tags = nil
	}
	return &p, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
