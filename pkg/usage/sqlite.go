package usage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists occurrences in SQLite. It is suitable for
// single-instance deployments where counts must survive restarts.
// The database runs in WAL mode with a single writer connection.
type SQLiteStore struct {
	db    *sql.DB
	clock func() time.Time

	recordStmt  *sql.Stmt
	countStmt   *sql.Stmt
	cleanupStmt *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a SQLite store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: dbPath})
}

// NewSQLiteStoreWithConfig creates a SQLite store with custom configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db, clock: time.Now}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS occurrences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		clause_id TEXT NOT NULL,
		scope TEXT NOT NULL,
		scope_value TEXT NOT NULL,
		occurred_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_occurrences_lookup
		ON occurrences(clause_id, scope, scope_value, occurred_at);
	CREATE INDEX IF NOT EXISTS idx_occurrences_occurred_at
		ON occurrences(occurred_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.recordStmt, err = s.db.Prepare(`
		INSERT INTO occurrences (clause_id, scope, scope_value, occurred_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`
		SELECT COUNT(*)
		FROM occurrences
		WHERE clause_id = ? AND scope = ? AND scope_value = ? AND occurred_at >= ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`
		DELETE FROM occurrences WHERE occurred_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	return nil
}

// Record persists one occurrence.
func (s *SQLiteStore) Record(ctx context.Context, occ Occurrence) error {
	occurredAt := occ.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.clock()
	}
	_, err := s.recordStmt.ExecContext(ctx,
		occ.ClauseID, occ.Scope, occ.ScopeValue, occurredAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to record occurrence: %w", err)
	}
	return nil
}

// Count returns the matching occurrences within the period window.
func (s *SQLiteStore) Count(ctx context.Context, clauseID, scope, scopeValue, period string) (int, error) {
	cutoff := periodStart(s.clock(), period)

	var count int
	err := s.countStmt.QueryRowContext(ctx,
		clauseID, scope, scopeValue, cutoff.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count occurrences: %w", err)
	}
	return count, nil
}

// Cleanup deletes occurrences older than the cutoff.
func (s *SQLiteStore) Cleanup(ctx context.Context, before time.Time) (int, error) {
	result, err := s.cleanupStmt.ExecContext(ctx, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up occurrences: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// Close closes the prepared statements and the database.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.recordStmt, s.countStmt, s.cleanupStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
