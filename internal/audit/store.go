package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/adenhq/grep-search-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entry doesn't exist
	ErrNotFound = errors.New("not found")
)

// Entry is the audit record for one search request. Match contents are never
// recorded, only request parameters and outcome summary.
type Entry struct {
	ID           string
	WorkspaceID  string
	AgentID      string
	SessionID    string
	Pattern      string
	Path         string
	Recursive    bool
	TotalMatches int
	Capped       bool
	Error        string
	Duration     time.Duration
	CreatedAt    time.Time
}

// Store persists audit entries in SQLite.
type Store struct {
	db *sql.DB
}

// openDatabase opens the audit database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewStore opens (or creates) the audit database at dbPath and applies any
// pending migrations. Migration application is serialized across processes
// with a file lock so concurrent server instances sharing one database do
// not race schema setup.
func NewStore(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	lock := flock.New(filepath.Clean(dbPath) + ".lock")
	if err := lock.Lock(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to lock audit database for migration: %w", err)
	}
	migErr := ApplyMigrations(context.Background(), db)
	if unlockErr := lock.Unlock(); unlockErr != nil && migErr == nil {
		migErr = unlockErr
	}
	if migErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply audit migrations: %w", migErr)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one audit entry. A zero ID is assigned a fresh UUID and a
// zero CreatedAt the current time; both are written back to the entry.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO searches (id, workspace_id, agent_id, session_id, pattern, path,
			recursive, total_matches, capped, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.WorkspaceID, e.AgentID, e.SessionID, e.Pattern, e.Path,
		e.Recursive, e.TotalMatches, e.Capped, nullable(e.Error),
		e.Duration.Milliseconds(), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// BySession returns the most recent entries for one sandbox identity, newest
// first, limited to limit rows.
func (s *Store) BySession(ctx context.Context, workspaceID, agentID, sessionID string, limit int) ([]Entry, error) {
	query := `
		SELECT id, workspace_id, agent_id, session_id, pattern, path,
			recursive, total_matches, capped, COALESCE(error, ''), duration_ms, created_at
		FROM searches
		WHERE workspace_id = ? AND agent_id = ? AND session_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, workspaceID, agentID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.WorkspaceID, &e.AgentID, &e.SessionID,
			&e.Pattern, &e.Path, &e.Recursive, &e.TotalMatches, &e.Capped,
			&e.Error, &durationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search entry: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns a single entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	query := `
		SELECT id, workspace_id, agent_id, session_id, pattern, path,
			recursive, total_matches, capped, COALESCE(error, ''), duration_ms, created_at
		FROM searches WHERE id = ?
	`
	var e Entry
	var durationMS int64
	err := s.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.WorkspaceID,
		&e.AgentID, &e.SessionID, &e.Pattern, &e.Path, &e.Recursive,
		&e.TotalMatches, &e.Capped, &e.Error, &durationMS, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get search entry: %w", err)
	}
	e.Duration = time.Duration(durationMS) * time.Millisecond
	return &e, nil
}

// PruneOlderThan deletes entries created before the retention horizon and
// returns the number removed.
func (s *Store) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	horizon := time.Now().UTC().Add(-age)
	result, err := s.db.ExecContext(ctx, "DELETE FROM searches WHERE created_at < ?", horizon)
	if err != nil {
		return 0, fmt.Errorf("failed to prune searches: %w", err)
	}
	return result.RowsAffected()
}

// FromRequest builds an Entry summarizing a completed search.
func FromRequest(req types.SearchRequest, result *types.SearchResult, searchErr error, duration time.Duration) *Entry {
	e := &Entry{
		WorkspaceID: req.WorkspaceID,
		AgentID:     req.AgentID,
		SessionID:   req.SessionID,
		Pattern:     req.Pattern,
		Path:        req.Path,
		Recursive:   req.Recursive,
		Duration:    duration,
	}
	if searchErr != nil {
		e.Error = searchErr.Error()
		return e
	}
	e.TotalMatches = result.TotalMatches
	e.Capped = result.Warning != ""
	return e
}

// nullable maps an empty string onto SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
