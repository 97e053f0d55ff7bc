package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db     *sql.DB
	closed atomic.Bool
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %q: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection. Later calls fail with
// ErrStoreUnavailable.
func (s *sqliteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT PRIMARY KEY,
	hits INTEGER NOT NULL DEFAULT 0,
	misses INTEGER NOT NULL DEFAULT 0,
	last_sweep TEXT,
	saved_at TEXT
);

CREATE TABLE IF NOT EXISTS snapshot_entries (
	snapshot TEXT NOT NULL,
	position INTEGER NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	created_at TEXT NOT NULL,
	last_access TEXT NOT NULL,
	access_count INTEGER NOT NULL,
	score REAL NOT NULL,
	decay REAL NOT NULL,
	PRIMARY KEY(snapshot, key),
	FOREIGN KEY(snapshot) REFERENCES snapshots(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_snapshot_entries_position ON snapshot_entries(snapshot, position);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot replaces the snapshot and all of its entries in a single
// transaction.
func (s *sqliteStore) SaveSnapshot(ctx context.Context, snap store.Snapshot) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if snap.Name == "" {
		return fmt.Errorf("save snapshot: empty name: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteSnapshot(ctx, tx, snap.Name); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO snapshots (name, hits, misses, last_sweep, saved_at)
VALUES (?, ?, ?, ?, ?);
`, snap.Name, snap.Hits, snap.Misses, formatTime(snap.LastSweep), formatTime(snap.SavedAt))
	if err != nil {
		return err
	}

	if len(snap.Entries) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO snapshot_entries (snapshot, position, key, value, created_at, last_access, access_count, score, decay)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(snapshot, key) DO UPDATE SET
	position=excluded.position,
	value=excluded.value,
	created_at=excluded.created_at,
	last_access=excluded.last_access,
	access_count=excluded.access_count,
	score=excluded.score,
	decay=excluded.decay;
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, r := range snap.Entries {
			if _, err := stmt.ExecContext(ctx,
				snap.Name, i, r.Key, string(r.Value),
				formatTime(r.CreatedAt), formatTime(r.LastAccess),
				r.AccessCount, r.Score, r.Decay,
			); err != nil {
				return fmt.Errorf("save entry %q: %w", r.Key, err)
			}
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the snapshot with entries in their saved order.
func (s *sqliteStore) LoadSnapshot(ctx context.Context, name string) (store.Snapshot, error) {
	if s.closed.Load() {
		return store.Snapshot{}, store.ErrClosed
	}
	snap := store.Snapshot{Name: name}
	var lastSweep, savedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
SELECT hits, misses, last_sweep, saved_at FROM snapshots WHERE name = ?;
`, name).Scan(&snap.Hits, &snap.Misses, &lastSweep, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, fmt.Errorf("snapshot %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Snapshot{}, err
	}
	if snap.LastSweep, err = parseTime(lastSweep.String); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %q: %w: %v", name, internalerr.ErrCorruptSnapshot, err)
	}
	if snap.SavedAt, err = parseTime(savedAt.String); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %q: %w: %v", name, internalerr.ErrCorruptSnapshot, err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT key, value, created_at, last_access, access_count, score, decay
FROM snapshot_entries
WHERE snapshot = ?
ORDER BY position ASC;
`, name)
	if err != nil {
		return store.Snapshot{}, err
	}
	defer rows.Close()

	snap.Entries = []store.Record{}
	for rows.Next() {
		var r store.Record
		var value, created, lastAccess string
		if err := rows.Scan(&r.Key, &value, &created, &lastAccess, &r.AccessCount, &r.Score, &r.Decay); err != nil {
			return store.Snapshot{}, err
		}
		r.Value = []byte(value)
		if r.CreatedAt, err = parseTime(created); err != nil {
			return store.Snapshot{}, fmt.Errorf("entry %q: %w: %v", r.Key, internalerr.ErrCorruptSnapshot, err)
		}
		if r.LastAccess, err = parseTime(lastAccess); err != nil {
			return store.Snapshot{}, fmt.Errorf("entry %q: %w: %v", r.Key, internalerr.ErrCorruptSnapshot, err)
		}
		snap.Entries = append(snap.Entries, r)
	}
	return snap, rows.Err()
}

// DeleteSnapshot removes a snapshot and its entries.
func (s *sqliteStore) DeleteSnapshot(ctx context.Context, name string) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteSnapshot(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteSnapshot clears entries explicitly: foreign_keys is a per-connection
// pragma and the pool may hand out connections that never ran it.
func deleteSnapshot(ctx context.Context, tx *sql.Tx, name string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_entries WHERE snapshot = ?`, name); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	return err
}

// ListSnapshots returns the stored snapshot names.
func (s *sqliteStore) ListSnapshots(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM snapshots ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
