package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

CREATE TABLE IF NOT EXISTS word_counts (
    word  TEXT PRIMARY KEY,
    count INTEGER NOT NULL
) WITHOUT ROWID;
`

const upsert = `
INSERT INTO word_counts (word, count) VALUES (?, ?)
ON CONFLICT(word) DO UPDATE SET count = count + excluded.count
`

// SQLiteStorage keeps word counts in a SQLite table.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database at path. ":memory:" gives a private
// in-memory database.
func New(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite storage: %w", err)
	}

	// one connection: ":memory:" databases are per connection, and writes
	// are serialized by the aggregator anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteStorage{db: db, path: path}, nil
}

// Add applies all counts in a single transaction.
func (s *SQLiteStorage) Add(ctx context.Context, counts map[string]uint64) error {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite add: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("sqlite add: prepare: %w", err)
	}
	defer stmt.Close()

	for word, n := range counts {
		if _, err := stmt.ExecContext(ctx, word, int64(n)); err != nil {
			return fmt.Errorf("sqlite add %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite add: commit: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) Counts(ctx context.Context) (map[string]uint64, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	rows, err := s.db.QueryContext(ctx, "SELECT word, count FROM word_counts")
	if err != nil {
		return nil, fmt.Errorf("sqlite counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var (
			word  string
			count int64
		)
		if err := rows.Scan(&word, &count); err != nil {
			return nil, fmt.Errorf("sqlite counts: scan: %w", err)
		}
		counts[word] = uint64(count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite counts: %w", err)
	}

	return counts, nil
}

func (s *SQLiteStorage) Reset(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM word_counts"); err != nil {
		return fmt.Errorf("sqlite reset: %w", err)
	}

	return nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Destroy closes the database and removes its files.
func (s *SQLiteStorage) Destroy() error {
	_ = s.Close()
	if s.path == ":memory:" {
		return nil
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(s.path + suffix)
	}
	return os.Remove(s.path)
}
