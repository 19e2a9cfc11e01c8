package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCounter implements Counter using SQLite.
type SQLiteCounter struct {
	db    *sql.DB
	kinds int
}

// NewSQLiteCounter opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteCounter(dbPath string, reactionKinds int) (*SQLiteCounter, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteCounter{db: db, kinds: kindsOrDefault(reactionKinds)}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS post_views (
		post_id TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS post_reactions (
		post_id TEXT NOT NULL,
		kind INTEGER NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (post_id, kind)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// IncrementViews adds one view to id.
func (s *SQLiteCounter) IncrementViews(ctx context.Context, id string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO post_views (post_id, count) VALUES (?, 1)
		 ON CONFLICT(post_id) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP
		 RETURNING count`, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return n, nil
}

// Views returns view totals for ids.
func (s *SQLiteCounter) Views(ctx context.Context, ids ...string) ([]int64, error) {
	out := make([]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, count FROM post_views WHERE post_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int64, len(ids))
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, id := range ids {
		out[i] = counts[id]
	}
	return out, nil
}

// AddReaction adds one reaction of kind index to id.
func (s *SQLiteCounter) AddReaction(ctx context.Context, id string, index int) ([]int64, error) {
	if err := checkReaction(index, s.kinds); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO post_reactions (post_id, kind, count) VALUES (?, ?, 1)
		 ON CONFLICT(post_id, kind) DO UPDATE SET count = count + 1`, id, index,
	)
	if err != nil {
		return nil, fmt.Errorf("add reaction: %w", err)
	}
	return s.Reactions(ctx, id)
}

// Reactions returns the totals of every reaction kind for id.
func (s *SQLiteCounter) Reactions(ctx context.Context, id string) ([]int64, error) {
	out := make([]int64, s.kinds)
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, count FROM post_reactions WHERE post_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query reactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind int
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		if kind >= 0 && kind < len(out) {
			out[kind] = n
		}
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteCounter) Close() error {
	return s.db.Close()
}
