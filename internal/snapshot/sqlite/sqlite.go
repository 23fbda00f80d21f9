// Package sqlite persists snapshots in a SQLite database: a single
// key/document table written with upserts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"splitsmart/internal/core"
	"splitsmart/internal/snapshot"
)

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// New opens the database, runs migrations and returns the store.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (snapshot.State, bool, error) {
	var state snapshot.State

	found, err := s.get(ctx, snapshot.KeyFriends, &state.Friends)
	if err != nil {
		return snapshot.State{}, false, err
	}
	if !found {
		return snapshot.State{}, false, nil
	}
	if _, err := s.get(ctx, snapshot.KeyGroups, &state.Groups); err != nil {
		return snapshot.State{}, false, err
	}
	if _, err := s.get(ctx, snapshot.KeyExpenses, &state.Expenses); err != nil {
		return snapshot.State{}, false, err
	}
	return state, true, nil
}

func (s *Store) SaveFriends(ctx context.Context, friends []core.Friend) error {
	return s.put(ctx, snapshot.KeyFriends, friends)
}

func (s *Store) SaveGroups(ctx context.Context, groups []core.Group) error {
	return s.put(ctx, snapshot.KeyGroups, groups)
}

func (s *Store) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	return s.put(ctx, snapshot.KeyExpenses, expenses)
}

func (s *Store) SaveInsights(ctx context.Context, insights []core.Insight) error {
	return s.put(ctx, snapshot.KeyInsights, insights)
}

func (s *Store) LoadInsights(ctx context.Context) ([]core.Insight, error) {
	var insights []core.Insight
	if _, err := s.get(ctx, snapshot.KeyInsights, &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, doc, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		key, string(doc))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) (bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM snapshots WHERE key = ?`, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
