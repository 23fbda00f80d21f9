// Package bolt persists snapshots in a bbolt key-value file: one bucket,
// one JSON document per fixed key.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bbolt "go.etcd.io/bbolt"

	"splitsmart/internal/core"
	"splitsmart/internal/snapshot"
)

const bucketSnapshots = "snapshots"

// Store wraps a bbolt database.
type Store struct {
	db *bbolt.DB
}

// New opens (creating if needed) the database file and the snapshot bucket.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(_ context.Context) (snapshot.State, bool, error) {
	var state snapshot.State
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		doc := b.Get([]byte(snapshot.KeyFriends))
		if doc == nil {
			return nil
		}
		found = true
		if err := json.Unmarshal(doc, &state.Friends); err != nil {
			return fmt.Errorf("decode friends: %w", err)
		}
		if doc := b.Get([]byte(snapshot.KeyGroups)); doc != nil {
			if err := json.Unmarshal(doc, &state.Groups); err != nil {
				return fmt.Errorf("decode groups: %w", err)
			}
		}
		if doc := b.Get([]byte(snapshot.KeyExpenses)); doc != nil {
			if err := json.Unmarshal(doc, &state.Expenses); err != nil {
				return fmt.Errorf("decode expenses: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return snapshot.State{}, false, err
	}
	return state, found, nil
}

func (s *Store) SaveFriends(_ context.Context, friends []core.Friend) error {
	return s.put(snapshot.KeyFriends, friends)
}

func (s *Store) SaveGroups(_ context.Context, groups []core.Group) error {
	return s.put(snapshot.KeyGroups, groups)
}

func (s *Store) SaveExpenses(_ context.Context, expenses []core.Expense) error {
	return s.put(snapshot.KeyExpenses, expenses)
}

func (s *Store) SaveInsights(_ context.Context, insights []core.Insight) error {
	return s.put(snapshot.KeyInsights, insights)
}

func (s *Store) LoadInsights(_ context.Context) ([]core.Insight, error) {
	var insights []core.Insight
	err := s.db.View(func(tx *bbolt.Tx) error {
		doc := tx.Bucket([]byte(bucketSnapshots)).Get([]byte(snapshot.KeyInsights))
		if doc == nil {
			return nil
		}
		return json.Unmarshal(doc, &insights)
	})
	if err != nil {
		return nil, fmt.Errorf("load insights: %w", err)
	}
	return insights, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Put([]byte(key), doc)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
