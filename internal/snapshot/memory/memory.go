// Package memory provides an in-process snapshot store for tests and
// default runs without a database file.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"splitsmart/internal/core"
	"splitsmart/internal/snapshot"
)

// Store keeps serialized documents keyed like the durable backends do, so
// it exercises the same marshal round-trip.
type Store struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context) (snapshot.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state snapshot.State
	doc, ok := s.docs[snapshot.KeyFriends]
	if !ok {
		return state, false, nil
	}
	if err := json.Unmarshal(doc, &state.Friends); err != nil {
		return state, false, fmt.Errorf("decode friends: %w", err)
	}
	if doc, ok := s.docs[snapshot.KeyGroups]; ok {
		if err := json.Unmarshal(doc, &state.Groups); err != nil {
			return state, false, fmt.Errorf("decode groups: %w", err)
		}
	}
	if doc, ok := s.docs[snapshot.KeyExpenses]; ok {
		if err := json.Unmarshal(doc, &state.Expenses); err != nil {
			return state, false, fmt.Errorf("decode expenses: %w", err)
		}
	}
	return state, true, nil
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
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[snapshot.KeyInsights]
	if !ok {
		return nil, nil
	}
	var insights []core.Insight
	if err := json.Unmarshal(doc, &insights); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	return insights, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) put(key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = doc
	return nil
}
