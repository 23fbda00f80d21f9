// Package snapshot defines the persistence port for the ledger collections.
//
// Persistence is whole-collection: after every mutation each touched
// collection is serialized as one JSON document and written under a fixed
// key. There is no incremental update support and no schema versioning.
package snapshot

import (
	"context"

	"splitsmart/internal/core"
)

// Fixed keys the collections are stored under.
const (
	KeyFriends  = "friends"
	KeyGroups   = "groups"
	KeyExpenses = "expenses"
	KeyInsights = "insights"
)

// State bundles the three persisted collections.
type State struct {
	Friends  []core.Friend  `json:"friends"`
	Groups   []core.Group   `json:"groups"`
	Expenses []core.Expense `json:"expenses"`
}

// Store is the snapshot persistence port.
type Store interface {
	// Load reads the persisted state. found is false when no snapshot
	// has ever been written; callers fall back to the seed data set.
	Load(ctx context.Context) (state State, found bool, err error)

	// SaveFriends persists the whole friend collection.
	SaveFriends(ctx context.Context, friends []core.Friend) error

	// SaveGroups persists the whole group collection.
	SaveGroups(ctx context.Context, groups []core.Group) error

	// SaveExpenses persists the whole expense list, newest first.
	SaveExpenses(ctx context.Context, expenses []core.Expense) error

	// SaveInsights persists the advisory messages the insights worker
	// produced, replacing any previous set.
	SaveInsights(ctx context.Context, insights []core.Insight) error

	// LoadInsights returns the stored advisory messages, or nil when
	// none have been produced yet.
	LoadInsights(ctx context.Context) ([]core.Insight, error)

	// Close releases any resources held by the store.
	Close() error
}
