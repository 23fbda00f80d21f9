// Package backend selects and constructs the snapshot store from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"splitsmart/internal/snapshot"
	"splitsmart/internal/snapshot/bolt"
	"splitsmart/internal/snapshot/memory"
	"splitsmart/internal/snapshot/sqlite"
)

// Type identifies a snapshot store implementation.
type Type string

const (
	MemoryBackend Type = "memory"
	BoltBackend   Type = "bolt"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, BoltBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a store.
type Config struct {
	Type         Type
	BoltDBPath   string
	SQLiteDBPath string
}

// Validate checks the backend configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case BoltBackend:
		if c.BoltDBPath == "" {
			return fmt.Errorf("bolt database path is required for bolt backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("sqlite database path is required for sqlite backend")
		}
	}
	return nil
}

// New creates the snapshot store for the configured backend type.
func New(cfg Config, logger *slog.Logger) (snapshot.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case BoltBackend:
		store, err := bolt.New(cfg.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize bolt store: %w", err)
		}
		logger.Info("Initialized bolt backend", "db_path", cfg.BoltDBPath)
		return store, nil
	case SQLiteBackend:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil
	default:
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	}
}
