// Package service coordinates ledger mutations with snapshot persistence
// and change notifications.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"splitsmart/internal/core"
	"splitsmart/internal/ledger"
	"splitsmart/internal/metrics"
	"splitsmart/internal/snapshot"
)

// Publisher notifies interested workers that the expense list changed.
// Publishing is best-effort: a failure is logged, never surfaced.
type Publisher interface {
	PublishExpenseAdded(ctx context.Context, id string) error
}

// LedgerService applies mutations to the ledger and persists the touched
// collections as snapshots afterwards. The mutation itself is the source
// of truth; a failed snapshot write is logged and the in-memory state kept.
type LedgerService struct {
	ledger *ledger.Ledger
	store  snapshot.Store
	events Publisher // optional
	logger *slog.Logger
}

func NewLedgerService(l *ledger.Ledger, store snapshot.Store, events Publisher, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		ledger: l,
		store:  store,
		events: events,
		logger: logger,
	}
}

// Ledger exposes the read views.
func (s *LedgerService) Ledger() *ledger.Ledger {
	return s.ledger
}

// AddExpense records an expense, snapshots expenses and friends, and
// publishes a change notification.
func (s *LedgerService) AddExpense(ctx context.Context, candidate core.NewExpense) (core.Expense, error) {
	expense, err := s.ledger.AddExpense(candidate)
	if err != nil {
		return core.Expense{}, err
	}
	metrics.ExpensesCreated.Inc()

	s.persist(ctx)
	s.publish(ctx, expense.ID)

	s.logger.InfoContext(ctx, "Recorded expense",
		"id", expense.ID,
		"amount_cents", expense.Amount.Cents,
		"paid_by", expense.PaidBy,
		"participants", len(expense.Participants))
	return expense, nil
}

// SettleUp settles a friend's balance, snapshots expenses and friends, and
// publishes a change notification.
func (s *LedgerService) SettleUp(ctx context.Context, friendID string, amount core.Money) (core.Expense, error) {
	settlement, err := s.ledger.SettleUp(friendID, amount)
	if err != nil {
		return core.Expense{}, err
	}
	metrics.Settlements.Inc()

	s.persist(ctx)
	s.publish(ctx, settlement.ID)

	s.logger.InfoContext(ctx, "Settled up",
		"friend_id", friendID,
		"amount_cents", settlement.Amount.Cents,
		"paid_by", settlement.PaidBy)
	return settlement, nil
}

func (s *LedgerService) persist(ctx context.Context) {
	// One consistent read of both collections; groups never change.
	friends, _, expenses := s.ledger.State()
	if err := s.store.SaveExpenses(ctx, expenses); err != nil {
		metrics.SnapshotErrors.WithLabelValues(snapshot.KeyExpenses).Inc()
		s.logger.ErrorContext(ctx, "Failed to snapshot expenses", "error", err)
	}
	if err := s.store.SaveFriends(ctx, friends); err != nil {
		metrics.SnapshotErrors.WithLabelValues(snapshot.KeyFriends).Inc()
		s.logger.ErrorContext(ctx, "Failed to snapshot friends", "error", err)
	}
}

func (s *LedgerService) publish(ctx context.Context, expenseID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseAdded(ctx, expenseID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense added event",
			"error", err,
			"id", expenseID)
	}
}

// Bootstrap loads the persisted state or, on first run, seeds the store
// with the hardcoded data set and writes the initial snapshots.
func Bootstrap(ctx context.Context, store snapshot.Store, logger *slog.Logger) (*ledger.Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	state, found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		state = snapshot.Seed()
		if err := store.SaveFriends(ctx, state.Friends); err != nil {
			return nil, fmt.Errorf("seed friends: %w", err)
		}
		if err := store.SaveGroups(ctx, state.Groups); err != nil {
			return nil, fmt.Errorf("seed groups: %w", err)
		}
		if err := store.SaveExpenses(ctx, state.Expenses); err != nil {
			return nil, fmt.Errorf("seed expenses: %w", err)
		}
		logger.InfoContext(ctx, "Seeded initial data set",
			"friends", len(state.Friends),
			"groups", len(state.Groups))
	} else {
		logger.InfoContext(ctx, "Loaded snapshot",
			"friends", len(state.Friends),
			"groups", len(state.Groups),
			"expenses", len(state.Expenses))
	}

	return ledger.New(snapshot.SeedUser(), state.Friends, state.Groups, state.Expenses), nil
}
