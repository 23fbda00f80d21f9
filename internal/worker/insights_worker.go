// Package worker refreshes the stored advisory insights whenever the
// expense list changes.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"splitsmart/internal/amqp"
	"splitsmart/internal/assist"
	"splitsmart/internal/snapshot"
)

// InsightsWorker recomputes insights from the full snapshot and stores
// the result. A failed refresh leaves the previous insights in place.
type InsightsWorker struct {
	store     snapshot.Store
	insighter assist.Insighter
}

func NewInsightsWorker(store snapshot.Store, insighter assist.Insighter) *InsightsWorker {
	return &InsightsWorker{
		store:     store,
		insighter: insighter,
	}
}

// HandleExpenseAdded processes a change notification from AMQP.
func (w *InsightsWorker) HandleExpenseAdded(ctx context.Context, msg *amqp.ExpenseAddedMessage) error {
	slog.InfoContext(ctx, "Processing expense added message", "id", msg.ID)
	return w.Refresh(ctx)
}

// Refresh loads the current snapshot, asks the insighter for a fresh set
// of insights and stores them.
func (w *InsightsWorker) Refresh(ctx context.Context) error {
	state, found, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		slog.InfoContext(ctx, "No snapshot yet, skipping insights refresh")
		return nil
	}

	insights, err := w.insighter.Insights(ctx, state.Expenses, state.Friends)
	if err != nil {
		return fmt.Errorf("generate insights: %w", err)
	}

	if err := w.store.SaveInsights(ctx, insights); err != nil {
		return fmt.Errorf("store insights: %w", err)
	}

	slog.InfoContext(ctx, "Refreshed insights",
		"count", len(insights),
		"expenses", len(state.Expenses))
	return nil
}
