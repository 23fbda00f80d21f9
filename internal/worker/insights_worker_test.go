package worker

import (
	"context"
	"errors"
	"testing"

	"splitsmart/internal/amqp"
	"splitsmart/internal/core"
	"splitsmart/internal/snapshot"
	"splitsmart/internal/snapshot/memory"
)

type fakeInsighter struct {
	insights []core.Insight
	err      error
	calls    int
}

func (f *fakeInsighter) Insights(_ context.Context, _ []core.Expense, _ []core.Friend) ([]core.Insight, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.insights, nil
}

func seedStore(t *testing.T) snapshot.Store {
	t.Helper()
	store := memory.New()
	seed := snapshot.Seed()
	ctx := context.Background()
	if err := store.SaveFriends(ctx, seed.Friends); err != nil {
		t.Fatalf("SaveFriends: %v", err)
	}
	if err := store.SaveExpenses(ctx, []core.Expense{{ID: "e1", Amount: core.Cents(1000)}}); err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}
	return store
}

func TestRefreshStoresInsights(t *testing.T) {
	store := seedStore(t)
	insighter := &fakeInsighter{insights: []core.Insight{
		{Title: "Tip", Message: "Spend less.", Severity: "info"},
	}}
	w := NewInsightsWorker(store, insighter)

	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	stored, err := store.LoadInsights(context.Background())
	if err != nil {
		t.Fatalf("LoadInsights: %v", err)
	}
	if len(stored) != 1 || stored[0].Title != "Tip" {
		t.Errorf("stored insights = %+v, want the generated set", stored)
	}
}

func TestRefreshFailureKeepsPreviousInsights(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()
	previous := []core.Insight{{Title: "Old", Message: "Still valid.", Severity: "info"}}
	if err := store.SaveInsights(ctx, previous); err != nil {
		t.Fatalf("SaveInsights: %v", err)
	}

	w := NewInsightsWorker(store, &fakeInsighter{err: errors.New("model unavailable")})
	if err := w.Refresh(ctx); err == nil {
		t.Fatal("expected error from failing insighter")
	}

	stored, err := store.LoadInsights(ctx)
	if err != nil {
		t.Fatalf("LoadInsights: %v", err)
	}
	if len(stored) != 1 || stored[0].Title != "Old" {
		t.Errorf("stored insights = %+v, want the previous set", stored)
	}
}

func TestRefreshSkipsWithoutSnapshot(t *testing.T) {
	insighter := &fakeInsighter{}
	w := NewInsightsWorker(memory.New(), insighter)

	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if insighter.calls != 0 {
		t.Errorf("insighter called %d times, want 0", insighter.calls)
	}
}

func TestHandleExpenseAdded(t *testing.T) {
	store := seedStore(t)
	insighter := &fakeInsighter{insights: []core.Insight{{Title: "T", Message: "M", Severity: "info"}}}
	w := NewInsightsWorker(store, insighter)

	msg := amqp.NewExpenseAddedMessage("e1")
	if err := w.HandleExpenseAdded(context.Background(), msg); err != nil {
		t.Fatalf("HandleExpenseAdded: %v", err)
	}
	if insighter.calls != 1 {
		t.Errorf("insighter called %d times, want 1", insighter.calls)
	}
}
