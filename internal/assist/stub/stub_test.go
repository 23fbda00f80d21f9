package stub

import (
	"context"
	"reflect"
	"testing"

	"splitsmart/internal/core"
)

func TestParseExpense(t *testing.T) {
	a := New()

	tests := []struct {
		name             string
		text             string
		wantErr          bool
		wantCents        int64
		wantDescription  string
		wantParticipants []string
	}{
		{
			name:            "amount only",
			text:            "Groceries 42.50",
			wantCents:       4250,
			wantDescription: "Groceries 42.50",
		},
		{
			name:             "with clause",
			text:             "Dinner 30 with Alice and Bob",
			wantCents:        3000,
			wantDescription:  "Dinner 30",
			wantParticipants: []string{"alice", "bob"},
		},
		{
			name:             "comma separated names",
			text:             "Taxi 12.00 with alice, charlie",
			wantCents:        1200,
			wantDescription:  "Taxi 12.00",
			wantParticipants: []string{"alice", "charlie"},
		},
		{
			name:      "currency symbol stripped",
			text:      "Lunch $15.25",
			wantCents: 1525,
		},
		{
			name:    "no amount",
			text:    "just some words",
			wantErr: true,
		},
		{
			name:    "empty input",
			text:    "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := a.ParseExpense(context.Background(), tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseExpense(%q) expected error, got %+v", tt.text, draft)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExpense(%q) unexpected error: %v", tt.text, err)
			}
			if draft.Amount.Cents != tt.wantCents {
				t.Errorf("amount = %d cents, want %d", draft.Amount.Cents, tt.wantCents)
			}
			if tt.wantDescription != "" && draft.Description != tt.wantDescription {
				t.Errorf("description = %q, want %q", draft.Description, tt.wantDescription)
			}
			if tt.wantParticipants != nil && !reflect.DeepEqual(draft.Participants, tt.wantParticipants) {
				t.Errorf("participants = %v, want %v", draft.Participants, tt.wantParticipants)
			}
			if draft.Category != core.CategoryFood {
				t.Errorf("category = %s, want %s", draft.Category, core.CategoryFood)
			}
		})
	}
}

func TestInsights(t *testing.T) {
	a := New()

	expenses := []core.Expense{
		{ID: "e1", Amount: core.Cents(1000)},
		{ID: "e2", Amount: core.Cents(2500)},
	}

	t.Run("open balances", func(t *testing.T) {
		friends := []core.Friend{
			{ID: "f1", Balance: core.Cents(500)},
			{ID: "f2", Balance: core.Cents(0)},
		}
		insights, err := a.Insights(context.Background(), expenses, friends)
		if err != nil {
			t.Fatalf("Insights: %v", err)
		}
		if len(insights) != 2 {
			t.Fatalf("expected 2 insights, got %d", len(insights))
		}
		if insights[1].Severity != "warning" {
			t.Errorf("second insight severity = %s, want warning", insights[1].Severity)
		}
	})

	t.Run("all settled", func(t *testing.T) {
		friends := []core.Friend{{ID: "f1", Balance: core.Cents(0)}}
		insights, err := a.Insights(context.Background(), expenses, friends)
		if err != nil {
			t.Fatalf("Insights: %v", err)
		}
		if insights[1].Severity != "success" {
			t.Errorf("second insight severity = %s, want success", insights[1].Severity)
		}
	})
}
