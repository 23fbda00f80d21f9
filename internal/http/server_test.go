package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"splitsmart/internal/assist"
	"splitsmart/internal/assist/stub"
	"splitsmart/internal/core"
	"splitsmart/internal/service"
	"splitsmart/internal/snapshot"
	"splitsmart/internal/snapshot/memory"
)

func newTestServer(t *testing.T, parser assist.Parser, insighter assist.Insighter) (*httptest.Server, snapshot.Store) {
	t.Helper()
	store := memory.New()
	l, err := service.Bootstrap(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	svc := service.NewLedgerService(l, store, nil, nil)
	srv := NewServer("0", svc, store, parser, insighter, nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	var body map[string]string
	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestGetState(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	var state stateResponse
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/state", nil, &state)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if state.User.ID != "u1" {
		t.Errorf("user id = %s, want u1", state.User.ID)
	}
	if len(state.Friends) != 3 || len(state.Groups) != 2 {
		t.Errorf("friends = %d, groups = %d; want 3 and 2", len(state.Friends), len(state.Groups))
	}
}

func TestGetSummary(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	var summary struct {
		YouAreOwed   core.Money `json:"you_are_owed"`
		YouOwe       core.Money `json:"you_owe"`
		TotalBalance core.Money `json:"total_balance"`
	}
	doJSON(t, http.MethodGet, ts.URL+"/api/summary", nil, &summary)
	if summary.YouAreOwed.Cents != 4550 {
		t.Errorf("you_are_owed = %d, want 4550", summary.YouAreOwed.Cents)
	}
	if summary.YouOwe.Cents != 1200 {
		t.Errorf("you_owe = %d, want 1200", summary.YouOwe.Cents)
	}
	if summary.TotalBalance.Cents != 3350 {
		t.Errorf("total_balance = %d, want 3350", summary.TotalBalance.Cents)
	}
}

func TestAddExpenseEqualSplit(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)

	var expense core.Expense
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", map[string]any{
		"description":     "Dinner",
		"amount":          "30.00",
		"paid_by":         "u1",
		"category":        "food",
		"split":           "equally",
		"participant_ids": []string{"u1", "f1", "f3"},
	}, &expense)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if expense.Amount.Cents != 3000 {
		t.Errorf("amount = %d, want 3000", expense.Amount.Cents)
	}
	if len(expense.Participants) != 3 {
		t.Fatalf("participants = %d, want 3", len(expense.Participants))
	}

	var state stateResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/state", nil, &state)
	for _, f := range state.Friends {
		switch f.ID {
		case "f1":
			if f.Balance.Cents != 4550+1000 {
				t.Errorf("f1 balance = %d, want 5550", f.Balance.Cents)
			}
		case "f3":
			if f.Balance.Cents != 1000 {
				t.Errorf("f3 balance = %d, want 1000", f.Balance.Cents)
			}
		}
	}
}

func TestAddExpenseExplicitShares(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", map[string]any{
		"description": "Groceries",
		"amount":      "20.00",
		"paid_by":     "f2",
		"category":    "food",
		"participants": []map[string]string{
			{"participant_id": "u1", "share": "8.00"},
			{"participant_id": "f2", "share": "12.00"},
		},
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var state stateResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/state", nil, &state)
	for _, f := range state.Friends {
		if f.ID == "f2" && f.Balance.Cents != -1200-800 {
			t.Errorf("f2 balance = %d, want -2000", f.Balance.Cents)
		}
	}
}

func TestAddExpenseRejectsBadInput(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name: "invalid amount",
			body: map[string]any{
				"description":     "X",
				"amount":          "abc",
				"paid_by":         "u1",
				"category":        "food",
				"split":           "equally",
				"participant_ids": []string{"u1", "f1"},
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown payer",
			body: map[string]any{
				"description":     "X",
				"amount":          "10.00",
				"paid_by":         "ghost",
				"category":        "food",
				"split":           "equally",
				"participant_ids": []string{"u1", "f1"},
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "share mismatch",
			body: map[string]any{
				"description": "X",
				"amount":      "10.00",
				"paid_by":     "u1",
				"category":    "food",
				"participants": []map[string]string{
					{"participant_id": "u1", "share": "3.00"},
					{"participant_id": "f1", "share": "3.00"},
				},
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "no participants",
			body: map[string]any{
				"description": "X",
				"amount":      "10.00",
				"paid_by":     "u1",
				"category":    "food",
				"split":       "equally",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", tt.body, nil)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestSettleUpDefaultsToBalance(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)

	var settled settleResponse
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/friends/f1/settle", nil, &settled)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if settled.Settlement.Amount.Cents != 4550 {
		t.Errorf("settlement amount = %d, want 4550", settled.Settlement.Amount.Cents)
	}
	if settled.Settlement.PaidBy != "f1" {
		t.Errorf("paid_by = %s, want f1", settled.Settlement.PaidBy)
	}
	if !settled.Friend.Balance.IsZero() {
		t.Errorf("friend balance = %d, want 0", settled.Friend.Balance.Cents)
	}
}

func TestSettleUpUnknownFriend(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/friends/ghost/settle", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHistoryWithImpact(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)

	doJSON(t, http.MethodPost, ts.URL+"/api/expenses", map[string]any{
		"description":     "Dinner",
		"amount":          "30.00",
		"paid_by":         "u1",
		"category":        "food",
		"split":           "equally",
		"participant_ids": []string{"u1", "f1", "f3"},
	}, nil)

	var history historyResponse
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/friends/f1/history", nil, &history)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(history.Expenses) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.Expenses))
	}
	entry := history.Expenses[0]
	if entry.Impact.Kind != "lent" {
		t.Errorf("impact kind = %s, want lent", entry.Impact.Kind)
	}
	if entry.Impact.Amount.Cents != 1000 {
		t.Errorf("impact amount = %d, want 1000", entry.Impact.Amount.Cents)
	}
}

func TestHistoryUnknownFriend(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/friends/ghost/history", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestParseExpenseMatchesFriends(t *testing.T) {
	ts, _ := newTestServer(t, stub.New(), nil)

	var parsed parseResponse
	doJSON(t, http.MethodPost, ts.URL+"/api/assist/parse", map[string]string{
		"text": "Dinner 30.00 with Alice and Bob",
	}, &parsed)
	if !parsed.OK {
		t.Fatal("expected ok response")
	}
	if parsed.Draft.AmountCents != 3000 {
		t.Errorf("amount_cents = %d, want 3000", parsed.Draft.AmountCents)
	}
	want := []string{"f1", "f2"}
	if len(parsed.Draft.ParticipantIDs) != 2 || parsed.Draft.ParticipantIDs[0] != want[0] || parsed.Draft.ParticipantIDs[1] != want[1] {
		t.Errorf("participant_ids = %v, want %v", parsed.Draft.ParticipantIDs, want)
	}
}

func TestParseExpenseWithoutParser(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)

	var parsed parseResponse
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/assist/parse", map[string]string{"text": "whatever"}, &parsed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if parsed.OK {
		t.Error("expected ok=false without a parser")
	}
}

func TestInsightsPrefersStored(t *testing.T) {
	ts, store := newTestServer(t, nil, stub.New())

	stored := []core.Insight{{Title: "From worker", Message: "M", Severity: "info"}}
	if err := store.SaveInsights(context.Background(), stored); err != nil {
		t.Fatalf("SaveInsights: %v", err)
	}

	var body insightsResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/insights", nil, &body)
	if body.Source != "stored" {
		t.Errorf("source = %s, want stored", body.Source)
	}
	if len(body.Insights) != 1 || body.Insights[0].Title != "From worker" {
		t.Errorf("insights = %+v, want the stored set", body.Insights)
	}
}

func TestInsightsFallsBackToLive(t *testing.T) {
	ts, _ := newTestServer(t, nil, stub.New())

	var body insightsResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/insights", nil, &body)
	if body.Source != "live" {
		t.Errorf("source = %s, want live", body.Source)
	}
	if len(body.Insights) == 0 {
		t.Error("expected generated insights")
	}

	// Second read should hit the cache.
	doJSON(t, http.MethodGet, ts.URL+"/api/insights", nil, &body)
	if body.Source != "cache" {
		t.Errorf("source = %s, want cache", body.Source)
	}
}

func TestInsightsWithoutInsighter(t *testing.T) {
	ts, _ := newTestServer(t, nil, nil)

	var body insightsResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/insights", nil, &body)
	if body.Source != "none" {
		t.Errorf("source = %s, want none", body.Source)
	}
	if len(body.Insights) != 0 {
		t.Errorf("insights = %+v, want empty", body.Insights)
	}
}
