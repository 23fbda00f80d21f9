package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"splitsmart/internal/assist"
	"splitsmart/internal/core"
	"splitsmart/internal/ledger"
	"splitsmart/internal/metrics"
)

// stateResponse is the full client-facing data set.
type stateResponse struct {
	User     core.User      `json:"user"`
	Friends  []core.Friend  `json:"friends"`
	Groups   []core.Group   `json:"groups"`
	Expenses []core.Expense `json:"expenses"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	l := s.service.Ledger()
	writeJSON(w, http.StatusOK, stateResponse{
		User:     l.User(),
		Friends:  l.Friends(),
		Groups:   l.Groups(),
		Expenses: l.Expenses(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Ledger().Summary())
}

type participantRequest struct {
	ParticipantID string `json:"participant_id"`
	Share         string `json:"share"`
}

// addExpenseRequest carries amounts as decimal strings, e.g. "45.50".
// Either split "equally" over participant_ids, or explicit participants
// with per-head shares.
type addExpenseRequest struct {
	Description    string               `json:"description"`
	Amount         string               `json:"amount"`
	Date           *time.Time           `json:"date,omitempty"`
	PaidBy         string               `json:"paid_by"`
	GroupID        string               `json:"group_id,omitempty"`
	Category       string               `json:"category"`
	Split          string               `json:"split,omitempty"`
	ParticipantIDs []string             `json:"participant_ids,omitempty"`
	Participants   []participantRequest `json:"participants,omitempty"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, fmt.Errorf("amount %q: %w", req.Amount, err))
		return
	}
	amount := core.Cents(cents)

	var participants []core.Participant
	switch {
	case req.Split == "equally":
		if len(req.ParticipantIDs) == 0 {
			writeError(w, core.ErrNoParticipants)
			return
		}
		shares := core.SplitEqually(amount, len(req.ParticipantIDs))
		for i, id := range req.ParticipantIDs {
			participants = append(participants, core.Participant{ParticipantID: id, Share: shares[i]})
		}
	default:
		for _, p := range req.Participants {
			share, err := parseShare(p.Share)
			if err != nil {
				writeError(w, fmt.Errorf("share for %q: %w", p.ParticipantID, err))
				return
			}
			participants = append(participants, core.Participant{ParticipantID: p.ParticipantID, Share: share})
		}
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	expense, err := s.service.AddExpense(r.Context(), core.NewExpense{
		Description:  req.Description,
		Amount:       amount,
		Date:         date,
		PaidBy:       req.PaidBy,
		GroupID:      req.GroupID,
		Category:     core.ParseCategory(req.Category),
		Participants: participants,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// parseShare accepts a decimal string, treating empty and zero inputs as a
// zero share. A participant can appear in a split without owing anything.
func parseShare(s string) (core.Money, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.Trim(trimmed, "0.,") == "" {
		return core.Money{}, nil
	}
	cents, err := core.ParseDecimalToCents(trimmed)
	if err != nil {
		return core.Money{}, err
	}
	return core.Cents(cents), nil
}

type settleRequest struct {
	// AmountCents overrides the amount to settle; defaults to the friend's
	// current balance.
	AmountCents *int64 `json:"amount_cents,omitempty"`
}

type settleResponse struct {
	Settlement core.Expense `json:"settlement"`
	Friend     core.Friend  `json:"friend"`
}

func (s *Server) handleSettleUp(w http.ResponseWriter, r *http.Request) {
	friendID := chi.URLParam(r, "friendID")

	var req settleRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	var amount core.Money
	if req.AmountCents != nil {
		amount = core.Cents(*req.AmountCents)
	} else {
		friend, err := s.service.Ledger().Friend(friendID)
		if err != nil {
			writeError(w, err)
			return
		}
		amount = friend.Balance
	}

	settlement, err := s.service.SettleUp(r.Context(), friendID, amount)
	if err != nil {
		writeError(w, err)
		return
	}

	friend, err := s.service.Ledger().Friend(friendID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settleResponse{Settlement: settlement, Friend: friend})
}

type historyEntry struct {
	Expense core.Expense  `json:"expense"`
	Impact  ledger.Impact `json:"impact"`
}

type historyResponse struct {
	Friend   core.Friend    `json:"friend"`
	Expenses []historyEntry `json:"expenses"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	friendID := chi.URLParam(r, "friendID")
	l := s.service.Ledger()

	friend, err := l.Friend(friendID)
	if err != nil {
		writeError(w, err)
		return
	}
	shared, err := l.SharedHistory(friendID)
	if err != nil {
		writeError(w, err)
		return
	}

	entries := make([]historyEntry, 0, len(shared))
	for _, e := range shared {
		entries = append(entries, historyEntry{Expense: e, Impact: l.Impact(e, friendID)})
	}
	writeJSON(w, http.StatusOK, historyResponse{Friend: friend, Expenses: entries})
}

type parseRequest struct {
	Text string `json:"text"`
}

type draftResponse struct {
	Description      string   `json:"description"`
	AmountCents      int64    `json:"amount_cents"`
	Category         string   `json:"category"`
	ParticipantNames []string `json:"participant_names"`
	ParticipantIDs   []string `json:"participant_ids"`
}

// parseResponse reports ok=false when the assist service is unavailable or
// failed; the client falls back to manual entry.
type parseResponse struct {
	OK    bool           `json:"ok"`
	Draft *draftResponse `json:"draft,omitempty"`
}

func (s *Server) handleParseExpense(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	if s.parser == nil {
		metrics.AssistRequests.WithLabelValues("parse", "unavailable").Inc()
		writeJSON(w, http.StatusOK, parseResponse{OK: false})
		return
	}

	draft, err := s.parser.ParseExpense(r.Context(), req.Text)
	if err != nil {
		metrics.AssistRequests.WithLabelValues("parse", "error").Inc()
		s.logger.WarnContext(r.Context(), "Expense parsing failed", "error", err)
		writeJSON(w, http.StatusOK, parseResponse{OK: false})
		return
	}
	metrics.AssistRequests.WithLabelValues("parse", "ok").Inc()

	writeJSON(w, http.StatusOK, parseResponse{
		OK: true,
		Draft: &draftResponse{
			Description:      draft.Description,
			AmountCents:      draft.Amount.Cents,
			Category:         string(draft.Category),
			ParticipantNames: draft.Participants,
			ParticipantIDs:   assist.MatchFriends(draft.Participants, s.service.Ledger().Friends()),
		},
	})
}

type insightsResponse struct {
	Insights []core.Insight `json:"insights"`
	Source   string         `json:"source"`
}

// handleInsights prefers the worker-maintained stored insights and falls
// back to a direct, cached insighter call when none are stored yet.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.LoadInsights(r.Context())
	if err != nil {
		s.logger.WarnContext(r.Context(), "Failed to load stored insights", "error", err)
	}
	if len(stored) > 0 {
		writeJSON(w, http.StatusOK, insightsResponse{Insights: stored, Source: "stored"})
		return
	}

	if cached, ok := s.insights.Get(insightsCacheKey); ok {
		writeJSON(w, http.StatusOK, insightsResponse{Insights: cached, Source: "cache"})
		return
	}

	if s.insighter == nil {
		writeJSON(w, http.StatusOK, insightsResponse{Insights: []core.Insight{}, Source: "none"})
		return
	}

	l := s.service.Ledger()
	insights, err := s.insighter.Insights(r.Context(), l.Expenses(), l.Friends())
	if err != nil {
		metrics.AssistRequests.WithLabelValues("insights", "error").Inc()
		s.logger.WarnContext(r.Context(), "Insights generation failed", "error", err)
		writeJSON(w, http.StatusOK, insightsResponse{Insights: []core.Insight{}, Source: "none"})
		return
	}
	metrics.AssistRequests.WithLabelValues("insights", "ok").Inc()

	s.insights.Set(insightsCacheKey, insights)
	writeJSON(w, http.StatusOK, insightsResponse{Insights: insights, Source: "live"})
}
