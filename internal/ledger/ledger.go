// Package ledger owns the per-friend balances and the chronological
// expense list, and applies the balance-update rule on every mutation.
//
// The rule is payer-centric and pairwise: for each participant other than
// the user, the balance changes only when the user or that participant paid.
// Expenses where a third party fronted the money leave balances untouched;
// the ledger tracks user-to-friend positions, not a full debt graph.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"splitsmart/internal/core"
)

// Ledger holds the in-memory collections. Expenses are kept newest first
// and are append-only; friend balances are the only mutable state.
type Ledger struct {
	mu       sync.Mutex
	user     core.User
	friends  []core.Friend
	groups   []core.Group
	expenses []core.Expense
}

// New builds a ledger around the given user and collections. The slices
// are copied; callers keep ownership of their arguments.
func New(user core.User, friends []core.Friend, groups []core.Group, expenses []core.Expense) *Ledger {
	return &Ledger{
		user:     user,
		friends:  append([]core.Friend(nil), friends...),
		groups:   append([]core.Group(nil), groups...),
		expenses: append([]core.Expense(nil), expenses...),
	}
}

// AddExpense validates the candidate, assigns a fresh id, prepends the
// expense and applies the balance rule. Participant entries referencing
// unknown friend ids are skipped without error; the payer however must be
// the user or a known friend.
//
// Balance updates are computed into a fresh copy of the friend set and
// installed in one assignment, so a failed call leaves state untouched.
func (l *Ledger) AddExpense(candidate core.NewExpense) (core.Expense, error) {
	if err := candidate.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if candidate.PaidBy != l.user.ID && l.indexOf(candidate.PaidBy) < 0 {
		return core.Expense{}, fmt.Errorf("payer %q: %w", candidate.PaidBy, core.ErrUnknownPayer)
	}

	expense := core.Expense{
		ID:           uuid.NewString(),
		Description:  candidate.Description,
		Amount:       candidate.Amount,
		Date:         candidate.Date,
		PaidBy:       candidate.PaidBy,
		GroupID:      candidate.GroupID,
		Category:     candidate.Category,
		Participants: append([]core.Participant(nil), candidate.Participants...),
	}

	updated := append([]core.Friend(nil), l.friends...)
	userShare := core.ShareOf(expense.Participants, l.user.ID)

	for _, p := range expense.Participants {
		if p.ParticipantID == l.user.ID {
			continue
		}
		idx := indexOf(updated, p.ParticipantID)
		if idx < 0 {
			// Unknown participant: pairwise ledger skips it.
			continue
		}
		switch expense.PaidBy {
		case l.user.ID:
			// The user fronted the money; this friend owes their share.
			updated[idx].Balance = updated[idx].Balance.Add(p.Share)
		case p.ParticipantID:
			// This friend paid; the user's debt grows by the user's own share.
			updated[idx].Balance = updated[idx].Balance.Sub(userShare)
		}
	}

	l.friends = updated
	l.expenses = append([]core.Expense{expense}, l.expenses...)
	return expense, nil
}

// SettleUp records a settlement expense for the given friend and zeroes
// their balance unconditionally. The amount is expected to be the friend's
// current signed balance; it determines the payer direction and the
// recorded total. A zero amount produces a zero-amount settlement record.
//
// The settlement is split half-and-half between user and friend as a
// bookkeeping convention; the odd cent, if any, lands on the user's share.
func (l *Ledger) SettleUp(friendID string, amount core.Money) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(friendID)
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("settle up %q: %w", friendID, core.ErrFriendNotFound)
	}
	friend := l.friends[idx]

	total := amount.Abs()
	paidBy := l.user.ID
	if amount.IsPositive() {
		paidBy = friendID
	}
	userHalf, friendHalf := total.Halves()

	settlement := core.Expense{
		ID:          uuid.NewString(),
		Description: fmt.Sprintf("Settlement with %s", friend.Name),
		Amount:      total,
		Date:        time.Now(),
		PaidBy:      paidBy,
		Category:    core.CategoryOther,
		Participants: []core.Participant{
			{ParticipantID: l.user.ID, Share: userHalf},
			{ParticipantID: friendID, Share: friendHalf},
		},
	}

	updated := append([]core.Friend(nil), l.friends...)
	updated[idx].Balance = core.Money{}

	l.friends = updated
	l.expenses = append([]core.Expense{settlement}, l.expenses...)
	return settlement, nil
}

// indexOf looks up a friend id while the lock is held.
func (l *Ledger) indexOf(id string) int {
	return indexOf(l.friends, id)
}

func indexOf(friends []core.Friend, id string) int {
	for i, f := range friends {
		if f.ID == id {
			return i
		}
	}
	return -1
}
