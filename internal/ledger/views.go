package ledger

import (
	"fmt"

	"splitsmart/internal/core"
)

// Summary is the net position across all friends.
type Summary struct {
	YouAreOwed   core.Money `json:"you_are_owed"`
	YouOwe       core.Money `json:"you_owe"`
	TotalBalance core.Money `json:"total_balance"`
}

// ImpactKind labels how an expense affected the user relative to one friend.
type ImpactKind string

const (
	ImpactLent     ImpactKind = "lent"     // user paid, friend's share was covered
	ImpactBorrowed ImpactKind = "borrowed" // friend paid, user's share was covered
	ImpactShared   ImpactKind = "shared"   // third party paid, no two-party amount
)

// Impact is the per-expense label relative to a specific friend.
type Impact struct {
	Kind   ImpactKind `json:"kind"`
	Amount core.Money `json:"amount"`
}

// User returns the current user.
func (l *Ledger) User() core.User {
	return l.user
}

// Friends returns a copy of the friend set.
func (l *Ledger) Friends() []core.Friend {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Friend(nil), l.friends...)
}

// Groups returns a copy of the group set.
func (l *Ledger) Groups() []core.Group {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Group(nil), l.groups...)
}

// Expenses returns a copy of the expense list, newest first.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Expense(nil), l.expenses...)
}

// State returns copies of all three collections under one lock, so the
// friend set and expense list are mutually consistent.
func (l *Ledger) State() (friends []core.Friend, groups []core.Group, expenses []core.Expense) {
	l.mu.Lock()
	defer l.mu.Unlock()
	friends = append([]core.Friend(nil), l.friends...)
	groups = append([]core.Group(nil), l.groups...)
	expenses = append([]core.Expense(nil), l.expenses...)
	return friends, groups, expenses
}

// Friend looks up a single friend by id.
func (l *Ledger) Friend(id string) (core.Friend, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return core.Friend{}, fmt.Errorf("friend %q: %w", id, core.ErrFriendNotFound)
	}
	return l.friends[idx], nil
}

// Summary computes the net position: youAreOwed is the sum of positive
// balances, youOwe the sum of absolute negative balances, and totalBalance
// their difference.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	var s Summary
	for _, f := range l.friends {
		if f.Balance.IsPositive() {
			s.YouAreOwed = s.YouAreOwed.Add(f.Balance)
		} else {
			s.YouOwe = s.YouOwe.Add(f.Balance.Abs())
		}
	}
	s.TotalBalance = s.YouAreOwed.Sub(s.YouOwe)
	return s
}

// SharedHistory returns the expenses where both the user and the given
// friend appear, either as payer or as a participant. Newest first.
func (l *Ledger) SharedHistory(friendID string) ([]core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(friendID) < 0 {
		return nil, fmt.Errorf("friend %q: %w", friendID, core.ErrFriendNotFound)
	}
	var shared []core.Expense
	for _, e := range l.expenses {
		if e.Involves(l.user.ID) && e.Involves(friendID) {
			shared = append(shared, e)
		}
	}
	return shared, nil
}

// Impact labels one expense relative to a friend: the friend's share is
// "lent" when the user paid, the user's share is "borrowed" when the friend
// paid, and anything else is a shared expense with no two-party amount.
func (l *Ledger) Impact(e core.Expense, friendID string) Impact {
	switch e.PaidBy {
	case l.user.ID:
		return Impact{Kind: ImpactLent, Amount: core.ShareOf(e.Participants, friendID)}
	case friendID:
		return Impact{Kind: ImpactBorrowed, Amount: core.ShareOf(e.Participants, l.user.ID)}
	default:
		return Impact{Kind: ImpactShared}
	}
}
