package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood          Category = "food"
	CategoryRent          Category = "rent"
	CategoryTravel        Category = "travel"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

type (
	// Category is the fixed expense classification set.
	Category string

	// Money is a signed amount in cents. Balances use the sign: positive
	// means the friend owes the user, negative means the user owes the friend.
	Money struct {
		Cents int64 `json:"cents"`
	}

	// User is the single local account. One instance per run, immutable.
	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Avatar string `json:"avatar,omitempty"`
	}

	// Friend is a counterparty the user can owe or be owed by.
	// Balance is the only mutable field.
	Friend struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Balance Money  `json:"balance"`
	}

	// Group is a named collection of member ids. Groups carry no balance
	// logic; they are retained as a pass-through entity.
	Group struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Members []string `json:"members"`
		Avatar  string   `json:"avatar,omitempty"`
	}

	// Participant is one entry of an expense split: who, and for how much.
	Participant struct {
		ParticipantID string `json:"participant_id"`
		Share         Money  `json:"share"`
	}

	// Expense is an immutable record of a shared cost.
	Expense struct {
		ID           string        `json:"id"`
		Description  string        `json:"description"`
		Amount       Money         `json:"amount"`
		Date         time.Time     `json:"date"`
		PaidBy       string        `json:"paid_by"`
		GroupID      string        `json:"group_id,omitempty"`
		Category     Category      `json:"category"`
		Participants []Participant `json:"participants"`
	}

	// NewExpense is a candidate expense lacking only its ID.
	NewExpense struct {
		Description  string
		Amount       Money
		Date         time.Time
		PaidBy       string
		GroupID      string
		Category     Category
		Participants []Participant
	}

	// Insight is one advisory message produced by the AI service.
	// Severity is one of "info", "warning" or "success".
	Insight struct {
		Title    string `json:"title"`
		Message  string `json:"message"`
		Severity string `json:"severity"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrNoParticipants     = errors.New("no participants")
	ErrShareMismatch      = errors.New("participant shares do not sum to amount")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrUnknownPayer       = errors.New("unknown payer")
	ErrFriendNotFound     = errors.New("friend not found")
)

// ParseCategory normalizes a free-form category string. Unknown or empty
// values map to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryFood:
		return CategoryFood
	case CategoryRent:
		return CategoryRent
	case CategoryTravel:
		return CategoryTravel
	case CategoryEntertainment:
		return CategoryEntertainment
	default:
		return CategoryOther
	}
}

// IsValid reports whether the category is one of the fixed enumeration.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryRent, CategoryTravel, CategoryEntertainment, CategoryOther:
		return true
	default:
		return false
	}
}

// Validate checks the candidate before it may be applied to the ledger.
// Shares are integer cents, so the sum check is exact: no tolerance needed.
func (e NewExpense) Validate() error {
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if len(e.Participants) == 0 {
		return ErrNoParticipants
	}
	var sum int64
	for _, p := range e.Participants {
		if p.Share.Cents < 0 {
			return ErrInvalidAmount
		}
		sum += p.Share.Cents
	}
	if sum != e.Amount.Cents {
		return ErrShareMismatch
	}
	return nil
}

// ShareOf returns the share recorded for the given participant id,
// defaulting to zero when the id has no entry.
func ShareOf(participants []Participant, id string) Money {
	for _, p := range participants {
		if p.ParticipantID == id {
			return p.Share
		}
	}
	return Money{}
}

// Involves reports whether the given id appears in the expense either as
// the payer or as a participant.
func (e Expense) Involves(id string) bool {
	if e.PaidBy == id {
		return true
	}
	for _, p := range e.Participants {
		if p.ParticipantID == id {
			return true
		}
	}
	return false
}
