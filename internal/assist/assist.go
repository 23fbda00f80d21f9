// Package assist defines the AI text-service capability the app can be
// enriched with. Both calls are best-effort: the caller treats any error
// as "no result" and carries on.
package assist

import (
	"context"

	"splitsmart/internal/core"
)

// Draft is the structured best-effort guess extracted from free text.
// Participants are free-text names, not ids; MatchFriends resolves them.
type Draft struct {
	Description  string        `json:"description"`
	Amount       core.Money    `json:"amount"`
	Category     core.Category `json:"category"`
	Participants []string      `json:"participants"`
}

// Ports for the AI collaborators.
type (
	// Parser turns a free-text expense description into a Draft.
	Parser interface {
		ParseExpense(ctx context.Context, text string) (*Draft, error)
	}

	// Insighter produces short advisory messages from the full data set.
	Insighter interface {
		Insights(ctx context.Context, expenses []core.Expense, friends []core.Friend) ([]core.Insight, error)
	}
)
