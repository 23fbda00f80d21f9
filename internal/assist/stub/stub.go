// Package stub is a deterministic assist implementation for tests and
// offline runs. Parsing is a rough heuristic: the first decimal number in
// the text is the amount and names after "with" become participants.
package stub

import (
	"context"
	"fmt"
	"strings"

	"splitsmart/internal/assist"
	"splitsmart/internal/core"
)

// Assist implements both assist ports without any network calls.
type Assist struct{}

func New() *Assist {
	return &Assist{}
}

// ParseExpense implements assist.Parser.
func (a *Assist) ParseExpense(_ context.Context, text string) (*assist.Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty input")
	}

	var amount core.Money
	description := text
	for _, token := range strings.Fields(text) {
		cents, err := core.ParseDecimalToCents(strings.Trim(token, "$€"))
		if err == nil {
			amount = core.Cents(cents)
			break
		}
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("no amount found in %q", text)
	}

	var participants []string
	if _, after, ok := strings.Cut(strings.ToLower(text), " with "); ok {
		after = strings.ReplaceAll(after, " and ", ",")
		for _, name := range strings.Split(after, ",") {
			if name = strings.TrimSpace(name); name != "" {
				participants = append(participants, name)
			}
		}
		// Drop the participant clause from the description.
		description = strings.TrimSpace(text[:strings.Index(strings.ToLower(text), " with ")])
	}

	return &assist.Draft{
		Description:  description,
		Amount:       amount,
		Category:     core.CategoryFood,
		Participants: participants,
	}, nil
}

// Insights implements assist.Insighter with messages derived from the data.
func (a *Assist) Insights(_ context.Context, expenses []core.Expense, friends []core.Friend) ([]core.Insight, error) {
	var total core.Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	insights := []core.Insight{
		{
			Title:    "Spending summary",
			Message:  fmt.Sprintf("You have %d expenses totalling %s.", len(expenses), total),
			Severity: "info",
		},
	}

	var owed int
	for _, f := range friends {
		if !f.Balance.IsZero() {
			owed++
		}
	}
	if owed == 0 {
		insights = append(insights, core.Insight{
			Title:    "All settled",
			Message:  "No outstanding balances with your friends. Nice work!",
			Severity: "success",
		})
	} else {
		insights = append(insights, core.Insight{
			Title:    "Open balances",
			Message:  fmt.Sprintf("You have open balances with %d friends. Consider settling up.", owed),
			Severity: "warning",
		})
	}
	return insights, nil
}
