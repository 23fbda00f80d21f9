package snapshot

import "splitsmart/internal/core"

// SeedUser is the single local account. The app is single-user; the id is
// fixed so seeded groups can reference it.
func SeedUser() core.User {
	return core.User{
		ID:     "u1",
		Name:   "Me",
		Email:  "me@example.com",
		Avatar: "https://picsum.photos/seed/me/200",
	}
}

// Seed is the hardcoded data set used when no snapshot exists yet.
func Seed() State {
	return State{
		Friends: []core.Friend{
			{ID: "f1", Name: "Alice Smith", Email: "alice@example.com", Balance: core.Cents(4550)},
			{ID: "f2", Name: "Bob Johnson", Email: "bob@example.com", Balance: core.Cents(-1200)},
			{ID: "f3", Name: "Charlie Brown", Email: "charlie@example.com"},
		},
		Groups: []core.Group{
			{ID: "g1", Name: "Apartment 4B", Members: []string{"u1", "f1", "f2"}, Avatar: "https://picsum.photos/seed/apt/200"},
			{ID: "g2", Name: "Road Trip 2024", Members: []string{"u1", "f1", "f3"}, Avatar: "https://picsum.photos/seed/trip/200"},
		},
	}
}
