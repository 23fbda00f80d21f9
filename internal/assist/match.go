package assist

import (
	"strings"

	"splitsmart/internal/core"
)

// MatchFriends resolves free-text participant names against known friends.
// A friend matches when any name is a case-insensitive substring of the
// friend's name. The result preserves friend order and contains no
// duplicates; unmatched names are dropped.
func MatchFriends(names []string, friends []core.Friend) []string {
	if len(names) == 0 {
		return nil
	}
	var ids []string
	for _, f := range friends {
		friendName := strings.ToLower(f.Name)
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if strings.Contains(friendName, name) {
				ids = append(ids, f.ID)
				break
			}
		}
	}
	return ids
}
