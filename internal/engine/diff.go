package engine

import (
	domain "github.com/homescout/homescout/pkg/types"
)

// Diff returns the IDs of matched listings that have never been alerted on,
// preserving match order. The alerted set covers the search's whole alert
// history, so a listing that leaves and re-enters the match set is not
// re-announced. An empty diff is nil.
func Diff(matched []domain.Listing, alertedIDs []string) []string {
	alerted := make(map[string]bool, len(alertedIDs))
	for _, id := range alertedIDs {
		alerted[id] = true
	}

	var newIDs []string
	for i := range matched {
		if !alerted[matched[i].ID] {
			newIDs = append(newIDs, matched[i].ID)
		}
	}
	return newIDs
}
