package engine

import (
	domain "github.com/homescout/homescout/pkg/types"
)

// MatchListings filters listings through a saved search's criteria.
// Only active listings can match, input order is preserved, and the input
// slice is never mutated. An empty result is nil.
func MatchListings(c *domain.SearchCriteria, listings []domain.Listing) []domain.Listing {
	var matched []domain.Listing
	for i := range listings {
		l := &listings[i]
		if !l.IsActive() {
			continue
		}
		if c.Match(l) {
			matched = append(matched, *l)
		}
	}
	return matched
}
