package domain

import (
	"strings"
)

// SearchCriteria defines the structured filter of a saved search.
// Nil pointers and empty collections are wildcards. MinBedrooms and
// MinBathrooms mean "at least", never exact.
type SearchCriteria struct {
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	MinBedrooms  *int     `json:"min_bedrooms,omitempty"`
	MinBathrooms *float64 `json:"min_bathrooms,omitempty"`

	// Cities are OR-matched, case-insensitive, exact.
	Cities []string `json:"cities,omitempty"`

	// Features are AND-matched: every requested feature must appear as a
	// case-insensitive substring of at least one listing feature tag.
	Features []string `json:"features,omitempty"`
}

// Match checks whether a listing satisfies every present criterion.
// It is total: malformed-but-well-typed input (e.g. min_price > max_price)
// simply yields false, never a panic.
func (c *SearchCriteria) Match(l *Listing) bool {
	if !c.matchPrice(l) {
		return false
	}
	if !c.matchRooms(l) {
		return false
	}
	if !c.matchCity(l) {
		return false
	}
	return c.matchFeatures(l)
}

func (c *SearchCriteria) matchPrice(l *Listing) bool {
	if c.MinPrice != nil && l.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && l.Price > *c.MaxPrice {
		return false
	}
	return true
}

func (c *SearchCriteria) matchRooms(l *Listing) bool {
	if c.MinBedrooms != nil {
		if l.Bedrooms == nil || *l.Bedrooms < *c.MinBedrooms {
			return false
		}
	}
	if c.MinBathrooms != nil {
		if l.Bathrooms == nil || *l.Bathrooms < *c.MinBathrooms {
			return false
		}
	}
	return true
}

func (c *SearchCriteria) matchCity(l *Listing) bool {
	if len(c.Cities) == 0 {
		return true
	}
	for _, city := range c.Cities {
		if strings.EqualFold(city, l.City) {
			return true
		}
	}
	return false
}

func (c *SearchCriteria) matchFeatures(l *Listing) bool {
	for _, want := range c.Features {
		if !HasFeature(l.Features, want) {
			return false
		}
	}
	return true
}

// HasFeature reports whether want appears as a case-insensitive substring
// of any tag. It backs both criteria matching and match scoring so the two
// agree on what counts as a feature hit.
func HasFeature(tags []string, want string) bool {
	needle := strings.ToLower(strings.TrimSpace(want))
	if needle == "" {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// BuyerPreferences captures a buyer's stated preferences for match scoring.
// Unlike SearchCriteria, preferences are soft: a listing outside them loses
// score rather than being excluded. Empty fields are wildcards.
type BuyerPreferences struct {
	MinPrice         *float64       `json:"min_price,omitempty"`
	MaxPrice         *float64       `json:"max_price,omitempty"`
	MinBedrooms      *int           `json:"min_bedrooms,omitempty"`
	MinBathrooms     *float64       `json:"min_bathrooms,omitempty"`
	PropertyTypes    []PropertyType `json:"property_types,omitempty"`
	Cities           []string       `json:"cities,omitempty"`
	MustHaveFeatures []string       `json:"must_have_features,omitempty"`
}
