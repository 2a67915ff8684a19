// Package matchscore scores how well a listing fits a buyer's stated
// preferences on a 0-100 scale. It is pure: no I/O, no randomness.
package matchscore

import (
	"math"
	"strings"

	domain "github.com/homescout/homescout/pkg/types"
)

// Weights defines the points available to each scoring component.
// They must sum to 100; each component is clamped to [0, weight].
type Weights struct {
	Price    float64
	Rooms    float64
	Location float64
	Features float64
}

// DefaultWeights returns the default component weights.
func DefaultWeights() Weights {
	return Weights{
		Price:    40,
		Rooms:    20,
		Location: 20,
		Features: 20,
	}
}

// Config holds the tunable scoring parameters. The weights and the decay
// fraction are calibration knobs, not fixed constants.
type Config struct {
	Weights Weights

	// PriceDecayPct is how far past the nearest budget bound (as a
	// fraction of that bound) the price component decays to zero.
	PriceDecayPct float64
}

// DefaultConfig returns the default scoring configuration:
// 40/20/20/20 weights and a 20% price decay band.
func DefaultConfig() Config {
	return Config{
		Weights:       DefaultWeights(),
		PriceDecayPct: 0.20,
	}
}

// Breakdown shows the points earned per component.
type Breakdown struct {
	Price    float64 `json:"price"`
	Rooms    float64 `json:"rooms"`
	Location float64 `json:"location"`
	Features float64 `json:"features"`
	Total    int     `json:"total"`
}

// Score computes the match score for a listing against buyer preferences.
// Missing preference fields are permissive: they grant their component's
// full credit rather than penalizing the listing.
func Score(l *domain.Listing, p *domain.BuyerPreferences, cfg Config) Breakdown {
	b := Breakdown{
		Price:    priceScore(l, p, cfg),
		Rooms:    roomsScore(l, p, cfg.Weights.Rooms),
		Location: locationScore(l, p, cfg.Weights.Location),
		Features: featureScore(l, p, cfg.Weights.Features),
	}

	total := int(math.Round(b.Price + b.Rooms + b.Location + b.Features))
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	b.Total = total

	return b
}

// priceScore gives full credit inside [MinPrice, MaxPrice] and decays
// linearly to zero as the price moves past the nearest bound by
// PriceDecayPct of that bound.
func priceScore(l *domain.Listing, p *domain.BuyerPreferences, cfg Config) float64 {
	w := cfg.Weights.Price

	var overshoot float64
	switch {
	case p.MaxPrice != nil && l.Price > *p.MaxPrice:
		overshoot = relativeDistance(l.Price, *p.MaxPrice)
	case p.MinPrice != nil && l.Price < *p.MinPrice:
		overshoot = relativeDistance(l.Price, *p.MinPrice)
	default:
		return w
	}

	decay := cfg.PriceDecayPct
	if decay <= 0 {
		return 0
	}

	return clamp(w*(1-overshoot/decay), 0, w)
}

func relativeDistance(price, bound float64) float64 {
	if bound == 0 {
		return 1
	}
	return math.Abs(price-bound) / bound
}

// roomsScore gives full credit when both room minimums are met, half when
// exactly one is, zero otherwise. An unset minimum counts as met.
func roomsScore(l *domain.Listing, p *domain.BuyerPreferences, w float64) float64 {
	bedsOK := p.MinBedrooms == nil ||
		(l.Bedrooms != nil && *l.Bedrooms >= *p.MinBedrooms)
	bathsOK := p.MinBathrooms == nil ||
		(l.Bathrooms != nil && *l.Bathrooms >= *p.MinBathrooms)

	switch {
	case bedsOK && bathsOK:
		return w
	case bedsOK || bathsOK:
		return w / 2
	default:
		return 0
	}
}

// locationScore splits its weight between property type and city, each a
// wildcard when the buyer states no preference.
func locationScore(l *domain.Listing, p *domain.BuyerPreferences, w float64) float64 {
	typeOK := len(p.PropertyTypes) == 0 || containsType(p.PropertyTypes, l.PropertyType)
	cityOK := len(p.Cities) == 0 || containsCity(p.Cities, l.City)

	switch {
	case typeOK && cityOK:
		return w
	case typeOK || cityOK:
		return w / 2
	default:
		return 0
	}
}

// featureScore is proportional to how many must-have features the listing
// covers: w * |hits| / max(1, |must-haves|), capped at w.
func featureScore(l *domain.Listing, p *domain.BuyerPreferences, w float64) float64 {
	hits := 0
	for _, want := range p.MustHaveFeatures {
		if domain.HasFeature(l.Features, want) {
			hits++
		}
	}

	denom := max(1, len(p.MustHaveFeatures))
	return clamp(w*float64(hits)/float64(denom), 0, w)
}

func containsType(types []domain.PropertyType, t domain.PropertyType) bool {
	for _, pt := range types {
		if pt == t {
			return true
		}
	}
	return false
}

func containsCity(cities []string, city string) bool {
	for _, c := range cities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
