package matchscore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/homescout/homescout/pkg/types"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func sfListing(price float64) *domain.Listing {
	return &domain.Listing{
		ID:           "l1",
		City:         "San Francisco",
		Price:        price,
		Bedrooms:     iptr(3),
		Bathrooms:    fptr(2),
		PropertyType: domain.PropertySingleFamily,
		Status:       domain.StatusActive,
		Features:     []string{"garage", "hardwood floors", "garden"},
	}
}

func TestDefaultWeights_SumTo100(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	assert.InDelta(t, 100.0, w.Price+w.Rooms+w.Location+w.Features, 0.001)
}

func TestScore_PerfectFitIs100(t *testing.T) {
	t.Parallel()

	prefs := &domain.BuyerPreferences{
		MinPrice:         fptr(800000),
		MaxPrice:         fptr(1500000),
		MinBedrooms:      iptr(3),
		MinBathrooms:     fptr(2),
		PropertyTypes:    []domain.PropertyType{domain.PropertySingleFamily},
		Cities:           []string{"San Francisco"},
		MustHaveFeatures: []string{"garage", "hardwood"},
	}

	b := Score(sfListing(1250000), prefs, DefaultConfig())
	assert.Equal(t, 100, b.Total)
}

func TestScore_NoPreferencesIsPermissiveExceptFeatures(t *testing.T) {
	t.Parallel()

	// With no stated preferences every wildcard component grants full
	// credit; the feature component is proportional to must-haves covered,
	// so zero must-haves earn zero points.
	b := Score(sfListing(1250000), &domain.BuyerPreferences{}, DefaultConfig())
	assert.InDelta(t, 40, b.Price, 0.001)
	assert.InDelta(t, 20, b.Rooms, 0.001)
	assert.InDelta(t, 20, b.Location, 0.001)
	assert.InDelta(t, 0, b.Features, 0.001)
	assert.Equal(t, 80, b.Total)
}

func TestScore_PriceDecay(t *testing.T) {
	t.Parallel()

	prefs := &domain.BuyerPreferences{
		MinPrice: fptr(1000000),
		MaxPrice: fptr(2000000),
	}
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"inside range", 1500000, 40},
		{"at max bound", 2000000, 40},
		{"10% over max is half credit", 2200000, 20},
		{"20% over max is zero", 2400000, 0},
		{"far over max floors at zero", 5000000, 0},
		{"at min bound", 1000000, 40},
		{"10% under min is half credit", 900000, 20},
		{"20% under min is zero", 800000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Score(sfListing(tt.price), prefs, cfg)
			assert.InDelta(t, tt.want, b.Price, 0.01)
		})
	}
}

func TestScore_PriceMonotoneBeyondBudget(t *testing.T) {
	t.Parallel()

	prefs := &domain.BuyerPreferences{MaxPrice: fptr(1000000)}
	cfg := DefaultConfig()

	prev := Score(sfListing(1000000), prefs, cfg).Price
	for _, price := range []float64{1050000, 1100000, 1150000, 1200000, 1500000} {
		cur := Score(sfListing(price), prefs, cfg).Price
		assert.LessOrEqual(t, cur, prev, "price %f", price)
		prev = cur
	}
}

func TestScore_RoomsPartialCredit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		prefs domain.BuyerPreferences
		want  float64
	}{
		{"both met", domain.BuyerPreferences{MinBedrooms: iptr(3), MinBathrooms: fptr(2)}, 20},
		{"only beds met", domain.BuyerPreferences{MinBedrooms: iptr(3), MinBathrooms: fptr(3)}, 10},
		{"only baths met", domain.BuyerPreferences{MinBedrooms: iptr(5), MinBathrooms: fptr(2)}, 10},
		{"neither met", domain.BuyerPreferences{MinBedrooms: iptr(5), MinBathrooms: fptr(3)}, 0},
		{"unset minimums count as met", domain.BuyerPreferences{}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Score(sfListing(1000000), &tt.prefs, DefaultConfig())
			assert.InDelta(t, tt.want, b.Rooms, 0.001)
		})
	}
}

func TestScore_RoomsMissingListingValuesFail(t *testing.T) {
	t.Parallel()

	l := sfListing(1000000)
	l.Bedrooms = nil

	prefs := &domain.BuyerPreferences{MinBedrooms: iptr(1), MinBathrooms: fptr(1)}
	b := Score(l, prefs, DefaultConfig())
	assert.InDelta(t, 10, b.Rooms, 0.001, "missing bedrooms fails its half")
}

func TestScore_LocationHalves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		prefs domain.BuyerPreferences
		want  float64
	}{
		{
			"type and city match",
			domain.BuyerPreferences{
				PropertyTypes: []domain.PropertyType{domain.PropertySingleFamily},
				Cities:        []string{"san francisco"},
			},
			20,
		},
		{
			"only city matches",
			domain.BuyerPreferences{
				PropertyTypes: []domain.PropertyType{domain.PropertyCondo},
				Cities:        []string{"San Francisco"},
			},
			10,
		},
		{
			"only type matches",
			domain.BuyerPreferences{
				PropertyTypes: []domain.PropertyType{domain.PropertySingleFamily},
				Cities:        []string{"Oakland"},
			},
			10,
		},
		{
			"neither matches",
			domain.BuyerPreferences{
				PropertyTypes: []domain.PropertyType{domain.PropertyCondo},
				Cities:        []string{"Oakland"},
			},
			0,
		},
		{"wildcards both match", domain.BuyerPreferences{}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Score(sfListing(1000000), &tt.prefs, DefaultConfig())
			assert.InDelta(t, tt.want, b.Location, 0.001)
		})
	}
}

func TestScore_FeatureOverlapProportional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mustHaves []string
		want      float64
	}{
		{"all covered", []string{"garage", "hardwood"}, 20},
		{"half covered", []string{"garage", "pool"}, 10},
		{"none covered", []string{"pool", "elevator"}, 0},
		{"one of three", []string{"pool", "elevator", "garden"}, 20.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prefs := &domain.BuyerPreferences{MustHaveFeatures: tt.mustHaves}
			b := Score(sfListing(1000000), prefs, DefaultConfig())
			assert.InDelta(t, tt.want, b.Features, 0.01)
		})
	}
}

func TestScore_SpecScenario(t *testing.T) {
	t.Parallel()

	// A well-matched San Francisco listing scores at least 80 even with no
	// feature preferences stated.
	prefs := &domain.BuyerPreferences{
		MinPrice:    fptr(800000),
		MaxPrice:    fptr(1500000),
		MinBedrooms: iptr(3),
		Cities:      []string{"San Francisco"},
	}

	b := Score(sfListing(1250000), prefs, DefaultConfig())
	assert.GreaterOrEqual(t, b.Total, 80)
}

func TestScore_BoundedAndDeterministic(t *testing.T) {
	t.Parallel()

	prefs := &domain.BuyerPreferences{
		MaxPrice:         fptr(100),
		MinBedrooms:      iptr(10),
		Cities:           []string{"Nowhere"},
		MustHaveFeatures: []string{"moat"},
	}

	first := Score(sfListing(99999999), prefs, DefaultConfig())
	second := Score(sfListing(99999999), prefs, DefaultConfig())

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first.Total, 0)
	assert.LessOrEqual(t, first.Total, 100)
}
