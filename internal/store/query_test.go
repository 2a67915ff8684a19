package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestListingQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         ListingQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string // substrings that must appear in dataSQL
		wantDataNotIn []string // substrings that must NOT appear
	}{
		{
			name:  "empty query uses defaults",
			query: ListingQuery{},
			wantDataHas: []string{
				"FROM listings",
				"ORDER BY updated_at DESC, id ASC",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantDataNotIn: []string{"WHERE"},
			wantCountSQL:  "SELECT COUNT(*) FROM listings",
			wantArgs:      nil,
		},
		{
			name: "city filter is case insensitive",
			query: ListingQuery{
				City: ptr("Portland"),
			},
			wantDataHas:  []string{"WHERE LOWER(city) = LOWER($1)"},
			wantCountSQL: "SELECT COUNT(*) FROM listings WHERE LOWER(city) = LOWER($1)",
			wantArgs:     []any{"Portland"},
		},
		{
			name: "property type filter",
			query: ListingQuery{
				PropertyType: ptr("condo"),
			},
			wantDataHas:  []string{"WHERE property_type = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM listings WHERE property_type = $1",
			wantArgs:     []any{"condo"},
		},
		{
			name: "status filter",
			query: ListingQuery{
				Status: ptr("active"),
			},
			wantDataHas:  []string{"WHERE status = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM listings WHERE status = $1",
			wantArgs:     []any{"active"},
		},
		{
			name: "price range filter",
			query: ListingQuery{
				MinPrice: ptr(250000.0),
				MaxPrice: ptr(750000.0),
			},
			wantDataHas: []string{
				"price >= $1",
				"price <= $2",
				" AND ",
			},
			wantCountSQL: "SELECT COUNT(*) FROM listings WHERE price >= $1 AND price <= $2",
			wantArgs:     []any{250000.0, 750000.0},
		},
		{
			name: "minimum bedrooms filter",
			query: ListingQuery{
				MinBedrooms: ptr(3),
			},
			wantDataHas:  []string{"WHERE bedrooms >= $1"},
			wantCountSQL: "SELECT COUNT(*) FROM listings WHERE bedrooms >= $1",
			wantArgs:     []any{3},
		},
		{
			name: "all filters combined with correct parameter numbering",
			query: ListingQuery{
				City:         ptr("Austin"),
				PropertyType: ptr("single_family"),
				Status:       ptr("active"),
				MinPrice:     ptr(300000.0),
				MaxPrice:     ptr(900000.0),
				MinBedrooms:  ptr(4),
			},
			wantDataHas: []string{
				"LOWER(city) = LOWER($1)",
				"property_type = $2",
				"status = $3",
				"price >= $4",
				"price <= $5",
				"bedrooms >= $6",
			},
			wantArgs: []any{"Austin", "single_family", "active", 300000.0, 900000.0, 4},
		},
		{
			name: "order by price",
			query: ListingQuery{
				OrderBy: "price",
			},
			wantDataHas: []string{"ORDER BY price ASC, id ASC"},
		},
		{
			name: "order by created_at",
			query: ListingQuery{
				OrderBy: "created_at",
			},
			wantDataHas: []string{"ORDER BY created_at DESC, id ASC"},
		},
		{
			name: "invalid order by falls back to default",
			query: ListingQuery{
				OrderBy: "DROP TABLE listings; --",
			},
			wantDataHas:   []string{"ORDER BY updated_at DESC, id ASC"},
			wantDataNotIn: []string{"DROP TABLE"},
		},
		{
			name: "custom limit and offset",
			query: ListingQuery{
				Limit:  25,
				Offset: 100,
			},
			wantDataHas: []string{
				"LIMIT 25",
				"OFFSET 100",
			},
		},
		{
			name: "negative limit defaults to 50",
			query: ListingQuery{
				Limit: -10,
			},
			wantDataHas: []string{"LIMIT 50"},
		},
		{
			name: "limit exceeding max is capped",
			query: ListingQuery{
				Limit: 1000,
			},
			wantDataHas: []string{"LIMIT 500"},
		},
		{
			name: "negative offset defaults to 0",
			query: ListingQuery{
				Offset: -5,
			},
			wantDataHas: []string{"OFFSET 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := tt.query
			dataSQL, countSQL, args := q.ToSQL()

			for _, s := range tt.wantDataHas {
				assert.Contains(t, dataSQL, s, "dataSQL should contain %q", s)
			}

			for _, s := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, s, "dataSQL should not contain %q", s)
			}

			if tt.wantCountSQL != "" {
				assert.Equal(t, tt.wantCountSQL, countSQL)
			}

			if tt.wantArgs != nil {
				require.Len(t, args, len(tt.wantArgs))
				assert.Equal(t, tt.wantArgs, args)
			} else {
				assert.Empty(t, args)
			}
		})
	}
}
