package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByUpdatedAt = "updated_at"
	orderByPrice     = "price"
	orderByCreatedAt = "created_at"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
// The id tie-break keeps pagination stable when timestamps collide.
var validOrderBy = map[string]string{
	orderByUpdatedAt: "updated_at DESC, id ASC",
	orderByPrice:     "price ASC, id ASC",
	orderByCreatedAt: "created_at DESC, id ASC",
}

const defaultOrderBy = "updated_at DESC, id ASC"

const baseListingsSelect = `SELECT id, agent_id, title, address, city, state, zip,
	price, bedrooms, bathrooms, sqft, property_type, status,
	COALESCE(features, '[]'), COALESCE(photo_url, ''),
	created_at, updated_at
FROM listings`

const countListingsSelect = "SELECT COUNT(*) FROM listings"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a listing query.
// It returns two SQL strings (one for the data query, one for the count query)
// and the positional parameters.
func (q *ListingQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.City != nil {
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", paramIdx))
		args = append(args, *q.City)
		paramIdx++
	}

	if q.PropertyType != nil {
		conditions = append(conditions, fmt.Sprintf("property_type = $%d", paramIdx))
		args = append(args, *q.PropertyType)
		paramIdx++
	}

	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramIdx))
		args = append(args, *q.Status)
		paramIdx++
	}

	if q.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", paramIdx))
		args = append(args, *q.MinPrice)
		paramIdx++
	}

	if q.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", paramIdx))
		args = append(args, *q.MaxPrice)
		paramIdx++
	}

	if q.MinBedrooms != nil {
		conditions = append(conditions, fmt.Sprintf("bedrooms >= $%d", paramIdx))
		args = append(args, *q.MinBedrooms)
		paramIdx++
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Order by
	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	// Limit
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseListingsSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countListingsSelect + whereClause

	return dataSQL, countSQL, args
}
