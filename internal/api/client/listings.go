package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/homescout/homescout/pkg/types"
)

// ListingFilter holds the optional query parameters for listing queries.
type ListingFilter struct {
	City         string
	PropertyType string
	Status       string
	MinPrice     float64
	MaxPrice     float64
	MinBedrooms  int
	Limit        int
	Offset       int
	OrderBy      string
}

func (f *ListingFilter) encode() string {
	if f == nil {
		return ""
	}

	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.PropertyType != "" {
		q.Set("property_type", f.PropertyType)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.MinBedrooms > 0 {
		q.Set("min_bedrooms", strconv.Itoa(f.MinBedrooms))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.OrderBy != "" {
		q.Set("order_by", f.OrderBy)
	}

	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListingPage is one page of listing results.
type ListingPage struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// ListListings returns listings matching the filter.
func (c *Client) ListListings(ctx context.Context, filter *ListingFilter) (*ListingPage, error) {
	var page ListingPage
	if err := c.get(ctx, "/api/v1/listings"+filter.encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetListing returns a single listing by ID.
func (c *Client) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := c.get(ctx, "/api/v1/listings/"+id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpsertListing creates or replaces a listing.
func (c *Client) UpsertListing(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	var saved domain.Listing
	if err := c.put(ctx, "/api/v1/listings", l, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// SetListingStatus changes a listing's lifecycle status.
func (c *Client) SetListingStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	body := map[string]domain.ListingStatus{"status": status}
	return c.put(ctx, fmt.Sprintf("/api/v1/listings/%s/status", id), body, nil)
}

// DeleteListing deletes a listing by ID.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/listings/"+id, nil)
}
