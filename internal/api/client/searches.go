package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/homescout/homescout/pkg/types"
)

// searchRequest contains only the fields the API accepts for create/update.
type searchRequest struct {
	BuyerID  string                `json:"buyer_id,omitempty"`
	Name     string                `json:"name"`
	Criteria domain.SearchCriteria `json:"criteria"`
	Enabled  bool                  `json:"enabled"`
}

// ListSearches returns saved searches, optionally filtered by buyer.
func (c *Client) ListSearches(ctx context.Context, buyerID string) ([]domain.SavedSearch, error) {
	path := "/api/v1/searches"
	if buyerID != "" {
		path += "?buyer_id=" + url.QueryEscape(buyerID)
	}

	var searches []domain.SavedSearch
	if err := c.get(ctx, path, &searches); err != nil {
		return nil, err
	}
	return searches, nil
}

// GetSearch returns a single saved search by ID.
func (c *Client) GetSearch(ctx context.Context, id string) (*domain.SavedSearch, error) {
	var sr domain.SavedSearch
	if err := c.get(ctx, "/api/v1/searches/"+id, &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

// CreateSearch creates a new saved search.
func (c *Client) CreateSearch(ctx context.Context, sr *domain.SavedSearch) (*domain.SavedSearch, error) {
	var created domain.SavedSearch
	req := searchRequest{
		BuyerID:  sr.BuyerID,
		Name:     sr.Name,
		Criteria: sr.Criteria,
		Enabled:  sr.Enabled,
	}
	if err := c.post(ctx, "/api/v1/searches", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSearch updates an existing saved search.
func (c *Client) UpdateSearch(ctx context.Context, sr *domain.SavedSearch) (*domain.SavedSearch, error) {
	var updated domain.SavedSearch
	req := searchRequest{
		Name:     sr.Name,
		Criteria: sr.Criteria,
		Enabled:  sr.Enabled,
	}
	if err := c.put(ctx, "/api/v1/searches/"+sr.ID, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetSearchEnabled enables or disables a saved search.
func (c *Client) SetSearchEnabled(ctx context.Context, id string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.put(ctx, fmt.Sprintf("/api/v1/searches/%s/enabled", id), body, nil)
}

// DeleteSearch deletes a saved search by ID.
func (c *Client) DeleteSearch(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/searches/"+id, nil)
}

// MatchSearch returns the listings currently matching a saved search without
// creating alerts.
func (c *Client) MatchSearch(ctx context.Context, id string) ([]domain.Listing, error) {
	var resp struct {
		Listings []domain.Listing `json:"listings"`
		Total    int              `json:"total"`
	}
	if err := c.get(ctx, "/api/v1/searches/"+id+"/matches", &resp); err != nil {
		return nil, err
	}
	return resp.Listings, nil
}

// RunSearch evaluates a saved search immediately. The returned alert is nil
// when nothing new matched.
func (c *Client) RunSearch(ctx context.Context, id string) (*domain.Alert, error) {
	var resp struct {
		Status string        `json:"status"`
		Alert  *domain.Alert `json:"alert"`
	}
	if err := c.post(ctx, "/api/v1/searches/"+id+"/run", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alert, nil
}
