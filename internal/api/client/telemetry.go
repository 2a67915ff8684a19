package client

import (
	"context"
	"net/url"

	domain "github.com/homescout/homescout/pkg/types"
)

// ListingViews is the response for a listing's view summary.
type ListingViews struct {
	ListingID string             `json:"listing_id"`
	Window    string             `json:"window,omitempty"`
	Summary   domain.ViewSummary `json:"summary"`
}

// BuyerEngagement is the response for a buyer engagement score.
type BuyerEngagement struct {
	BuyerSessionID string             `json:"buyer_session_id"`
	ListingID      string             `json:"listing_id"`
	Score          int                `json:"score"`
	Summary        domain.ViewSummary `json:"summary"`
}

// GetListingViews returns a listing's view summary. An empty window means
// full history; otherwise pass a Go duration string like "24h".
func (c *Client) GetListingViews(ctx context.Context, listingID, window string) (*ListingViews, error) {
	path := "/api/v1/listings/" + listingID + "/views"
	if window != "" {
		path += "?window=" + url.QueryEscape(window)
	}

	var views ListingViews
	if err := c.get(ctx, path, &views); err != nil {
		return nil, err
	}
	return &views, nil
}

// GetBuyerEngagement returns one buyer session's engagement score on a listing.
func (c *Client) GetBuyerEngagement(ctx context.Context, buyerSessionID, listingID string) (*BuyerEngagement, error) {
	var eng BuyerEngagement
	path := "/api/v1/engagement/" + buyerSessionID + "/" + listingID
	if err := c.get(ctx, path, &eng); err != nil {
		return nil, err
	}
	return &eng, nil
}

// RecordViewEvent appends a view event to the telemetry stream and returns
// the assigned event ID.
func (c *Client) RecordViewEvent(ctx context.Context, e *domain.ViewEvent) (string, error) {
	body := map[string]any{
		"listing_id":    e.ListingID,
		"viewer_type":   e.ViewerType,
		"view_duration": e.ViewDuration,
	}
	if e.BuyerSessionID != nil {
		body["buyer_session_id"] = *e.BuyerSessionID
	}
	if len(e.ImagesViewed) > 0 {
		body["images_viewed"] = e.ImagesViewed
	}
	if len(e.VideosWatched) > 0 {
		body["videos_watched"] = e.VideosWatched
	}
	if len(e.SectionsVisited) > 0 {
		body["sections_visited"] = e.SectionsVisited
	}
	if !e.Timestamp.IsZero() {
		body["timestamp"] = e.Timestamp
	}

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.post(ctx, "/api/v1/events", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
