package client

import (
	"context"

	"github.com/homescout/homescout/pkg/matchscore"
	domain "github.com/homescout/homescout/pkg/types"
)

// ScoreMatch scores a listing against buyer preferences server-side and
// returns the per-component breakdown.
func (c *Client) ScoreMatch(
	ctx context.Context,
	l *domain.Listing,
	p *domain.BuyerPreferences,
) (*matchscore.Breakdown, error) {
	body := map[string]any{
		"listing":     l,
		"preferences": p,
	}

	var b matchscore.Breakdown
	if err := c.post(ctx, "/api/v1/score/match", body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ScoredListing pairs a listing ID with its score breakdown.
type ScoredListing struct {
	ListingID string               `json:"listing_id"`
	Breakdown matchscore.Breakdown `json:"breakdown"`
}

// ScoreBatch ranks a set of listings against the same buyer preferences,
// best match first.
func (c *Client) ScoreBatch(
	ctx context.Context,
	listings []domain.Listing,
	p *domain.BuyerPreferences,
) ([]ScoredListing, error) {
	body := map[string]any{
		"listings":    listings,
		"preferences": p,
	}

	var resp struct {
		Scores []ScoredListing `json:"scores"`
	}
	if err := c.post(ctx, "/api/v1/score/batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}
