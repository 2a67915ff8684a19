package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/homescout/homescout/pkg/matchscore"
	domain "github.com/homescout/homescout/pkg/types"
)

// ScoresHandler computes match scores on demand.
type ScoresHandler struct {
	cfg matchscore.Config
}

// NewScoresHandler creates a new ScoresHandler with the given scoring
// configuration.
func NewScoresHandler(cfg matchscore.Config) *ScoresHandler {
	return &ScoresHandler{cfg: cfg}
}

// ScoreMatchInput is the request body for computing a match score.
type ScoreMatchInput struct {
	Body struct {
		Listing     domain.Listing          `json:"listing"     doc:"Listing to score"`
		Preferences domain.BuyerPreferences `json:"preferences" doc:"Buyer preferences to score against"`
	}
}

// ScoreMatchOutput is the response carrying the per-component breakdown.
type ScoreMatchOutput struct {
	Body matchscore.Breakdown
}

// ScoreMatch scores a listing against buyer preferences and returns the
// per-component breakdown. The computation is pure: nothing is stored.
func (h *ScoresHandler) ScoreMatch(
	_ context.Context,
	input *ScoreMatchInput,
) (*ScoreMatchOutput, error) {
	b := matchscore.Score(&input.Body.Listing, &input.Body.Preferences, h.cfg)
	return &ScoreMatchOutput{Body: b}, nil
}

// ScoreBatchInput is the request body for ranking a set of listings.
type ScoreBatchInput struct {
	Body struct {
		Listings    []domain.Listing        `json:"listings"    minItems:"1" doc:"Listings to score"`
		Preferences domain.BuyerPreferences `json:"preferences" doc:"Buyer preferences to score against"`
	}
}

// ScoredListing pairs a listing ID with its score breakdown.
type ScoredListing struct {
	ListingID string               `json:"listing_id"`
	Breakdown matchscore.Breakdown `json:"breakdown"`
}

// ScoreBatchOutput is the ranked response, best match first.
type ScoreBatchOutput struct {
	Body struct {
		Scores []ScoredListing `json:"scores"`
	}
}

// ScoreBatch scores every listing in the set against the same preferences
// and returns them ranked by total score, best first. Ties keep input order.
func (h *ScoresHandler) ScoreBatch(
	_ context.Context,
	input *ScoreBatchInput,
) (*ScoreBatchOutput, error) {
	scored := make([]ScoredListing, len(input.Body.Listings))
	for i := range input.Body.Listings {
		l := &input.Body.Listings[i]
		scored[i] = ScoredListing{
			ListingID: l.ID,
			Breakdown: matchscore.Score(l, &input.Body.Preferences, h.cfg),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Breakdown.Total > scored[j].Breakdown.Total
	})

	out := &ScoreBatchOutput{}
	out.Body.Scores = scored
	return out, nil
}

// RegisterScoreRoutes registers scoring endpoints with the Huma API.
func RegisterScoreRoutes(api huma.API, h *ScoresHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "score-match",
		Method:      http.MethodPost,
		Path:        "/api/v1/score/match",
		Summary:     "Score a listing against buyer preferences",
		Description: "Returns the 0-100 match score with its per-component breakdown.",
		Tags:        []string{"scoring"},
	}, h.ScoreMatch)

	huma.Register(api, huma.Operation{
		OperationID: "score-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/score/batch",
		Summary:     "Rank a set of listings against buyer preferences",
		Description: "Scores every listing against the same preferences and returns them best match first.",
		Tags:        []string{"scoring"},
	}, h.ScoreBatch)
}
