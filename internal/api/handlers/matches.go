package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5"

	domain "github.com/homescout/homescout/pkg/types"
)

// SearchRunner defines the engine operations behind the match endpoints.
type SearchRunner interface {
	MatchSearch(ctx context.Context, searchID string) ([]domain.Listing, error)
	RunSearch(ctx context.Context, searchID string) (*domain.Alert, error)
}

// MatchesHandler handles on-demand search evaluation requests.
type MatchesHandler struct {
	engine SearchRunner
}

// NewMatchesHandler creates a new MatchesHandler.
func NewMatchesHandler(eng SearchRunner) *MatchesHandler {
	return &MatchesHandler{engine: eng}
}

// --- Input/Output types ---

// MatchSearchInput identifies the saved search to evaluate.
type MatchSearchInput struct {
	ID string `path:"id" doc:"Saved search UUID"`
}

// MatchSearchOutput is the response for a read-only match preview.
type MatchSearchOutput struct {
	Body struct {
		Listings []domain.Listing `json:"listings" doc:"Active listings currently matching the search"`
		Total    int              `json:"total"`
	}
}

// RunSearchInput identifies the saved search to run.
type RunSearchInput struct {
	ID string `path:"id" doc:"Saved search UUID"`
}

// RunSearchOutput is the response for an on-demand search run.
type RunSearchOutput struct {
	Body struct {
		Status string        `json:"status"          example:"alert created"`
		Alert  *domain.Alert `json:"alert,omitempty" doc:"Created alert, absent when nothing new matched"`
	}
}

// --- Handlers ---

// Match returns the listings currently matching a saved search. It is a pure
// read: no alert is created and last_run_at is untouched.
func (h *MatchesHandler) Match(
	ctx context.Context,
	input *MatchSearchInput,
) (*MatchSearchOutput, error) {
	listings, err := h.engine.MatchSearch(ctx, input.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound("saved search not found")
		}
		return nil, huma.Error500InternalServerError("matching search failed: " + err.Error())
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	resp := &MatchSearchOutput{}
	resp.Body.Listings = listings
	resp.Body.Total = len(listings)

	return resp, nil
}

// Run evaluates a saved search immediately, creating an alert when new
// listings match. Repeating the call without inventory changes is a no-op.
func (h *MatchesHandler) Run(
	ctx context.Context,
	input *RunSearchInput,
) (*RunSearchOutput, error) {
	alert, err := h.engine.RunSearch(ctx, input.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound("saved search not found")
		}
		return nil, huma.Error500InternalServerError("running search failed: " + err.Error())
	}

	resp := &RunSearchOutput{}
	if alert != nil {
		resp.Body.Status = "alert created"
		resp.Body.Alert = alert
	} else {
		resp.Body.Status = "no new matches"
	}

	return resp, nil
}

// RegisterMatchRoutes registers match endpoints with the Huma API.
func RegisterMatchRoutes(api huma.API, h *MatchesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "match-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/searches/{id}/matches",
		Summary:     "Preview a search's current matches",
		Description: "Returns the active listings currently matching the search without creating alerts.",
		Tags:        []string{"matching"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Match)

	huma.Register(api, huma.Operation{
		OperationID: "run-search",
		Method:      http.MethodPost,
		Path:        "/api/v1/searches/{id}/run",
		Summary:     "Run a search now",
		Description: "Evaluates the search immediately and creates an alert for newly matching listings.",
		Tags:        []string{"matching"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Run)
}
