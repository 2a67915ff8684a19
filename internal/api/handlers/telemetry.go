package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/homescout/homescout/pkg/types"
)

// EngagementSource defines the engine operations behind the telemetry
// read endpoints.
type EngagementSource interface {
	ListingViewSummary(ctx context.Context, listingID string, window *time.Duration) (domain.ViewSummary, error)
	BuyerEngagement(ctx context.Context, buyerSessionID, listingID string) (int, domain.ViewSummary, error)
}

// TelemetryHandler handles view summary and engagement score requests.
type TelemetryHandler struct {
	engine EngagementSource
}

// NewTelemetryHandler creates a new TelemetryHandler.
func NewTelemetryHandler(eng EngagementSource) *TelemetryHandler {
	return &TelemetryHandler{engine: eng}
}

// --- Input/Output types ---

// ListingViewsInput identifies the listing and optional aggregation window.
type ListingViewsInput struct {
	ID     string `path:"id"      doc:"Listing UUID"`
	Window string `query:"window" doc:"Aggregation window as a Go duration (e.g. 24h); omit for full history"`
}

// ListingViewsOutput is the response for a listing's view summary.
type ListingViewsOutput struct {
	Body struct {
		ListingID string             `json:"listing_id"`
		Window    string             `json:"window,omitempty"`
		Summary   domain.ViewSummary `json:"summary"`
	}
}

// BuyerEngagementInput identifies the buyer session and listing to score.
type BuyerEngagementInput struct {
	BuyerSessionID string `path:"buyer_session_id" doc:"Buyer session ID"`
	ListingID      string `path:"listing_id"       doc:"Listing UUID"`
}

// BuyerEngagementOutput is the response for a buyer engagement score.
type BuyerEngagementOutput struct {
	Body struct {
		BuyerSessionID string             `json:"buyer_session_id"`
		ListingID      string             `json:"listing_id"`
		Score          int                `json:"score" doc:"Engagement score, 0-100"`
		Summary        domain.ViewSummary `json:"summary"`
	}
}

// --- Handlers ---

// ListingViews returns a listing's aggregated view telemetry, over the full
// history or a trailing window.
func (h *TelemetryHandler) ListingViews(
	ctx context.Context,
	input *ListingViewsInput,
) (*ListingViewsOutput, error) {
	var window *time.Duration
	if input.Window != "" {
		d, err := time.ParseDuration(input.Window)
		if err != nil || d <= 0 {
			return nil, huma.Error422UnprocessableEntity("window must be a positive duration like 24h")
		}
		window = &d
	}

	summary, err := h.engine.ListingViewSummary(ctx, input.ID, window)
	if err != nil {
		return nil, huma.Error500InternalServerError("summarizing views failed: " + err.Error())
	}

	resp := &ListingViewsOutput{}
	resp.Body.ListingID = input.ID
	resp.Body.Window = input.Window
	resp.Body.Summary = summary

	return resp, nil
}

// BuyerEngagement returns one buyer session's engagement score on a listing,
// computed from the full event history.
func (h *TelemetryHandler) BuyerEngagement(
	ctx context.Context,
	input *BuyerEngagementInput,
) (*BuyerEngagementOutput, error) {
	score, summary, err := h.engine.BuyerEngagement(ctx, input.BuyerSessionID, input.ListingID)
	if err != nil {
		return nil, huma.Error500InternalServerError("scoring engagement failed: " + err.Error())
	}

	resp := &BuyerEngagementOutput{}
	resp.Body.BuyerSessionID = input.BuyerSessionID
	resp.Body.ListingID = input.ListingID
	resp.Body.Score = score
	resp.Body.Summary = summary

	return resp, nil
}

// RegisterTelemetryRoutes registers telemetry read endpoints with the Huma API.
func RegisterTelemetryRoutes(api huma.API, h *TelemetryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-listing-views",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}/views",
		Summary:     "Get a listing's view summary",
		Description: "Aggregates the listing's view events, optionally limited to a trailing window.",
		Tags:        []string{"telemetry"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.ListingViews)

	huma.Register(api, huma.Operation{
		OperationID: "get-buyer-engagement",
		Method:      http.MethodGet,
		Path:        "/api/v1/engagement/{buyer_session_id}/{listing_id}",
		Summary:     "Get a buyer's engagement score for a listing",
		Description: "Computes the engagement score from the buyer session's full view history on the listing.",
		Tags:        []string{"telemetry"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.BuyerEngagement)
}
