package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/homescout/homescout/internal/store"
	domain "github.com/homescout/homescout/pkg/types"
)

// ListingsHandler handles listing inventory endpoints.
type ListingsHandler struct {
	store store.Store
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(s store.Store) *ListingsHandler {
	return &ListingsHandler{store: s}
}

// --- Input/Output types ---

// ListListingsInput is the input for listing listings with optional filters.
type ListListingsInput struct {
	City         string  `query:"city"          doc:"Filter by city (case-insensitive)"`
	PropertyType string  `query:"property_type" doc:"Filter by property type"        enum:"single_family,condo,townhouse,multi_family,land,other,"`
	Status       string  `query:"status"        doc:"Filter by lifecycle status"     enum:"active,pending,sold,withdrawn,"`
	MinPrice     float64 `query:"min_price"     doc:"Minimum price"                                                        minimum:"0"`
	MaxPrice     float64 `query:"max_price"     doc:"Maximum price"                                                        minimum:"0"`
	MinBedrooms  int     `query:"min_bedrooms"  doc:"Minimum bedroom count"                                                minimum:"0"`
	Limit        int     `query:"limit"         doc:"Number of results (default 50)"                                       minimum:"1"  maximum:"500"`
	Offset       int     `query:"offset"        doc:"Pagination offset"                                                    minimum:"0"`
	OrderBy      string  `query:"order_by"      doc:"Sort field"                     enum:"updated_at,price,created_at,"`
}

// ListListingsOutput is the response for listing listings.
type ListListingsOutput struct {
	Body struct {
		Listings []domain.Listing `json:"listings"`
		Total    int              `json:"total"`
		Limit    int              `json:"limit"`
		Offset   int              `json:"offset"`
	}
}

// GetListingInput is the input for getting a single listing.
type GetListingInput struct {
	ID string `path:"id" doc:"Listing UUID"`
}

// GetListingOutput is the response for getting a single listing.
type GetListingOutput struct {
	Body domain.Listing
}

// UpsertListingInput is the request body for creating or replacing a listing.
type UpsertListingInput struct {
	Body domain.Listing
}

// UpsertListingOutput is the response for an upsert.
type UpsertListingOutput struct {
	Body domain.Listing
}

// SetListingStatusInput is the request for changing a listing's status.
type SetListingStatusInput struct {
	ID   string `path:"id" doc:"Listing UUID"`
	Body struct {
		Status domain.ListingStatus `json:"status" enum:"active,pending,sold,withdrawn" doc:"New lifecycle status"`
	}
}

// SetListingStatusOutput is the response for a status change.
type SetListingStatusOutput struct {
	Body struct {
		Status string `json:"status" example:"updated"`
	}
}

// DeleteListingInput identifies the listing to delete.
type DeleteListingInput struct {
	ID string `path:"id" doc:"Listing UUID"`
}

// --- Handlers ---

// ListListings returns listings with optional filters and pagination.
func (h *ListingsHandler) ListListings(
	ctx context.Context,
	input *ListListingsInput,
) (*ListListingsOutput, error) {
	q := &store.ListingQuery{
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	}

	if input.City != "" {
		q.City = &input.City
	}

	if input.PropertyType != "" {
		q.PropertyType = &input.PropertyType
	}

	if input.Status != "" {
		q.Status = &input.Status
	}

	if input.MinPrice != 0 {
		q.MinPrice = &input.MinPrice
	}

	if input.MaxPrice != 0 {
		q.MaxPrice = &input.MaxPrice
	}

	if input.MinBedrooms != 0 {
		q.MinBedrooms = &input.MinBedrooms
	}

	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	listings, total, err := h.store.ListListings(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing query failed: " + err.Error())
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	resp := &ListListingsOutput{}
	resp.Body.Listings = listings
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// GetListing returns a single listing by ID.
func (h *ListingsHandler) GetListing(
	ctx context.Context,
	input *GetListingInput,
) (*GetListingOutput, error) {
	listing, err := h.store.GetListing(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("listing not found")
	}

	return &GetListingOutput{Body: *listing}, nil
}

// UpsertListing creates a listing, or replaces it when the ID already exists.
// Replacing keeps the original created_at.
func (h *ListingsHandler) UpsertListing(
	ctx context.Context,
	input *UpsertListingInput,
) (*UpsertListingOutput, error) {
	l := input.Body

	if l.AgentID == "" || l.Title == "" {
		return nil, huma.Error422UnprocessableEntity("agent_id and title are required")
	}

	if l.Status == "" {
		l.Status = domain.StatusActive
	}

	if err := h.store.UpsertListing(ctx, &l); err != nil {
		return nil, huma.Error500InternalServerError("upserting listing failed: " + err.Error())
	}

	return &UpsertListingOutput{Body: l}, nil
}

// SetStatus changes a listing's lifecycle status. Moving a listing out of
// active removes it from matching; moving it back never re-triggers alerts
// for searches that already saw it.
func (h *ListingsHandler) SetStatus(
	ctx context.Context,
	input *SetListingStatusInput,
) (*SetListingStatusOutput, error) {
	if err := h.store.SetListingStatus(ctx, input.ID, input.Body.Status); err != nil {
		return nil, huma.Error500InternalServerError("setting listing status failed: " + err.Error())
	}

	resp := &SetListingStatusOutput{}
	resp.Body.Status = "updated"
	return resp, nil
}

// DeleteListing removes a listing and, via cascade, its view events.
func (h *ListingsHandler) DeleteListing(
	ctx context.Context,
	input *DeleteListingInput,
) (*struct{}, error) {
	if err := h.store.DeleteListing(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("deleting listing failed: " + err.Error())
	}

	return nil, nil
}

// RegisterListingRoutes registers listing endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings",
		Description: "Returns listings with optional filters for city, type, status, price range, and pagination.",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListListings)

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Get a listing by ID",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetListing)

	huma.Register(api, huma.Operation{
		OperationID:   "upsert-listing",
		Method:        http.MethodPut,
		Path:          "/api/v1/listings",
		Summary:       "Create or replace a listing",
		Description:   "Creates a listing, or replaces an existing one when the ID matches. The created_at timestamp survives replacement.",
		Tags:          []string{"listings"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.UpsertListing)

	huma.Register(api, huma.Operation{
		OperationID: "set-listing-status",
		Method:      http.MethodPut,
		Path:        "/api/v1/listings/{id}/status",
		Summary:     "Change a listing's status",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.SetStatus)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-listing",
		Method:        http.MethodDelete,
		Path:          "/api/v1/listings/{id}",
		Summary:       "Delete a listing",
		Tags:          []string{"listings"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusInternalServerError},
	}, h.DeleteListing)
}
