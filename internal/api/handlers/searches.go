package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/homescout/homescout/internal/store"
	domain "github.com/homescout/homescout/pkg/types"
)

// SearchesHandler handles saved search CRUD operations.
type SearchesHandler struct {
	store store.Store
}

// NewSearchesHandler creates a new SearchesHandler.
func NewSearchesHandler(s store.Store) *SearchesHandler {
	return &SearchesHandler{store: s}
}

// --- Input/Output types ---

// ListSearchesInput filters the saved search listing.
type ListSearchesInput struct {
	Enabled bool   `query:"enabled"  doc:"Return only enabled searches"`
	BuyerID string `query:"buyer_id" doc:"Return only searches owned by this buyer"`
}

// ListSearchesOutput is the response for listing saved searches.
type ListSearchesOutput struct {
	Body []domain.SavedSearch
}

// GetSearchInput identifies a saved search by ID.
type GetSearchInput struct {
	ID string `path:"id" doc:"Saved search UUID"`
}

// GetSearchOutput is the response for a single saved search.
type GetSearchOutput struct {
	Body domain.SavedSearch
}

// CreateSearchInput is the request body for creating a saved search.
type CreateSearchInput struct {
	Body struct {
		BuyerID  string                `json:"buyer_id" minLength:"1" doc:"Owning buyer ID"`
		Name     string                `json:"name"     minLength:"1" doc:"Display name"`
		Criteria domain.SearchCriteria `json:"criteria"              doc:"Filter criteria"`
		Enabled  *bool                 `json:"enabled,omitempty"     doc:"Enabled flag (default true)"`
	}
}

// CreateSearchOutput is the response for creating a saved search.
type CreateSearchOutput struct {
	Body domain.SavedSearch
}

// UpdateSearchInput is the request for updating a saved search.
type UpdateSearchInput struct {
	ID   string `path:"id" doc:"Saved search UUID"`
	Body struct {
		Name     string                `json:"name"     minLength:"1" doc:"Display name"`
		Criteria domain.SearchCriteria `json:"criteria"              doc:"Filter criteria"`
		Enabled  bool                  `json:"enabled"               doc:"Enabled flag"`
	}
}

// UpdateSearchOutput is the response for updating a saved search.
type UpdateSearchOutput struct {
	Body domain.SavedSearch
}

// SetSearchEnabledInput is the request for toggling a saved search.
type SetSearchEnabledInput struct {
	ID   string `path:"id" doc:"Saved search UUID"`
	Body struct {
		Enabled bool `json:"enabled" doc:"Enabled flag"`
	}
}

// SetSearchEnabledOutput is the response for toggling a saved search.
type SetSearchEnabledOutput struct {
	Body struct {
		Status string `json:"status" example:"updated"`
	}
}

// DeleteSearchInput identifies the saved search to delete.
type DeleteSearchInput struct {
	ID string `path:"id" doc:"Saved search UUID"`
}

// --- Handlers ---

// List returns saved searches, optionally filtered by enabled state or owner.
func (h *SearchesHandler) List(
	ctx context.Context,
	input *ListSearchesInput,
) (*ListSearchesOutput, error) {
	var (
		searches []domain.SavedSearch
		err      error
	)

	if input.BuyerID != "" {
		searches, err = h.store.ListSavedSearchesByBuyer(ctx, input.BuyerID)
	} else {
		searches, err = h.store.ListSavedSearches(ctx, input.Enabled)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("listing searches failed: " + err.Error())
	}

	if searches == nil {
		searches = []domain.SavedSearch{}
	}

	return &ListSearchesOutput{Body: searches}, nil
}

// Get returns a single saved search by ID.
func (h *SearchesHandler) Get(
	ctx context.Context,
	input *GetSearchInput,
) (*GetSearchOutput, error) {
	sr, err := h.store.GetSavedSearch(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("saved search not found")
	}

	return &GetSearchOutput{Body: *sr}, nil
}

// Create stores a new saved search. Searches are enabled by default.
func (h *SearchesHandler) Create(
	ctx context.Context,
	input *CreateSearchInput,
) (*CreateSearchOutput, error) {
	sr := domain.SavedSearch{
		BuyerID:  input.Body.BuyerID,
		Name:     input.Body.Name,
		Criteria: input.Body.Criteria,
		Enabled:  true,
	}
	if input.Body.Enabled != nil {
		sr.Enabled = *input.Body.Enabled
	}

	if err := h.store.CreateSavedSearch(ctx, &sr); err != nil {
		return nil, huma.Error500InternalServerError("creating search failed: " + err.Error())
	}

	return &CreateSearchOutput{Body: sr}, nil
}

// Update replaces a saved search's name, criteria, and enabled flag.
// Criteria edits never reset alert history: listings alerted under the old
// criteria stay alerted.
func (h *SearchesHandler) Update(
	ctx context.Context,
	input *UpdateSearchInput,
) (*UpdateSearchOutput, error) {
	sr, err := h.store.GetSavedSearch(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("saved search not found")
	}

	sr.Name = input.Body.Name
	sr.Criteria = input.Body.Criteria
	sr.Enabled = input.Body.Enabled

	if err := h.store.UpdateSavedSearch(ctx, sr); err != nil {
		return nil, huma.Error500InternalServerError("updating search failed: " + err.Error())
	}

	return &UpdateSearchOutput{Body: *sr}, nil
}

// SetEnabled toggles a saved search without touching its criteria.
func (h *SearchesHandler) SetEnabled(
	ctx context.Context,
	input *SetSearchEnabledInput,
) (*SetSearchEnabledOutput, error) {
	if err := h.store.SetSavedSearchEnabled(ctx, input.ID, input.Body.Enabled); err != nil {
		return nil, huma.Error500InternalServerError("setting search enabled failed: " + err.Error())
	}

	resp := &SetSearchEnabledOutput{}
	resp.Body.Status = "updated"
	return resp, nil
}

// Delete removes a saved search and, via cascade, its alert history.
func (h *SearchesHandler) Delete(
	ctx context.Context,
	input *DeleteSearchInput,
) (*struct{}, error) {
	if err := h.store.DeleteSavedSearch(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("deleting search failed: " + err.Error())
	}

	return nil, nil
}

// RegisterSearchRoutes registers saved search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-searches",
		Method:      http.MethodGet,
		Path:        "/api/v1/searches",
		Summary:     "List saved searches",
		Description: "Returns saved searches, optionally filtered by enabled state or owning buyer.",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/searches/{id}",
		Summary:     "Get a saved search by ID",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-search",
		Method:        http.MethodPost,
		Path:          "/api/v1/searches",
		Summary:       "Create a saved search",
		Tags:          []string{"searches"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "update-search",
		Method:      http.MethodPut,
		Path:        "/api/v1/searches/{id}",
		Summary:     "Update a saved search",
		Description: "Replaces the search's name, criteria, and enabled flag. Alert history is preserved.",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "set-search-enabled",
		Method:      http.MethodPut,
		Path:        "/api/v1/searches/{id}/enabled",
		Summary:     "Enable or disable a saved search",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.SetEnabled)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-search",
		Method:        http.MethodDelete,
		Path:          "/api/v1/searches/{id}",
		Summary:       "Delete a saved search",
		Tags:          []string{"searches"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusInternalServerError},
	}, h.Delete)
}
