package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/homescout/homescout/internal/store"
	domain "github.com/homescout/homescout/pkg/types"
)

const defaultAlertLimit = 50

// AlertsHandler handles alert history endpoints.
type AlertsHandler struct {
	store store.Store
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(s store.Store) *AlertsHandler {
	return &AlertsHandler{store: s}
}

// --- Input/Output types ---

// ListSearchAlertsInput identifies the search whose alerts to return.
type ListSearchAlertsInput struct {
	ID    string `path:"id"     doc:"Saved search UUID"`
	Limit int    `query:"limit" doc:"Number of results (default 50)" minimum:"1" maximum:"500"`
}

// ListSearchAlertsOutput is the response for a search's alert history.
type ListSearchAlertsOutput struct {
	Body []domain.Alert
}

// ListPendingAlertsOutput is the response for pending (unsent) alerts.
type ListPendingAlertsOutput struct {
	Body []domain.Alert
}

// MarkAlertReadInput identifies the alert to mark as notified.
type MarkAlertReadInput struct {
	ID string `path:"id" doc:"Alert UUID"`
}

// MarkAlertReadOutput is the response for marking a single alert.
type MarkAlertReadOutput struct {
	Body struct {
		Status string `json:"status" example:"updated"`
	}
}

// MarkAlertsReadInput is the request for bulk-marking alerts as notified.
type MarkAlertsReadInput struct {
	Body struct {
		IDs []string `json:"ids" minItems:"1" doc:"Alert UUIDs to mark as notified"`
	}
}

// MarkAlertsReadOutput is the response for a bulk mark.
type MarkAlertsReadOutput struct {
	Body struct {
		Status string `json:"status"  example:"updated"`
		Updated int   `json:"updated" example:"3"`
	}
}

// --- Handlers ---

// ListBySearch returns a search's alerts, newest first.
func (h *AlertsHandler) ListBySearch(
	ctx context.Context,
	input *ListSearchAlertsInput,
) (*ListSearchAlertsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultAlertLimit
	}

	alerts, err := h.store.ListAlertsBySearch(ctx, input.ID, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing alerts failed: " + err.Error())
	}

	if alerts == nil {
		alerts = []domain.Alert{}
	}

	return &ListSearchAlertsOutput{Body: alerts}, nil
}

// ListPending returns alerts whose notifications have not gone out yet.
func (h *AlertsHandler) ListPending(
	ctx context.Context,
	_ *struct{},
) (*ListPendingAlertsOutput, error) {
	alerts, err := h.store.ListPendingAlerts(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing pending alerts failed: " + err.Error())
	}

	if alerts == nil {
		alerts = []domain.Alert{}
	}

	return &ListPendingAlertsOutput{Body: alerts}, nil
}

// MarkRead marks one alert as notified. The listings it carries stay in the
// search's dedup history either way.
func (h *AlertsHandler) MarkRead(
	ctx context.Context,
	input *MarkAlertReadInput,
) (*MarkAlertReadOutput, error) {
	if err := h.store.MarkAlertNotified(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("marking alert failed: " + err.Error())
	}

	resp := &MarkAlertReadOutput{}
	resp.Body.Status = "updated"
	return resp, nil
}

// MarkReadBulk marks a batch of alerts as notified in one statement.
func (h *AlertsHandler) MarkReadBulk(
	ctx context.Context,
	input *MarkAlertsReadInput,
) (*MarkAlertsReadOutput, error) {
	if err := h.store.MarkAlertsNotified(ctx, input.Body.IDs); err != nil {
		return nil, huma.Error500InternalServerError("marking alerts failed: " + err.Error())
	}

	resp := &MarkAlertsReadOutput{}
	resp.Body.Status = "updated"
	resp.Body.Updated = len(input.Body.IDs)
	return resp, nil
}

// RegisterAlertRoutes registers alert endpoints with the Huma API.
func RegisterAlertRoutes(api huma.API, h *AlertsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-search-alerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/searches/{id}/alerts",
		Summary:     "List a search's alerts",
		Description: "Returns the alert history for a saved search, newest first.",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListBySearch)

	huma.Register(api, huma.Operation{
		OperationID: "list-pending-alerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/alerts/pending",
		Summary:     "List pending alerts",
		Description: "Returns alerts whose notifications have not been sent yet.",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListPending)

	huma.Register(api, huma.Operation{
		OperationID: "mark-alert-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/alerts/{id}/read",
		Summary:     "Mark an alert as notified",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.MarkRead)

	huma.Register(api, huma.Operation{
		OperationID: "mark-alerts-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/alerts/read",
		Summary:     "Mark a batch of alerts as notified",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.MarkReadBulk)
}
