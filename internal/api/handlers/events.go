package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/homescout/homescout/internal/store"
	domain "github.com/homescout/homescout/pkg/types"
)

// EventsHandler handles view event ingestion.
type EventsHandler struct {
	store store.Store
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(s store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

// RecordEventInput is the request body for recording a view event.
type RecordEventInput struct {
	Body struct {
		ListingID       string     `json:"listing_id"                 minLength:"1"                  doc:"Viewed listing UUID"`
		BuyerSessionID  string     `json:"buyer_session_id,omitempty"                                doc:"Buyer session, required for buyer views"`
		ViewerType      string     `json:"viewer_type"                enum:"buyer,agent,anonymous"   doc:"Who generated the view"`
		ViewDuration    int        `json:"view_duration"              minimum:"0"                    doc:"Seconds spent on the page"`
		ImagesViewed    []int      `json:"images_viewed,omitempty"                                   doc:"Indexes of images viewed"`
		VideosWatched   []int      `json:"videos_watched,omitempty"                                  doc:"Indexes of videos watched"`
		SectionsVisited []string   `json:"sections_visited,omitempty"                                doc:"Page sections visited"`
		Timestamp       *time.Time `json:"timestamp,omitempty"                                       doc:"Event time (default now)"`
	}
}

// RecordEventOutput is the response for recording a view event.
type RecordEventOutput struct {
	Body struct {
		ID     string `json:"id"     doc:"Assigned event ID"`
		Status string `json:"status" example:"recorded"`
	}
}

// Record appends one view event. Buyer views must carry a session ID;
// agent and anonymous views never do.
func (h *EventsHandler) Record(
	ctx context.Context,
	input *RecordEventInput,
) (*RecordEventOutput, error) {
	viewer := domain.ViewerType(input.Body.ViewerType)

	var session *string
	if viewer == domain.ViewerBuyer {
		if input.Body.BuyerSessionID == "" {
			return nil, huma.Error422UnprocessableEntity("buyer views require buyer_session_id")
		}
		s := input.Body.BuyerSessionID
		session = &s
	}

	ts := time.Now()
	if input.Body.Timestamp != nil {
		ts = *input.Body.Timestamp
	}

	event := domain.ViewEvent{
		ListingID:       input.Body.ListingID,
		BuyerSessionID:  session,
		ViewerType:      viewer,
		ViewDuration:    input.Body.ViewDuration,
		ImagesViewed:    input.Body.ImagesViewed,
		VideosWatched:   input.Body.VideosWatched,
		SectionsVisited: input.Body.SectionsVisited,
		Timestamp:       ts,
	}

	if err := h.store.InsertViewEvent(ctx, &event); err != nil {
		return nil, huma.Error500InternalServerError("recording view event failed: " + err.Error())
	}

	resp := &RecordEventOutput{}
	resp.Body.ID = event.ID
	resp.Body.Status = "recorded"

	return resp, nil
}

// RegisterEventRoutes registers view event endpoints with the Huma API.
func RegisterEventRoutes(api huma.API, h *EventsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "record-view-event",
		Method:        http.MethodPost,
		Path:          "/api/v1/events",
		Summary:       "Record a view event",
		Description:   "Appends a property page view to the telemetry stream.",
		Tags:          []string{"telemetry"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.Record)
}
