package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout/internal/api/handlers"
	"github.com/homescout/homescout/internal/store/storetest"
	domain "github.com/homescout/homescout/pkg/types"
)

func newEventsAPI(t *testing.T) (humatest.TestAPI, *storetest.Fake) {
	t.Helper()

	fake := storetest.New()
	_, api := humatest.New(t)
	handlers.RegisterEventRoutes(api, handlers.NewEventsHandler(fake))
	return api, fake
}

func TestEventsHandler_Record_BuyerView(t *testing.T) {
	t.Parallel()

	api, fake := newEventsAPI(t)

	resp := api.Post("/api/v1/events", map[string]any{
		"listing_id":       "l1",
		"buyer_session_id": "sess-1",
		"viewer_type":      "buyer",
		"view_duration":    95,
		"images_viewed":    []int{0, 1, 4},
		"sections_visited": []string{"photos", "map"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), "recorded")

	events := fake.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "l1", events[0].ListingID)
	assert.Equal(t, domain.ViewerBuyer, events[0].ViewerType)
	require.NotNil(t, events[0].BuyerSessionID)
	assert.Equal(t, "sess-1", *events[0].BuyerSessionID)
	assert.Equal(t, 95, events[0].ViewDuration)
	assert.False(t, events[0].Timestamp.IsZero(), "timestamp defaults to now")
}

func TestEventsHandler_Record_BuyerWithoutSession(t *testing.T) {
	t.Parallel()

	api, fake := newEventsAPI(t)

	resp := api.Post("/api/v1/events", map[string]any{
		"listing_id":    "l1",
		"viewer_type":   "buyer",
		"view_duration": 30,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Empty(t, fake.Events())
}

func TestEventsHandler_Record_AnonymousDropsSession(t *testing.T) {
	t.Parallel()

	api, fake := newEventsAPI(t)

	resp := api.Post("/api/v1/events", map[string]any{
		"listing_id":       "l1",
		"buyer_session_id": "should-be-ignored",
		"viewer_type":      "anonymous",
		"view_duration":    12,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	events := fake.Events()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].BuyerSessionID, "anonymous views never carry a session")
}

func TestEventsHandler_Record_ExplicitTimestamp(t *testing.T) {
	t.Parallel()

	api, fake := newEventsAPI(t)

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	resp := api.Post("/api/v1/events", map[string]any{
		"listing_id":    "l1",
		"viewer_type":   "agent",
		"view_duration": 5,
		"timestamp":     ts.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	events := fake.Events()
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(ts))
}

func TestEventsHandler_Record_RejectsUnknownViewer(t *testing.T) {
	t.Parallel()

	api, _ := newEventsAPI(t)

	resp := api.Post("/api/v1/events", map[string]any{
		"listing_id":    "l1",
		"viewer_type":   "robot",
		"view_duration": 5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestEventsHandler_Record_StoreError(t *testing.T) {
	t.Parallel()

	api, fake := newEventsAPI(t)
	fake.InsertViewEventErr = assert.AnError

	resp := api.Post("/api/v1/events", map[string]any{
		"listing_id":    "l1",
		"viewer_type":   "anonymous",
		"view_duration": 5,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
