package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testAlert(score int) AlertPayload {
	return AlertPayload{
		SearchName: "Portland starter homes",
		BuyerID:    "buyer-1",
		Listings: []ListingSummary{
			{
				Title:      "Craftsman bungalow near the park",
				Address:    "412 Alder St",
				City:       "Portland",
				Price:      625000,
				Bedrooms:   intPtr(3),
				Bathrooms:  floatPtr(2),
				PhotoURL:   "https://cdn.example.com/photos/412-alder.jpg",
				MatchScore: score,
			},
		},
	}
}

func TestWebhookNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		alert      AlertPayload
		statusCode int
		wantErr    bool
		errMsg     string
		wantColor  int
	}{
		{
			name:       "valid alert sends embed",
			alert:      testAlert(85),
			statusCode: http.StatusNoContent,
			wantColor:  colorYellow,
		},
		{
			name:       "score 92 uses green color",
			alert:      testAlert(92),
			statusCode: http.StatusNoContent,
			wantColor:  colorGreen,
		},
		{
			name:       "score 55 uses blue color",
			alert:      testAlert(55),
			statusCode: http.StatusNoContent,
			wantColor:  colorBlue,
		},
		{
			name:       "webhook returns 429 rate limited",
			alert:      testAlert(85),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "webhook returns 400 error",
			alert:      testAlert(85),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "webhook returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received webhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			n := NewWebhookNotifier(srv.URL)
			err := n.SendAlert(context.Background(), &tt.alert)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)

			e := received.Embeds[0]
			assert.Equal(t, tt.wantColor, e.Color)
			assert.Contains(t, e.Title, tt.alert.SearchName)
			assert.Contains(t, e.Title, tt.alert.Listings[0].Title)
			assert.Equal(t, "412 Alder St", e.Description)
			require.NotNil(t, e.Thumbnail)
			assert.Equal(t, tt.alert.Listings[0].PhotoURL, e.Thumbnail.URL)

			fieldMap := make(map[string]string)
			for _, f := range e.Fields {
				fieldMap[f.Name] = f.Value
			}
			assert.Equal(t, "$625000", fieldMap["Price"])
			assert.Equal(t, "Portland", fieldMap["City"])
			assert.Equal(t, "3", fieldMap["Beds"])
			assert.Equal(t, "2", fieldMap["Baths"])
		})
	}
}

func TestWebhookNotifier_SendAlert_NoPhoto(t *testing.T) {
	t.Parallel()

	var received webhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	alert := testAlert(90)
	alert.Listings[0].PhotoURL = ""

	n := NewWebhookNotifier(srv.URL)
	require.NoError(t, n.SendAlert(context.Background(), &alert))

	require.Len(t, received.Embeds, 1)
	assert.Nil(t, received.Embeds[0].Thumbnail)
}

func TestWebhookNotifier_SendAlert_OverflowCollapsed(t *testing.T) {
	t.Parallel()

	var received webhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	alert := testAlert(80)
	for i := 0; i < 14; i++ {
		alert.Listings = append(alert.Listings, alert.Listings[0])
	}

	n := NewWebhookNotifier(srv.URL, WithRateLimit(100, 100))
	require.NoError(t, n.SendAlert(context.Background(), &alert))

	require.Len(t, received.Embeds, maxEmbedsPerMessage)
	last := received.Embeds[maxEmbedsPerMessage-1]
	assert.Contains(t, last.Title, "more new matches")
}

func TestWebhookNotifier_SendDigest(t *testing.T) {
	t.Parallel()

	var received webhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	alerts := []AlertPayload{testAlert(80), testAlert(85), testAlert(90)}

	n := NewWebhookNotifier(srv.URL, WithRateLimit(100, 100))
	require.NoError(t, n.SendDigest(context.Background(), "Portland starter homes", alerts))

	assert.Len(t, received.Embeds, 3)
}

func TestWebhookNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	n := NewWebhookNotifier("http://127.0.0.1:1") // nothing listening
	alert := testAlert(85)
	err := n.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending webhook")
}

func TestWebhookNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	n := NewWebhookNotifier("://not-a-valid-url")
	alert := testAlert(85)
	err := n.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating webhook request")
}

func TestWebhookNotifier_RateLimiterBlocksCanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	// Burst of 1: the second send must wait, and the canceled context
	// aborts the wait.
	n := NewWebhookNotifier(srv.URL, WithRateLimit(0.001, 1))

	alert := testAlert(85)
	require.NoError(t, n.SendAlert(context.Background(), &alert))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := n.SendAlert(ctx, &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	n := NewWebhookNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, n.client)
}
