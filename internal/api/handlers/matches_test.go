package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout/internal/api/handlers"
	domain "github.com/homescout/homescout/pkg/types"
)

// stubRunner implements handlers.SearchRunner with canned results.
type stubRunner struct {
	listings []domain.Listing
	alert    *domain.Alert
	err      error
}

func (s *stubRunner) MatchSearch(context.Context, string) ([]domain.Listing, error) {
	return s.listings, s.err
}

func (s *stubRunner) RunSearch(context.Context, string) (*domain.Alert, error) {
	return s.alert, s.err
}

func newMatchesAPI(t *testing.T, runner *stubRunner) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	handlers.RegisterMatchRoutes(api, handlers.NewMatchesHandler(runner))
	return api
}

func TestMatchesHandler_Match(t *testing.T) {
	t.Parallel()

	api := newMatchesAPI(t, &stubRunner{
		listings: []domain.Listing{
			{ID: "l1", Title: "Craftsman"},
			{ID: "l2", Title: "Bungalow"},
		},
	})

	resp := api.Get("/api/v1/searches/s1/matches")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Craftsman")
	assert.Contains(t, resp.Body.String(), `"total":2`)
}

func TestMatchesHandler_Match_NoMatches(t *testing.T) {
	t.Parallel()

	api := newMatchesAPI(t, &stubRunner{})

	resp := api.Get("/api/v1/searches/s1/matches")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"listings":[]`)
	assert.Contains(t, resp.Body.String(), `"total":0`)
}

func TestMatchesHandler_Match_SearchNotFound(t *testing.T) {
	t.Parallel()

	api := newMatchesAPI(t, &stubRunner{
		err: fmt.Errorf("getting saved search: %w", pgx.ErrNoRows),
	})

	resp := api.Get("/api/v1/searches/missing/matches")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMatchesHandler_Match_StoreError(t *testing.T) {
	t.Parallel()

	api := newMatchesAPI(t, &stubRunner{err: assert.AnError})

	resp := api.Get("/api/v1/searches/s1/matches")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestMatchesHandler_Run_CreatesAlert(t *testing.T) {
	t.Parallel()

	api := newMatchesAPI(t, &stubRunner{
		alert: &domain.Alert{
			ID:            "a1",
			SavedSearchID: "s1",
			NewListingIDs: []string{"l1", "l2"},
		},
	})

	resp := api.Post("/api/v1/searches/s1/run")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "alert created")
	assert.Contains(t, resp.Body.String(), `"a1"`)
}

func TestMatchesHandler_Run_NothingNew(t *testing.T) {
	t.Parallel()

	api := newMatchesAPI(t, &stubRunner{})

	resp := api.Post("/api/v1/searches/s1/run")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "no new matches")
	assert.NotContains(t, resp.Body.String(), `"alert"`)
}

func TestMatchesHandler_Run_SearchNotFound(t *testing.T) {
	t.Parallel()

	api := newMatchesAPI(t, &stubRunner{
		err: fmt.Errorf("getting saved search: %w", pgx.ErrNoRows),
	})

	resp := api.Post("/api/v1/searches/missing/run")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
