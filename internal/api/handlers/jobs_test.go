package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout/internal/api/handlers"
	"github.com/homescout/homescout/internal/store/storetest"
	domain "github.com/homescout/homescout/pkg/types"
)

func newJobsAPI(t *testing.T) (humatest.TestAPI, *storetest.Fake) {
	t.Helper()

	fake := storetest.New()
	_, api := humatest.New(t)
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(fake))
	return api, fake
}

func TestJobsHandler_ListJobs(t *testing.T) {
	t.Parallel()

	api, fake := newJobsAPI(t)
	ctx := context.Background()

	id, err := fake.InsertJobRun(ctx, "match_cycle")
	require.NoError(t, err)
	require.NoError(t, fake.CompleteJobRun(ctx, id, "success", ""))

	id, err = fake.InsertJobRun(ctx, "engagement_refresh")
	require.NoError(t, err)
	require.NoError(t, fake.CompleteJobRun(ctx, id, "failed", "boom"))

	resp := api.Get("/api/v1/jobs")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "match_cycle")
	assert.Contains(t, resp.Body.String(), "engagement_refresh")
	assert.Contains(t, resp.Body.String(), "boom")
}

func TestJobsHandler_ListJobs_Empty(t *testing.T) {
	t.Parallel()

	api, _ := newJobsAPI(t)

	resp := api.Get("/api/v1/jobs")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestJobsHandler_GetJobHistory(t *testing.T) {
	t.Parallel()

	api, fake := newJobsAPI(t)
	ctx := context.Background()

	for range 3 {
		id, err := fake.InsertJobRun(ctx, "match_cycle")
		require.NoError(t, err)
		require.NoError(t, fake.CompleteJobRun(ctx, id, "success", ""))
	}

	resp := api.Get("/api/v1/jobs/match_cycle")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "match_cycle")

	resp = api.Get("/api/v1/jobs/match_cycle?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)
	var runs []domain.JobRun
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)

	resp = api.Get("/api/v1/jobs/unknown_job")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}
