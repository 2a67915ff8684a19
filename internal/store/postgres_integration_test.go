//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/homescout/homescout/internal/store"
	domain "github.com/homescout/homescout/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("homescout_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func testListing() *domain.Listing {
	beds := 3
	baths := 2.0
	sqft := 1850
	return &domain.Listing{
		AgentID:      "agent-1",
		Title:        "Craftsman bungalow near the park",
		Address:      "412 Alder St",
		City:         "Portland",
		State:        "OR",
		Zip:          "97204",
		Price:        625000,
		Bedrooms:     &beds,
		Bathrooms:    &baths,
		Sqft:         &sqft,
		PropertyType: domain.PropertySingleFamily,
		Status:       domain.StatusActive,
		Features:     []string{"garage", "fenced yard"},
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_UpsertListing(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	t.Run("insert assigns id and timestamps", func(t *testing.T) {
		l := testListing()
		require.NoError(t, s.UpsertListing(ctx, l))
		assert.NotEmpty(t, l.ID)
		assert.False(t, l.CreatedAt.IsZero())
		assert.False(t, l.UpdatedAt.IsZero())
	})

	t.Run("upsert with changed price keeps created_at", func(t *testing.T) {
		l := testListing()
		require.NoError(t, s.UpsertListing(ctx, l))
		firstID := l.ID
		created := l.CreatedAt

		l2 := testListing()
		l2.ID = firstID
		l2.Price = 599000
		require.NoError(t, s.UpsertListing(ctx, l2))

		assert.Equal(t, firstID, l2.ID)
		assert.Equal(t, created, l2.CreatedAt)

		got, err := s.GetListing(ctx, firstID)
		require.NoError(t, err)
		assert.InDelta(t, 599000, got.Price, 0.01)
		assert.Equal(t, []string{"garage", "fenced yard"}, got.Features)
	})
}

func TestPostgresStore_ListActiveListings(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	active := testListing()
	require.NoError(t, s.UpsertListing(ctx, active))

	sold := testListing()
	sold.Status = domain.StatusSold
	require.NoError(t, s.UpsertListing(ctx, sold))

	got, err := s.ListActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)
}

func TestPostgresStore_SavedSearchRoundTrip(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	minPrice := 400000.0
	beds := 3
	sr := &domain.SavedSearch{
		BuyerID: "buyer-1",
		Name:    "Portland starter homes",
		Criteria: domain.SearchCriteria{
			MinPrice:    &minPrice,
			MinBedrooms: &beds,
			Cities:      []string{"Portland"},
		},
		Enabled: true,
	}
	require.NoError(t, s.CreateSavedSearch(ctx, sr))
	require.NotEmpty(t, sr.ID)

	got, err := s.GetSavedSearch(ctx, sr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portland starter homes", got.Name)
	require.NotNil(t, got.Criteria.MinPrice)
	assert.Equal(t, minPrice, *got.Criteria.MinPrice)
	assert.Equal(t, []string{"Portland"}, got.Criteria.Cities)

	now := time.Now().Truncate(time.Microsecond)
	require.NoError(t, s.UpdateSearchLastRun(ctx, sr.ID, now))

	got, err = s.GetSavedSearch(ctx, sr.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastRunAt)
	assert.WithinDuration(t, now, *got.LastRunAt, time.Second)
}

func TestPostgresStore_AlertsAndDedupFold(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	sr := &domain.SavedSearch{BuyerID: "buyer-1", Name: "alerts", Enabled: true}
	require.NoError(t, s.CreateSavedSearch(ctx, sr))

	a1 := &domain.Alert{SavedSearchID: sr.ID, NewListingIDs: []string{"l1", "l2"}}
	require.NoError(t, s.CreateAlert(ctx, a1))
	a2 := &domain.Alert{SavedSearchID: sr.ID, NewListingIDs: []string{"l3"}}
	require.NoError(t, s.CreateAlert(ctx, a2))

	ids, err := s.ListAlertedListingIDs(ctx, sr.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"l1", "l2", "l3"}, ids)

	pending, err := s.ListPendingAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, s.MarkAlertsNotified(ctx, []string{a1.ID, a2.ID}))
	pending, err = s.ListPendingAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Notified alerts still count toward the dedup fold.
	ids, err = s.ListAlertedListingIDs(ctx, sr.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"l1", "l2", "l3"}, ids)
}

func TestPostgresStore_ViewEvents(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	l := testListing()
	require.NoError(t, s.UpsertListing(ctx, l))

	session := "sess-1"
	e := &domain.ViewEvent{
		ListingID:       l.ID,
		BuyerSessionID:  &session,
		ViewerType:      domain.ViewerBuyer,
		ViewDuration:    120,
		ImagesViewed:    []int{0, 1, 4},
		SectionsVisited: []string{"photos", "map"},
		Timestamp:       time.Now(),
	}
	require.NoError(t, s.InsertViewEvent(ctx, e))
	require.NotEmpty(t, e.ID)

	anon := &domain.ViewEvent{
		ListingID:    l.ID,
		ViewerType:   domain.ViewerAnonymous,
		ViewDuration: 15,
		Timestamp:    time.Now(),
	}
	require.NoError(t, s.InsertViewEvent(ctx, anon))

	events, err := s.ListViewEventsByListing(ctx, l.ID, nil)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	buyerEvents, err := s.ListViewEventsByBuyerListing(ctx, session, l.ID, nil)
	require.NoError(t, err)
	require.Len(t, buyerEvents, 1)
	assert.Equal(t, []int{0, 1, 4}, buyerEvents[0].ImagesViewed)

	pairs, err := s.ListBuyerListingPairs(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, session, pairs[0].BuyerSessionID)
}

func TestPostgresStore_Locks(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	ok, err := s.AcquireLock(ctx, "search:abc", "holder-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AcquireLock(ctx, "search:abc", "holder-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.ReleaseLock(ctx, "search:abc", "holder-1"))

	ok, err = s.AcquireLock(ctx, "search:abc", "holder-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresStore_JobRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	id, err := s.InsertJobRun(ctx, "match_cycle")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, s.CompleteJobRun(ctx, id, "success", ""))

	runs, err := s.ListJobRuns(ctx, "match_cycle", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "success", runs[0].Status)
	require.NotNil(t, runs[0].CompletedAt)

	latest, err := s.ListLatestJobRuns(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "match_cycle", latest[0].JobName)
}
