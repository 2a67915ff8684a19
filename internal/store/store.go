// Package store defines the datastore abstraction for HomeScout.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables fake-based testing without a running database.
package store

import (
	"context"
	"time"

	domain "github.com/homescout/homescout/pkg/types"
)

// ListingQuery defines optional filters for listing queries.
type ListingQuery struct {
	City         *string
	PropertyType *string
	Status       *string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	Limit        int // default 50
	Offset       int
	OrderBy      string // "updated_at", "price", "created_at"
}

// BuyerListingPair identifies a buyer session that has viewed a listing.
type BuyerListingPair struct {
	BuyerSessionID string
	ListingID      string
}

// Store defines all data access operations for HomeScout.
type Store interface {
	// Listings
	UpsertListing(ctx context.Context, l *domain.Listing) error
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	ListListings(ctx context.Context, opts *ListingQuery) ([]domain.Listing, int, error)
	ListActiveListings(ctx context.Context) ([]domain.Listing, error)
	SetListingStatus(ctx context.Context, id string, status domain.ListingStatus) error
	DeleteListing(ctx context.Context, id string) error

	// Saved searches
	CreateSavedSearch(ctx context.Context, s *domain.SavedSearch) error
	GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error)
	ListSavedSearches(ctx context.Context, enabledOnly bool) ([]domain.SavedSearch, error)
	ListSavedSearchesByBuyer(ctx context.Context, buyerID string) ([]domain.SavedSearch, error)
	UpdateSavedSearch(ctx context.Context, s *domain.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, id string) error
	SetSavedSearchEnabled(ctx context.Context, id string, enabled bool) error
	UpdateSearchLastRun(ctx context.Context, id string, t time.Time) error

	// Alerts
	CreateAlert(ctx context.Context, a *domain.Alert) error
	ListAlertsBySearch(ctx context.Context, searchID string, limit int) ([]domain.Alert, error)
	ListPendingAlerts(ctx context.Context) ([]domain.Alert, error)
	MarkAlertNotified(ctx context.Context, id string) error
	MarkAlertsNotified(ctx context.Context, ids []string) error
	// ListAlertedListingIDs folds every alert for a search into the set of
	// listing IDs already alerted on, regardless of notified state.
	ListAlertedListingIDs(ctx context.Context, searchID string) ([]string, error)

	// View events
	InsertViewEvent(ctx context.Context, e *domain.ViewEvent) error
	ListViewEventsByListing(ctx context.Context, listingID string, since *time.Time) ([]domain.ViewEvent, error)
	ListViewEventsByBuyerListing(ctx context.Context, buyerSessionID, listingID string, since *time.Time) ([]domain.ViewEvent, error)
	ListBuyerListingPairs(ctx context.Context, since time.Time) ([]BuyerListingPair, error)

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)
	RecoverStaleJobRuns(ctx context.Context, olderThan time.Duration) (int, error)
	AcquireLock(ctx context.Context, name string, holder string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string, holder string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
