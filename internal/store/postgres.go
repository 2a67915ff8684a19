package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/homescout/homescout/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	return NewPostgresStoreWithPoolSize(ctx, connString, defaultPoolSize)
}

// NewPostgresStoreWithPoolSize creates a PostgresStore with an explicit
// maximum connection count.
func NewPostgresStoreWithPoolSize(
	ctx context.Context,
	connString string,
	poolSize int,
) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = int32(poolSize)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// UpsertListing inserts or updates a listing by id. A blank ID lets the
// database generate one.
func (s *PostgresStore) UpsertListing(ctx context.Context, l *domain.Listing) error {
	featuresJSON, err := json.Marshal(l.Features)
	if err != nil {
		return fmt.Errorf("marshaling features: %w", err)
	}

	args := pgx.NamedArgs{
		"id":            l.ID,
		"agent_id":      l.AgentID,
		"title":         l.Title,
		"address":       l.Address,
		"city":          l.City,
		"state":         l.State,
		"zip":           l.Zip,
		"price":         l.Price,
		"bedrooms":      l.Bedrooms,
		"bathrooms":     l.Bathrooms,
		"sqft":          l.Sqft,
		"property_type": string(l.PropertyType),
		"status":        string(l.Status),
		"features":      featuresJSON,
		"photo_url":     l.PhotoURL,
	}

	return s.pool.QueryRow(ctx, queryUpsertListing, args).Scan(
		&l.ID, &l.CreatedAt, &l.UpdatedAt,
	)
}

// GetListing retrieves a listing by its ID.
func (s *PostgresStore) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	l := &domain.Listing{}
	if err := scanListing(s.pool.QueryRow(ctx, queryGetListing, id), l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListListings queries listings with optional filters, returning results and total count.
func (s *PostgresStore) ListListings(
	ctx context.Context,
	opts *ListingQuery,
) ([]domain.Listing, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	listings, err := s.queryListings(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// ListActiveListings returns all active listings, most recently updated first.
func (s *PostgresStore) ListActiveListings(ctx context.Context) ([]domain.Listing, error) {
	return s.queryListings(ctx, queryListActiveListings)
}

// SetListingStatus updates the lifecycle status of a listing.
func (s *PostgresStore) SetListingStatus(
	ctx context.Context,
	id string,
	status domain.ListingStatus,
) error {
	_, err := s.pool.Exec(ctx, querySetListingStatus, id, string(status))
	if err != nil {
		return fmt.Errorf("setting listing status: %w", err)
	}
	return nil
}

// DeleteListing removes a listing by its ID.
func (s *PostgresStore) DeleteListing(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, queryDeleteListing, id)
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}
	return nil
}

// CreateSavedSearch inserts a new saved search.
func (s *PostgresStore) CreateSavedSearch(ctx context.Context, sr *domain.SavedSearch) error {
	criteriaJSON, err := json.Marshal(sr.Criteria)
	if err != nil {
		return fmt.Errorf("marshaling criteria: %w", err)
	}

	args := pgx.NamedArgs{
		"buyer_id": sr.BuyerID,
		"name":     sr.Name,
		"criteria": criteriaJSON,
		"enabled":  sr.Enabled,
	}

	return s.pool.QueryRow(ctx, queryCreateSavedSearch, args).Scan(
		&sr.ID, &sr.CreatedAt, &sr.UpdatedAt,
	)
}

// GetSavedSearch retrieves a saved search by its ID.
func (s *PostgresStore) GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error) {
	sr := &domain.SavedSearch{}
	var criteriaJSON []byte

	err := s.pool.QueryRow(ctx, queryGetSavedSearch, id).Scan(
		&sr.ID, &sr.BuyerID, &sr.Name, &criteriaJSON,
		&sr.Enabled, &sr.LastRunAt, &sr.CreatedAt, &sr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(criteriaJSON, &sr.Criteria); err != nil {
		return nil, fmt.Errorf("unmarshaling search criteria: %w", err)
	}

	return sr, nil
}

// ListSavedSearches returns all saved searches, optionally enabled only.
func (s *PostgresStore) ListSavedSearches(
	ctx context.Context,
	enabledOnly bool,
) ([]domain.SavedSearch, error) {
	query := queryListSavedSearchesAll
	if enabledOnly {
		query = queryListSavedSearchesEnabled
	}
	return s.querySavedSearches(ctx, query)
}

// ListSavedSearchesByBuyer returns a buyer's saved searches, newest first.
func (s *PostgresStore) ListSavedSearchesByBuyer(
	ctx context.Context,
	buyerID string,
) ([]domain.SavedSearch, error) {
	return s.querySavedSearches(ctx, queryListSavedSearchesByBuyer, buyerID)
}

// UpdateSavedSearch updates an existing saved search.
func (s *PostgresStore) UpdateSavedSearch(ctx context.Context, sr *domain.SavedSearch) error {
	criteriaJSON, err := json.Marshal(sr.Criteria)
	if err != nil {
		return fmt.Errorf("marshaling criteria: %w", err)
	}

	args := pgx.NamedArgs{
		"id":       sr.ID,
		"name":     sr.Name,
		"criteria": criteriaJSON,
		"enabled":  sr.Enabled,
	}

	_, err = s.pool.Exec(ctx, queryUpdateSavedSearch, args)
	if err != nil {
		return fmt.Errorf("updating saved search: %w", err)
	}
	return nil
}

// DeleteSavedSearch removes a saved search by its ID. Its alerts cascade.
func (s *PostgresStore) DeleteSavedSearch(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, queryDeleteSavedSearch, id)
	if err != nil {
		return fmt.Errorf("deleting saved search: %w", err)
	}
	return nil
}

// SetSavedSearchEnabled enables or disables a saved search.
func (s *PostgresStore) SetSavedSearchEnabled(ctx context.Context, id string, enabled bool) error {
	_, err := s.pool.Exec(ctx, querySetSavedSearchEnabled, id, enabled)
	if err != nil {
		return fmt.Errorf("setting saved search enabled: %w", err)
	}
	return nil
}

// UpdateSearchLastRun sets the last_run_at timestamp for a saved search.
func (s *PostgresStore) UpdateSearchLastRun(ctx context.Context, id string, t time.Time) error {
	_, err := s.pool.Exec(ctx, queryUpdateSearchLastRun, id, t)
	if err != nil {
		return fmt.Errorf("updating search last_run_at: %w", err)
	}
	return nil
}

// CreateAlert inserts a new alert.
func (s *PostgresStore) CreateAlert(ctx context.Context, a *domain.Alert) error {
	idsJSON, err := json.Marshal(a.NewListingIDs)
	if err != nil {
		return fmt.Errorf("marshaling listing ids: %w", err)
	}

	err = s.pool.QueryRow(ctx, queryCreateAlert, a.SavedSearchID, idsJSON).Scan(
		&a.ID, &a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating alert: %w", err)
	}
	return nil
}

// ListAlertsBySearch returns alerts for a saved search, newest first.
func (s *PostgresStore) ListAlertsBySearch(
	ctx context.Context,
	searchID string,
	limit int,
) ([]domain.Alert, error) {
	return s.queryAlerts(ctx, queryListAlertsBySearch, searchID, limit)
}

// ListPendingAlerts returns all un-notified alerts, oldest first.
func (s *PostgresStore) ListPendingAlerts(ctx context.Context) ([]domain.Alert, error) {
	return s.queryAlerts(ctx, queryListPendingAlerts)
}

// MarkAlertNotified marks a single alert as notified.
func (s *PostgresStore) MarkAlertNotified(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, queryMarkAlertNotified, id)
	if err != nil {
		return fmt.Errorf("marking alert notified: %w", err)
	}
	return nil
}

// MarkAlertsNotified marks multiple alerts as notified.
func (s *PostgresStore) MarkAlertsNotified(ctx context.Context, ids []string) error {
	_, err := s.pool.Exec(ctx, queryMarkAlertsNotified, ids)
	if err != nil {
		return fmt.Errorf("marking alerts notified: %w", err)
	}
	return nil
}

// ListAlertedListingIDs returns every listing ID that has ever appeared in
// an alert for the given saved search.
func (s *PostgresStore) ListAlertedListingIDs(
	ctx context.Context,
	searchID string,
) ([]string, error) {
	rows, err := s.pool.Query(ctx, queryListAlertedListingIDs, searchID)
	if err != nil {
		return nil, fmt.Errorf("querying alerted listing ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning alerted listing id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// InsertViewEvent appends a view event. The event ID is assigned by the database.
func (s *PostgresStore) InsertViewEvent(ctx context.Context, e *domain.ViewEvent) error {
	imagesJSON, err := json.Marshal(e.ImagesViewed)
	if err != nil {
		return fmt.Errorf("marshaling images viewed: %w", err)
	}
	videosJSON, err := json.Marshal(e.VideosWatched)
	if err != nil {
		return fmt.Errorf("marshaling videos watched: %w", err)
	}
	sectionsJSON, err := json.Marshal(e.SectionsVisited)
	if err != nil {
		return fmt.Errorf("marshaling sections visited: %w", err)
	}

	err = s.pool.QueryRow(ctx, queryInsertViewEvent,
		e.ListingID, e.BuyerSessionID, string(e.ViewerType), e.ViewDuration,
		imagesJSON, videosJSON, sectionsJSON, e.Timestamp,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting view event: %w", err)
	}
	return nil
}

// ListViewEventsByListing returns a listing's view events in chronological
// order. A nil since returns the full history.
func (s *PostgresStore) ListViewEventsByListing(
	ctx context.Context,
	listingID string,
	since *time.Time,
) ([]domain.ViewEvent, error) {
	return s.queryViewEvents(ctx, queryListViewEventsByListing, listingID, sinceOrZero(since))
}

// ListViewEventsByBuyerListing returns the events one buyer session generated
// on one listing, in chronological order.
func (s *PostgresStore) ListViewEventsByBuyerListing(
	ctx context.Context,
	buyerSessionID, listingID string,
	since *time.Time,
) ([]domain.ViewEvent, error) {
	return s.queryViewEvents(ctx, queryListViewEventsByBuyerListing,
		buyerSessionID, listingID, sinceOrZero(since))
}

// ListBuyerListingPairs returns distinct (buyer session, listing) pairs with
// at least one view event at or after since.
func (s *PostgresStore) ListBuyerListingPairs(
	ctx context.Context,
	since time.Time,
) ([]BuyerListingPair, error) {
	rows, err := s.pool.Query(ctx, queryListBuyerListingPairs, since)
	if err != nil {
		return nil, fmt.Errorf("querying buyer listing pairs: %w", err)
	}
	defer rows.Close()

	var pairs []BuyerListingPair
	for rows.Next() {
		var p BuyerListingPair
		if err := rows.Scan(&p.BuyerSessionID, &p.ListingID); err != nil {
			return nil, fmt.Errorf("scanning buyer listing pair: %w", err)
		}
		pairs = append(pairs, p)
	}

	return pairs, rows.Err()
}

// InsertJobRun records the start of a scheduled job and returns its UUID.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun marks a job run as finished with the given status.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText)
	if err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns the most recent runs for a specific job, newest first.
func (s *PostgresStore) ListJobRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// ListLatestJobRuns returns the single most recent run for each distinct job name.
func (s *PostgresStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListLatestJobRuns)
	if err != nil {
		return nil, fmt.Errorf("querying latest job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// RecoverStaleJobRuns marks any 'running' job rows older than olderThan as
// 'crashed', then deletes rows older than 30 days. Returns the number of
// rows marked as crashed.
func (s *PostgresStore) RecoverStaleJobRuns(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := s.pool.Exec(ctx, queryMarkStaleJobRunsCrashed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("marking stale job runs crashed: %w", err)
	}
	affected := int(tag.RowsAffected())

	if _, err := s.pool.Exec(ctx, queryDeleteOldJobRuns); err != nil {
		return affected, fmt.Errorf("deleting old job runs: %w", err)
	}

	return affected, nil
}

// AcquireLock attempts to acquire a named distributed lock.
// Returns true if the lock was acquired, false if another holder owns it.
func (s *PostgresStore) AcquireLock(
	ctx context.Context,
	name string,
	holder string,
	ttl time.Duration,
) (bool, error) {
	expiresAt := time.Now().Add(ttl)

	var gotName string
	err := s.pool.QueryRow(ctx, queryAcquireLock, name, holder, expiresAt).Scan(&gotName)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil // lock held by another; conflict not replaced
	}
	if err != nil {
		return false, fmt.Errorf("acquiring lock: %w", err)
	}

	return true, nil
}

// ReleaseLock deletes the lock row for the given name and holder.
func (s *PostgresStore) ReleaseLock(ctx context.Context, name string, holder string) error {
	_, err := s.pool.Exec(ctx, queryReleaseLock, name, holder)
	if err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

// queryListings is a helper for listing queries.
func (s *PostgresStore) queryListings(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.Listing, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// querySavedSearches is a helper for saved search queries.
func (s *PostgresStore) querySavedSearches(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.SavedSearch, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying saved searches: %w", err)
	}
	defer rows.Close()

	var searches []domain.SavedSearch
	for rows.Next() {
		var sr domain.SavedSearch
		var criteriaJSON []byte

		if err := rows.Scan(
			&sr.ID, &sr.BuyerID, &sr.Name, &criteriaJSON,
			&sr.Enabled, &sr.LastRunAt, &sr.CreatedAt, &sr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning saved search: %w", err)
		}

		if err := json.Unmarshal(criteriaJSON, &sr.Criteria); err != nil {
			return nil, fmt.Errorf("unmarshaling search criteria: %w", err)
		}

		searches = append(searches, sr)
	}

	return searches, rows.Err()
}

// queryAlerts is a helper for alert queries.
func (s *PostgresStore) queryAlerts(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.Alert, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		var idsJSON []byte

		if err := rows.Scan(
			&a.ID, &a.SavedSearchID, &idsJSON,
			&a.Notified, &a.NotifiedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}

		if err := json.Unmarshal(idsJSON, &a.NewListingIDs); err != nil {
			return nil, fmt.Errorf("unmarshaling alert listing ids: %w", err)
		}

		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// queryViewEvents is a helper for view event queries.
func (s *PostgresStore) queryViewEvents(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.ViewEvent, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying view events: %w", err)
	}
	defer rows.Close()

	var events []domain.ViewEvent
	for rows.Next() {
		var e domain.ViewEvent
		var imagesJSON, videosJSON, sectionsJSON []byte

		if err := rows.Scan(
			&e.ID, &e.ListingID, &e.BuyerSessionID, &e.ViewerType, &e.ViewDuration,
			&imagesJSON, &videosJSON, &sectionsJSON, &e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scanning view event: %w", err)
		}

		if err := json.Unmarshal(imagesJSON, &e.ImagesViewed); err != nil {
			return nil, fmt.Errorf("unmarshaling images viewed: %w", err)
		}
		if err := json.Unmarshal(videosJSON, &e.VideosWatched); err != nil {
			return nil, fmt.Errorf("unmarshaling videos watched: %w", err)
		}
		if err := json.Unmarshal(sectionsJSON, &e.SectionsVisited); err != nil {
			return nil, fmt.Errorf("unmarshaling sections visited: %w", err)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

// scanJobRuns scans rows from a job_runs query into a slice.
func scanJobRuns(rows pgx.Rows) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt, &r.Status, &r.ErrorText,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// sinceOrZero converts an optional lower bound into a concrete timestamp.
func sinceOrZero(since *time.Time) time.Time {
	if since == nil {
		return time.Time{}
	}
	return *since
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

// scanListing scans a full listing row.
func scanListing(row scannable, l *domain.Listing) error {
	var featuresJSON []byte

	if err := row.Scan(
		&l.ID, &l.AgentID, &l.Title, &l.Address, &l.City, &l.State, &l.Zip,
		&l.Price, &l.Bedrooms, &l.Bathrooms, &l.Sqft, &l.PropertyType, &l.Status,
		&featuresJSON, &l.PhotoURL,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return err
	}

	return json.Unmarshal(featuresJSON, &l.Features)
}
