// Package storetest provides an in-memory Store implementation for tests
// that exercise business logic without a running database.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/homescout/homescout/internal/store"
	domain "github.com/homescout/homescout/pkg/types"
)

type lockEntry struct {
	holder    string
	expiresAt time.Time
}

// Fake is an in-memory Store. All methods are safe for concurrent use.
// Error fields, when set, force the corresponding method to fail.
type Fake struct {
	mu sync.Mutex

	listings map[string]domain.Listing
	searches map[string]domain.SavedSearch
	alerts   []domain.Alert
	events   []domain.ViewEvent
	jobRuns  map[string]domain.JobRun
	locks    map[string]lockEntry

	// Error injection.
	ListActiveListingsErr error
	CreateAlertErr        error
	MarkNotifiedErr       error
	InsertViewEventErr    error

	// DenyLocks lists lock names AcquireLock must refuse.
	DenyLocks map[string]bool
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{
		listings: make(map[string]domain.Listing),
		searches: make(map[string]domain.SavedSearch),
		jobRuns:  make(map[string]domain.JobRun),
		locks:    make(map[string]lockEntry),
	}
}

var _ store.Store = (*Fake)(nil)

// UpsertListing inserts or replaces a listing, assigning an ID if blank.
func (f *Fake) UpsertListing(_ context.Context, l *domain.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if l.ID == "" {
		l.ID = uuid.NewString()
		l.CreatedAt = now
	} else if existing, ok := f.listings[l.ID]; ok {
		l.CreatedAt = existing.CreatedAt
	} else if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = now
	}

	f.listings[l.ID] = *l
	return nil
}

func (f *Fake) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.listings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &l, nil
}

func (f *Fake) ListListings(
	_ context.Context,
	opts *store.ListingQuery,
) ([]domain.Listing, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Listing
	for _, l := range f.listings {
		if !matchesQuery(&l, opts) {
			continue
		}
		out = append(out, l)
	}
	sortListings(out, opts.OrderBy)

	total := len(out)
	offset := max(opts.Offset, 0)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, total, nil
}

func (f *Fake) ListActiveListings(_ context.Context) ([]domain.Listing, error) {
	if f.ListActiveListingsErr != nil {
		return nil, f.ListActiveListingsErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Listing
	for _, l := range f.listings {
		if l.Status == domain.StatusActive {
			out = append(out, l)
		}
	}
	sortListings(out, "updated_at")
	return out, nil
}

func (f *Fake) SetListingStatus(_ context.Context, id string, status domain.ListingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.listings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	f.listings[id] = l
	return nil
}

func (f *Fake) DeleteListing(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listings, id)
	return nil
}

func (f *Fake) CreateSavedSearch(_ context.Context, s *domain.SavedSearch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	f.searches[s.ID] = *s
	return nil
}

func (f *Fake) GetSavedSearch(_ context.Context, id string) (*domain.SavedSearch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.searches[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (f *Fake) ListSavedSearches(_ context.Context, enabledOnly bool) ([]domain.SavedSearch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.SavedSearch
	for _, s := range f.searches {
		if enabledOnly && !s.Enabled {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *Fake) ListSavedSearchesByBuyer(ctx context.Context, buyerID string) ([]domain.SavedSearch, error) {
	all, err := f.ListSavedSearches(ctx, false)
	if err != nil {
		return nil, err
	}
	var out []domain.SavedSearch
	for _, s := range all {
		if s.BuyerID == buyerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Fake) UpdateSavedSearch(_ context.Context, s *domain.SavedSearch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.searches[s.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	f.searches[s.ID] = *s
	return nil
}

func (f *Fake) DeleteSavedSearch(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.searches, id)
	kept := f.alerts[:0]
	for _, a := range f.alerts {
		if a.SavedSearchID != id {
			kept = append(kept, a)
		}
	}
	f.alerts = kept
	return nil
}

func (f *Fake) SetSavedSearchEnabled(_ context.Context, id string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.searches[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.Enabled = enabled
	s.UpdatedAt = time.Now()
	f.searches[id] = s
	return nil
}

func (f *Fake) UpdateSearchLastRun(_ context.Context, id string, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.searches[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.LastRunAt = &t
	f.searches[id] = s
	return nil
}

func (f *Fake) CreateAlert(_ context.Context, a *domain.Alert) error {
	if f.CreateAlertErr != nil {
		return f.CreateAlertErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	f.alerts = append(f.alerts, *a)
	return nil
}

func (f *Fake) ListAlertsBySearch(_ context.Context, searchID string, limit int) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Alert
	for _, a := range f.alerts {
		if a.SavedSearchID == searchID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Fake) ListPendingAlerts(_ context.Context) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Alert
	for _, a := range f.alerts {
		if !a.Notified {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *Fake) MarkAlertNotified(ctx context.Context, id string) error {
	return f.MarkAlertsNotified(ctx, []string{id})
}

func (f *Fake) MarkAlertsNotified(_ context.Context, ids []string) error {
	if f.MarkNotifiedErr != nil {
		return f.MarkNotifiedErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for i := range f.alerts {
		if idSet[f.alerts[i].ID] {
			f.alerts[i].Notified = true
			f.alerts[i].NotifiedAt = &now
		}
	}
	return nil
}

func (f *Fake) ListAlertedListingIDs(_ context.Context, searchID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool)
	var ids []string
	for _, a := range f.alerts {
		if a.SavedSearchID != searchID {
			continue
		}
		for _, id := range a.NewListingIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *Fake) InsertViewEvent(_ context.Context, e *domain.ViewEvent) error {
	if f.InsertViewEventErr != nil {
		return f.InsertViewEventErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	f.events = append(f.events, *e)
	return nil
}

func (f *Fake) ListViewEventsByListing(
	_ context.Context,
	listingID string,
	since *time.Time,
) ([]domain.ViewEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.ViewEvent
	for _, e := range f.events {
		if e.ListingID != listingID {
			continue
		}
		if since != nil && e.Timestamp.Before(*since) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *Fake) ListViewEventsByBuyerListing(
	_ context.Context,
	buyerSessionID, listingID string,
	since *time.Time,
) ([]domain.ViewEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.ViewEvent
	for _, e := range f.events {
		if e.ListingID != listingID {
			continue
		}
		if e.BuyerSessionID == nil || *e.BuyerSessionID != buyerSessionID {
			continue
		}
		if since != nil && e.Timestamp.Before(*since) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *Fake) ListBuyerListingPairs(
	_ context.Context,
	since time.Time,
) ([]store.BuyerListingPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[store.BuyerListingPair]bool)
	var pairs []store.BuyerListingPair
	for _, e := range f.events {
		if e.BuyerSessionID == nil || e.Timestamp.Before(since) {
			continue
		}
		p := store.BuyerListingPair{BuyerSessionID: *e.BuyerSessionID, ListingID: e.ListingID}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].BuyerSessionID == pairs[j].BuyerSessionID {
			return pairs[i].ListingID < pairs[j].ListingID
		}
		return pairs[i].BuyerSessionID < pairs[j].BuyerSessionID
	})
	return pairs, nil
}

func (f *Fake) InsertJobRun(_ context.Context, jobName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.NewString()
	f.jobRuns[id] = domain.JobRun{
		ID:        id,
		JobName:   jobName,
		StartedAt: time.Now(),
		Status:    "running",
	}
	return id, nil
}

func (f *Fake) CompleteJobRun(_ context.Context, id string, status string, errText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.jobRuns[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	r.CompletedAt = &now
	r.Status = status
	r.ErrorText = errText
	f.jobRuns[id] = r
	return nil
}

func (f *Fake) ListJobRuns(_ context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.JobRun
	for _, r := range f.jobRuns {
		if r.JobName == jobName {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Fake) ListLatestJobRuns(_ context.Context) ([]domain.JobRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	latest := make(map[string]domain.JobRun)
	for _, r := range f.jobRuns {
		if cur, ok := latest[r.JobName]; !ok || r.StartedAt.After(cur.StartedAt) {
			latest[r.JobName] = r
		}
	}
	var out []domain.JobRun
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobName < out[j].JobName })
	return out, nil
}

func (f *Fake) RecoverStaleJobRuns(_ context.Context, olderThan time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var recovered int
	for id, r := range f.jobRuns {
		if r.Status == "running" && r.StartedAt.Before(cutoff) {
			now := time.Now()
			r.Status = "crashed"
			r.CompletedAt = &now
			f.jobRuns[id] = r
			recovered++
		}
	}
	return recovered, nil
}

func (f *Fake) AcquireLock(
	_ context.Context,
	name string,
	holder string,
	ttl time.Duration,
) (bool, error) {
	if f.DenyLocks[name] {
		return false, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cur, ok := f.locks[name]; ok && cur.expiresAt.After(time.Now()) && cur.holder != holder {
		return false, nil
	}
	f.locks[name] = lockEntry{holder: holder, expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (f *Fake) ReleaseLock(_ context.Context, name string, holder string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cur, ok := f.locks[name]; ok && cur.holder == holder {
		delete(f.locks, name)
	}
	return nil
}

func (f *Fake) Migrate(context.Context) error { return nil }

func (f *Fake) Ping(context.Context) error { return nil }

// Alerts returns a copy of all alerts for assertions.
func (f *Fake) Alerts() []domain.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out
}

// Events returns a copy of all view events for assertions.
func (f *Fake) Events() []domain.ViewEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.ViewEvent, len(f.events))
	copy(out, f.events)
	return out
}

func matchesQuery(l *domain.Listing, q *store.ListingQuery) bool {
	if q == nil {
		return true
	}
	if q.City != nil && !strings.EqualFold(l.City, *q.City) {
		return false
	}
	if q.PropertyType != nil && string(l.PropertyType) != *q.PropertyType {
		return false
	}
	if q.Status != nil && string(l.Status) != *q.Status {
		return false
	}
	if q.MinPrice != nil && l.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && l.Price > *q.MaxPrice {
		return false
	}
	if q.MinBedrooms != nil && (l.Bedrooms == nil || *l.Bedrooms < *q.MinBedrooms) {
		return false
	}
	return true
}

func sortListings(ls []domain.Listing, orderBy string) {
	switch orderBy {
	case "price":
		sort.Slice(ls, func(i, j int) bool {
			if ls[i].Price == ls[j].Price {
				return ls[i].ID < ls[j].ID
			}
			return ls[i].Price < ls[j].Price
		})
	case "created_at":
		sort.Slice(ls, func(i, j int) bool {
			if ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
				return ls[i].ID < ls[j].ID
			}
			return ls[i].CreatedAt.After(ls[j].CreatedAt)
		})
	default:
		sort.Slice(ls, func(i, j int) bool {
			if ls[i].UpdatedAt.Equal(ls[j].UpdatedAt) {
				return ls[i].ID < ls[j].ID
			}
			return ls[i].UpdatedAt.After(ls[j].UpdatedAt)
		})
	}
}
