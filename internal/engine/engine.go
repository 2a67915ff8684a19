// Package engine orchestrates saved-search matching, alert generation, and
// engagement scoring over the listing inventory.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homescout/homescout/internal/metrics"
	"github.com/homescout/homescout/internal/notify"
	"github.com/homescout/homescout/internal/store"
	"github.com/homescout/homescout/pkg/engagement"
	"github.com/homescout/homescout/pkg/matchscore"
	domain "github.com/homescout/homescout/pkg/types"
)

const (
	defaultBatchThreshold   = 5
	defaultHotLeadThreshold = 70
	defaultLockTTL          = 5 * time.Minute
)

// Engine orchestrates matching, alerting, and engagement scoring.
type Engine struct {
	store    store.Store
	notifier notify.Notifier
	log      *slog.Logger

	matchCfg         matchscore.Config
	engagementCfg    engagement.Config
	batchThreshold   int
	hotLeadThreshold int
	staggerOffset    time.Duration
	lockTTL          time.Duration

	// holder identifies this process in distributed locks.
	holder string
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(s store.Store, n notify.Notifier, opts ...EngineOption) *Engine {
	eng := &Engine{
		store:            s,
		notifier:         n,
		log:              slog.Default(),
		matchCfg:         matchscore.DefaultConfig(),
		engagementCfg:    engagement.DefaultConfig(),
		batchThreshold:   defaultBatchThreshold,
		hotLeadThreshold: defaultHotLeadThreshold,
		lockTTL:          defaultLockTTL,
		holder:           uuid.NewString(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMatchConfig sets the match scoring configuration.
func WithMatchConfig(cfg matchscore.Config) EngineOption {
	return func(e *Engine) {
		e.matchCfg = cfg
	}
}

// WithEngagementConfig sets the engagement scoring configuration.
func WithEngagementConfig(cfg engagement.Config) EngineOption {
	return func(e *Engine) {
		e.engagementCfg = cfg
	}
}

// WithBatchThreshold sets the pending-alert count per search above which a
// digest is sent instead of individual notifications.
func WithBatchThreshold(n int) EngineOption {
	return func(e *Engine) {
		e.batchThreshold = n
	}
}

// WithHotLeadThreshold sets the engagement score above which a buyer/listing
// pair counts as a hot lead.
func WithHotLeadThreshold(n int) EngineOption {
	return func(e *Engine) {
		e.hotLeadThreshold = n
	}
}

// WithStaggerOffset sets the delay between evaluating each saved search.
func WithStaggerOffset(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// WithLockTTL sets how long per-search and job locks are held before expiring.
func WithLockTTL(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.lockTTL = d
	}
}

// MatchConfig returns the active match scoring configuration.
func (eng *Engine) MatchConfig() matchscore.Config {
	return eng.matchCfg
}

// EngagementConfig returns the active engagement scoring configuration.
func (eng *Engine) EngagementConfig() engagement.Config {
	return eng.engagementCfg
}

// RunMatchCycle evaluates every enabled saved search against the active
// inventory, creating alerts for newly matching listings, then dispatches
// pending notifications. Searches locked by another run are skipped.
func (eng *Engine) RunMatchCycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.MatchCycleDuration.Observe(time.Since(start).Seconds())
	}()

	searches, err := eng.store.ListSavedSearches(ctx, true)
	if err != nil {
		return fmt.Errorf("listing saved searches: %w", err)
	}

	active, err := eng.store.ListActiveListings(ctx)
	if err != nil {
		return fmt.Errorf("listing active inventory: %w", err)
	}

	for i := range searches {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sr := &searches[i]
		if _, err := eng.evaluateSearchLocked(ctx, sr, active); err != nil {
			eng.log.Error("search evaluation failed", "search", sr.Name, "error", err)
			metrics.MatchCycleErrorsTotal.Inc()
		}

		// Stagger between searches to spread database load.
		if i < len(searches)-1 && eng.staggerOffset > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(eng.staggerOffset):
			}
		}
	}

	// Always dispatch pending alerts, including ones left over from a
	// previous failed cycle.
	if err := eng.ProcessAlerts(ctx); err != nil {
		eng.log.Error("alert processing failed", "error", err)
	}

	return nil
}

// evaluateSearchLocked serializes evaluation per search via a store lock so
// concurrent runs cannot double-alert. It returns the created alert, or nil
// when there is nothing new.
func (eng *Engine) evaluateSearchLocked(
	ctx context.Context,
	sr *domain.SavedSearch,
	active []domain.Listing,
) (*domain.Alert, error) {
	lockName := "search:" + sr.ID
	ok, err := eng.store.AcquireLock(ctx, lockName, eng.holder, eng.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring search lock: %w", err)
	}
	if !ok {
		eng.log.Debug("search locked by another run, skipping", "search", sr.Name)
		metrics.SearchesSkippedLockedTotal.Inc()
		return nil, nil
	}
	defer func() {
		if err := eng.store.ReleaseLock(ctx, lockName, eng.holder); err != nil {
			eng.log.Warn("releasing search lock failed", "search", sr.Name, "error", err)
		}
	}()

	return eng.evaluateSearch(ctx, sr, active)
}

// evaluateSearch performs one read-diff-write pass for a saved search.
func (eng *Engine) evaluateSearch(
	ctx context.Context,
	sr *domain.SavedSearch,
	active []domain.Listing,
) (*domain.Alert, error) {
	metrics.SearchesEvaluatedTotal.Inc()

	matched := MatchListings(&sr.Criteria, active)

	alerted, err := eng.store.ListAlertedListingIDs(ctx, sr.ID)
	if err != nil {
		return nil, fmt.Errorf("listing alerted ids: %w", err)
	}

	now := time.Now()
	newIDs := Diff(matched, alerted)
	if len(newIDs) == 0 {
		// Nothing new: touch last_run_at and stop, no empty alerts.
		if err := eng.store.UpdateSearchLastRun(ctx, sr.ID, now); err != nil {
			return nil, fmt.Errorf("updating last run: %w", err)
		}
		return nil, nil
	}

	alert := &domain.Alert{
		SavedSearchID: sr.ID,
		NewListingIDs: newIDs,
	}
	if err := eng.store.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("creating alert: %w", err)
	}
	metrics.AlertsCreatedTotal.Inc()

	eng.log.Info("alert created",
		"search", sr.Name,
		"new_listings", len(newIDs),
	)

	if err := eng.store.UpdateSearchLastRun(ctx, sr.ID, now); err != nil {
		return nil, fmt.Errorf("updating last run: %w", err)
	}

	return alert, nil
}

// MatchSearch returns the active listings currently matching a saved search.
// It is a pure read: no alerts are created and last_run_at is untouched.
func (eng *Engine) MatchSearch(ctx context.Context, searchID string) ([]domain.Listing, error) {
	sr, err := eng.store.GetSavedSearch(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("getting saved search: %w", err)
	}

	active, err := eng.store.ListActiveListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active inventory: %w", err)
	}

	return MatchListings(&sr.Criteria, active), nil
}

// RunSearch evaluates one saved search immediately, creating an alert for
// newly matching listings. It returns nil when nothing new matched.
func (eng *Engine) RunSearch(ctx context.Context, searchID string) (*domain.Alert, error) {
	sr, err := eng.store.GetSavedSearch(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("getting saved search: %w", err)
	}

	active, err := eng.store.ListActiveListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active inventory: %w", err)
	}

	return eng.evaluateSearchLocked(ctx, sr, active)
}

// ListingViewSummary aggregates a listing's view telemetry. A nil window
// covers the full history.
func (eng *Engine) ListingViewSummary(
	ctx context.Context,
	listingID string,
	window *time.Duration,
) (domain.ViewSummary, error) {
	var since *time.Time
	if window != nil {
		t := time.Now().Add(-*window)
		since = &t
	}

	events, err := eng.store.ListViewEventsByListing(ctx, listingID, since)
	if err != nil {
		return domain.ViewSummary{}, fmt.Errorf("listing view events: %w", err)
	}

	return Summarize(events), nil
}

// BuyerEngagement computes the engagement score of one buyer session on one
// listing from its full event history.
func (eng *Engine) BuyerEngagement(
	ctx context.Context,
	buyerSessionID, listingID string,
) (int, domain.ViewSummary, error) {
	events, err := eng.store.ListViewEventsByBuyerListing(ctx, buyerSessionID, listingID, nil)
	if err != nil {
		return 0, domain.ViewSummary{}, fmt.Errorf("listing buyer view events: %w", err)
	}

	summary := Summarize(events)
	score := engagement.Score(summary, time.Now(), eng.engagementCfg)
	metrics.EngagementScoreDistribution.Observe(float64(score))

	return score, summary, nil
}

// RunEngagementRefresh recomputes engagement for every buyer/listing pair
// active inside the recency window and publishes the hot-lead count.
func (eng *Engine) RunEngagementRefresh(ctx context.Context) error {
	now := time.Now()
	since := now.Add(-eng.engagementCfg.RecencyWindow)

	pairs, err := eng.store.ListBuyerListingPairs(ctx, since)
	if err != nil {
		return fmt.Errorf("listing buyer listing pairs: %w", err)
	}

	var hot int
	for _, p := range pairs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		events, err := eng.store.ListViewEventsByBuyerListing(ctx, p.BuyerSessionID, p.ListingID, nil)
		if err != nil {
			eng.log.Error("loading events failed",
				"buyer", p.BuyerSessionID, "listing", p.ListingID, "error", err)
			continue
		}

		score := engagement.Score(Summarize(events), now, eng.engagementCfg)
		metrics.EngagementScoreDistribution.Observe(float64(score))

		if score >= eng.hotLeadThreshold {
			hot++
			eng.log.Info("hot lead",
				"buyer", p.BuyerSessionID,
				"listing", p.ListingID,
				"score", score,
			)
		}
	}

	metrics.HotLeads.Set(float64(hot))
	eng.log.Info("engagement refresh complete", "pairs", len(pairs), "hot_leads", hot)

	return nil
}
