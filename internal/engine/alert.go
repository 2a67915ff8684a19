package engine

import (
	"context"
	"fmt"

	"github.com/homescout/homescout/internal/metrics"
	"github.com/homescout/homescout/internal/notify"
	"github.com/homescout/homescout/pkg/matchscore"
	domain "github.com/homescout/homescout/pkg/types"
)

// ProcessAlerts sends notifications for pending alerts, then marks them as
// notified. Alerts are grouped by saved search; a search at or above the
// batch threshold gets one digest instead of individual messages. Failed
// sends leave their alerts pending for the next cycle.
func (eng *Engine) ProcessAlerts(ctx context.Context) error {
	pending, err := eng.store.ListPendingAlerts(ctx)
	if err != nil {
		return fmt.Errorf("listing pending alerts: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	for searchID, alerts := range groupBySearch(pending) {
		sr, err := eng.store.GetSavedSearch(ctx, searchID)
		if err != nil {
			continue // search may have been deleted
		}

		if err := eng.sendAlerts(ctx, sr, alerts); err != nil {
			eng.log.Error("sending alerts failed", "search", sr.Name, "error", err)
			metrics.NotificationFailuresTotal.Inc()
			continue
		}
	}

	return nil
}

func groupBySearch(alerts []domain.Alert) map[string][]domain.Alert {
	grouped := make(map[string][]domain.Alert)
	for _, a := range alerts {
		grouped[a.SavedSearchID] = append(grouped[a.SavedSearchID], a)
	}
	return grouped
}

func (eng *Engine) sendAlerts(
	ctx context.Context,
	sr *domain.SavedSearch,
	alerts []domain.Alert,
) error {
	if len(alerts) >= eng.batchThreshold {
		return eng.sendDigest(ctx, sr, alerts)
	}

	for i := range alerts {
		if err := eng.sendSingle(ctx, sr, &alerts[i]); err != nil {
			return err
		}
	}

	return nil
}

func (eng *Engine) sendSingle(
	ctx context.Context,
	sr *domain.SavedSearch,
	alert *domain.Alert,
) error {
	payload, err := eng.buildAlertPayload(ctx, sr, alert)
	if err != nil {
		return err
	}

	if err := eng.notifier.SendAlert(ctx, payload); err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}

	metrics.AlertsFiredTotal.Inc()

	return eng.store.MarkAlertNotified(ctx, alert.ID)
}

func (eng *Engine) sendDigest(
	ctx context.Context,
	sr *domain.SavedSearch,
	alerts []domain.Alert,
) error {
	payloads := make([]notify.AlertPayload, 0, len(alerts))
	alertIDs := make([]string, 0, len(alerts))

	for i := range alerts {
		p, err := eng.buildAlertPayload(ctx, sr, &alerts[i])
		if err != nil {
			continue // listings may have been removed
		}
		payloads = append(payloads, *p)
		alertIDs = append(alertIDs, alerts[i].ID)
	}

	if len(payloads) == 0 {
		return nil
	}

	if err := eng.notifier.SendDigest(ctx, sr.Name, payloads); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}

	metrics.AlertsFiredTotal.Add(float64(len(alertIDs)))

	return eng.store.MarkAlertsNotified(ctx, alertIDs)
}

func (eng *Engine) buildAlertPayload(
	ctx context.Context,
	sr *domain.SavedSearch,
	alert *domain.Alert,
) (*notify.AlertPayload, error) {
	prefs := preferencesFromCriteria(&sr.Criteria)

	summaries := make([]notify.ListingSummary, 0, len(alert.NewListingIDs))
	for _, id := range alert.NewListingIDs {
		l, err := eng.store.GetListing(ctx, id)
		if err != nil {
			continue // listing may have been removed since the alert
		}

		breakdown := matchscore.Score(l, prefs, eng.matchCfg)
		metrics.MatchScoreDistribution.Observe(float64(breakdown.Total))

		summaries = append(summaries, notify.ListingSummary{
			Title:      l.Title,
			Address:    l.Address,
			City:       l.City,
			Price:      l.Price,
			Bedrooms:   l.Bedrooms,
			Bathrooms:  l.Bathrooms,
			PhotoURL:   l.PhotoURL,
			MatchScore: breakdown.Total,
		})
	}

	if len(summaries) == 0 {
		return nil, fmt.Errorf("alert %s has no surviving listings", alert.ID)
	}

	return &notify.AlertPayload{
		SearchName: sr.Name,
		BuyerID:    sr.BuyerID,
		Listings:   summaries,
	}, nil
}

// preferencesFromCriteria treats a search's hard filter as soft preferences
// so new matches can be ranked in the notification.
func preferencesFromCriteria(c *domain.SearchCriteria) *domain.BuyerPreferences {
	return &domain.BuyerPreferences{
		MinPrice:         c.MinPrice,
		MaxPrice:         c.MaxPrice,
		MinBedrooms:      c.MinBedrooms,
		MinBathrooms:     c.MinBathrooms,
		Cities:           c.Cities,
		MustHaveFeatures: c.Features,
	}
}
