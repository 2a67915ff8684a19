package engine

import (
	"time"

	domain "github.com/homescout/homescout/pkg/types"
)

// Summarize aggregates view events into a ViewSummary. Every event counts
// toward ViewCount and TotalTime; UniqueViewers counts distinct buyer
// sessions only, so anonymous and agent views never inflate it. An empty
// input yields the zero summary.
func Summarize(events []domain.ViewEvent) domain.ViewSummary {
	var s domain.ViewSummary
	if len(events) == 0 {
		return s
	}

	sessions := make(map[string]bool)
	var totalImages int
	var last time.Time

	for i := range events {
		e := &events[i]

		s.ViewCount++
		s.TotalTime += e.ViewDuration
		totalImages += len(e.ImagesViewed)

		if e.BuyerSessionID != nil && *e.BuyerSessionID != "" {
			sessions[*e.BuyerSessionID] = true
		}
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}

	s.UniqueViewers = len(sessions)
	s.AvgDuration = float64(s.TotalTime) / float64(s.ViewCount)
	s.AvgImagesViewed = float64(totalImages) / float64(s.ViewCount)
	if !last.IsZero() {
		s.LastViewed = &last
	}

	return s
}

// SummarizeWindow aggregates only the events at or after since.
func SummarizeWindow(events []domain.ViewEvent, since time.Time) domain.ViewSummary {
	var windowed []domain.ViewEvent
	for i := range events {
		if !events[i].Timestamp.Before(since) {
			windowed = append(windowed, events[i])
		}
	}
	return Summarize(windowed)
}

// FilterByBuyer returns the events generated by one buyer session,
// preserving order.
func FilterByBuyer(events []domain.ViewEvent, buyerSessionID string) []domain.ViewEvent {
	var out []domain.ViewEvent
	for i := range events {
		if events[i].BuyerSessionID != nil && *events[i].BuyerSessionID == buyerSessionID {
			out = append(out, events[i])
		}
	}
	return out
}
