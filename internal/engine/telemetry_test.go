package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/homescout/homescout/pkg/types"
)

func buyerEvent(session string, duration int, images []int, ts time.Time) domain.ViewEvent {
	return domain.ViewEvent{
		ListingID:      "l1",
		BuyerSessionID: &session,
		ViewerType:     domain.ViewerBuyer,
		ViewDuration:   duration,
		ImagesViewed:   images,
		Timestamp:      ts,
	}
}

func anonEvent(duration int, ts time.Time) domain.ViewEvent {
	return domain.ViewEvent{
		ListingID:    "l1",
		ViewerType:   domain.ViewerAnonymous,
		ViewDuration: duration,
		Timestamp:    ts,
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.Equal(t, domain.ViewSummary{}, s)
	assert.Nil(t, s.LastViewed)
}

func TestSummarize_Aggregates(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.ViewEvent{
		buyerEvent("s1", 120, []int{0, 1, 2}, base),
		buyerEvent("s1", 60, []int{0}, base.Add(time.Hour)),
		buyerEvent("s2", 30, nil, base.Add(2*time.Hour)),
	}

	s := Summarize(events)
	assert.Equal(t, 3, s.ViewCount)
	assert.Equal(t, 2, s.UniqueViewers)
	assert.Equal(t, 210, s.TotalTime)
	assert.InDelta(t, 70.0, s.AvgDuration, 0.001)
	assert.InDelta(t, 4.0/3.0, s.AvgImagesViewed, 0.001)
	require.NotNil(t, s.LastViewed)
	assert.Equal(t, base.Add(2*time.Hour), *s.LastViewed)
}

func TestSummarize_AnonymousCountsViewsNotViewers(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := []domain.ViewEvent{
		anonEvent(45, now),
		anonEvent(15, now),
		buyerEvent("s1", 60, nil, now),
	}

	s := Summarize(events)
	assert.Equal(t, 3, s.ViewCount)
	assert.Equal(t, 1, s.UniqueViewers)
	assert.Equal(t, 120, s.TotalTime)
}

func TestSummarize_OnlyAnonymous(t *testing.T) {
	t.Parallel()

	s := Summarize([]domain.ViewEvent{anonEvent(10, time.Now())})
	assert.Equal(t, 1, s.ViewCount)
	assert.Zero(t, s.UniqueViewers)
}

func TestSummarizeWindow(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.ViewEvent{
		buyerEvent("s1", 100, nil, base.Add(-48*time.Hour)),
		buyerEvent("s1", 50, nil, base),
		buyerEvent("s2", 25, nil, base.Add(time.Hour)),
	}

	s := SummarizeWindow(events, base)
	assert.Equal(t, 2, s.ViewCount)
	assert.Equal(t, 75, s.TotalTime)

	// Boundary event (exactly at since) is included.
	s = SummarizeWindow(events, base.Add(time.Hour))
	assert.Equal(t, 1, s.ViewCount)
}

func TestSummarizeWindow_AllOutside(t *testing.T) {
	t.Parallel()

	events := []domain.ViewEvent{
		buyerEvent("s1", 100, nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	s := SummarizeWindow(events, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, domain.ViewSummary{}, s)
}

func TestFilterByBuyer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := []domain.ViewEvent{
		buyerEvent("s1", 10, nil, now),
		anonEvent(20, now),
		buyerEvent("s2", 30, nil, now),
		buyerEvent("s1", 40, nil, now),
	}

	got := FilterByBuyer(events, "s1")
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].ViewDuration)
	assert.Equal(t, 40, got[1].ViewDuration)

	assert.Nil(t, FilterByBuyer(events, "nobody"))
}
