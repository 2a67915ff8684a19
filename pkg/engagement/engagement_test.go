package engagement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/homescout/homescout/pkg/types"
)

func tptr(t time.Time) *time.Time { return &t }

func TestScore_ZeroSummaryIsZero(t *testing.T) {
	t.Parallel()

	got := Score(domain.ViewSummary{}, time.Now(), DefaultConfig())
	assert.Equal(t, 0, got)
}

func TestScore_FullCredit(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := domain.ViewSummary{
		ViewCount:  10,
		TotalTime:  300, // 5 minutes
		LastViewed: tptr(now.Add(-time.Hour)),
	}

	assert.Equal(t, 100, Score(s, now, DefaultConfig()))
}

func TestScore_TimeCeilingCapsContribution(t *testing.T) {
	t.Parallel()

	now := time.Now()
	atCeiling := domain.ViewSummary{
		ViewCount:  1,
		TotalTime:  300,
		LastViewed: tptr(now),
	}
	wayPast := domain.ViewSummary{
		ViewCount:  1,
		TotalTime:  30000,
		LastViewed: tptr(now),
	}

	cfg := DefaultConfig()
	assert.Equal(t, Score(atCeiling, now, cfg), Score(wayPast, now, cfg))
}

func TestScore_MonotoneInTimeAndViews(t *testing.T) {
	t.Parallel()

	now := time.Now()
	last := tptr(now.Add(-24 * time.Hour))
	cfg := DefaultConfig()

	prev := 0
	for i := 1; i <= 12; i++ {
		s := domain.ViewSummary{
			ViewCount:  i,
			TotalTime:  i * 25,
			LastViewed: last,
		}
		cur := Score(s, now, cfg)
		assert.GreaterOrEqual(t, cur, prev, "views=%d", i)
		prev = cur
	}
}

func TestScore_DominatingSummaryScoresAtLeastAsHigh(t *testing.T) {
	t.Parallel()

	now := time.Now()
	last := tptr(now.Add(-2 * time.Hour))
	cfg := DefaultConfig()

	a := domain.ViewSummary{ViewCount: 2, TotalTime: 60, LastViewed: last}
	b := domain.ViewSummary{ViewCount: 5, TotalTime: 180, LastViewed: last}

	assert.LessOrEqual(t, Score(a, now, cfg), Score(b, now, cfg))
}

func TestScore_StaleActivityIsDiscounted(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cfg := DefaultConfig()

	fresh := domain.ViewSummary{
		ViewCount:  5,
		TotalTime:  120,
		LastViewed: tptr(now.Add(-time.Hour)),
	}
	stale := fresh
	stale.LastViewed = tptr(now.Add(-60 * 24 * time.Hour))

	freshScore := Score(fresh, now, cfg)
	staleScore := Score(stale, now, cfg)

	assert.Less(t, staleScore, freshScore)
	assert.Equal(t, int(float64(freshScore)*cfg.StaleFactor+0.5), staleScore)
}

func TestScore_Bounded(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := domain.ViewSummary{
		ViewCount:  1000000,
		TotalTime:  1 << 30,
		LastViewed: tptr(now),
	}

	got := Score(s, now, DefaultConfig())
	assert.Equal(t, 100, got)
}
