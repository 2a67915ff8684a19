// Package engagement scores a buyer's behavioral interest in a listing on
// a 0-100 scale from aggregated view telemetry.
package engagement

import (
	"math"
	"time"

	domain "github.com/homescout/homescout/pkg/types"
)

// Config holds the tunable engagement parameters.
type Config struct {
	// TimeCeiling is the cumulative viewing time that earns full credit
	// on the time component.
	TimeCeiling time.Duration

	// FullCreditViews is the view count that earns full credit on the
	// frequency component.
	FullCreditViews int

	// RecencyWindow is how recent the last view must be for full weight;
	// older activity is multiplied by StaleFactor.
	RecencyWindow time.Duration

	// StaleFactor scales the score when the last view is outside the
	// recency window. Must be in [0, 1].
	StaleFactor float64

	// TimeWeight and FrequencyWeight split the 100 available points.
	TimeWeight      float64
	FrequencyWeight float64
}

// DefaultConfig returns the default engagement configuration: five minutes
// of viewing or ten views for full component credit, a 30-day recency
// window, and stale activity at half weight.
func DefaultConfig() Config {
	return Config{
		TimeCeiling:     5 * time.Minute,
		FullCreditViews: 10,
		RecencyWindow:   30 * 24 * time.Hour,
		StaleFactor:     0.5,
		TimeWeight:      60,
		FrequencyWeight: 40,
	}
}

// Score computes the engagement score for a view summary at the given
// reference time. An all-zero summary scores 0; the score is monotonically
// non-decreasing in TotalTime and ViewCount at fixed recency.
func Score(s domain.ViewSummary, now time.Time, cfg Config) int {
	if s.ViewCount == 0 && s.TotalTime == 0 {
		return 0
	}

	timePart := cfg.TimeWeight * saturate(float64(s.TotalTime), cfg.TimeCeiling.Seconds())
	freqPart := cfg.FrequencyWeight * saturate(float64(s.ViewCount), float64(cfg.FullCreditViews))

	score := timePart + freqPart

	if isStale(s.LastViewed, now, cfg.RecencyWindow) {
		score *= clampFactor(cfg.StaleFactor)
	}

	total := int(math.Round(score))
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total
}

// saturate maps v linearly onto [0, 1], reaching 1 at ceiling.
func saturate(v, ceiling float64) float64 {
	if ceiling <= 0 {
		return 1
	}
	if v <= 0 {
		return 0
	}
	return math.Min(v/ceiling, 1)
}

func isStale(lastViewed *time.Time, now time.Time, window time.Duration) bool {
	if lastViewed == nil {
		return true
	}
	if window <= 0 {
		return false
	}
	return now.Sub(*lastViewed) > window
}

func clampFactor(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
