// Package metrics defines Prometheus metrics for HomeScout.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "homescout"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Match cycle metrics.
var (
	MatchCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_cycle_duration_seconds",
		Help:      "Duration of saved-search match cycles in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	SearchesEvaluatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_evaluated_total",
		Help:      "Total number of saved searches evaluated.",
	})

	SearchesSkippedLockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_skipped_locked_total",
		Help:      "Saved searches skipped because another run held their lock.",
	})

	MatchCycleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_cycle_errors_total",
		Help:      "Total number of per-search errors during match cycles.",
	})
)

// Alert metrics.
var (
	AlertsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_created_total",
		Help:      "Total number of alerts created by the diff engine.",
	})

	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of alert notifications sent.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)

// Scoring metrics.
var (
	MatchScoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_score_distribution",
		Help:      "Distribution of computed match scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11), // 0, 10, 20, ..., 100
	})

	EngagementScoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "engagement_score_distribution",
		Help:      "Distribution of computed engagement scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	HotLeads = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hot_leads",
		Help:      "Buyer/listing pairs whose engagement score exceeded the hot-lead threshold in the last refresh.",
	})
)

// Scheduler metrics.
var (
	SchedulerNextMatchTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_match_run_timestamp_seconds",
		Help:      "Unix timestamp of the next scheduled match cycle.",
	})

	SchedulerNextEngagementTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_engagement_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the next scheduled engagement refresh.",
	})
)
