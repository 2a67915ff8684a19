package metrics

import (
	"testing"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_Increment(t *testing.T) {
	before := ptestutil.ToFloat64(AlertsCreatedTotal)
	AlertsCreatedTotal.Inc()
	assert.Equal(t, before+1, ptestutil.ToFloat64(AlertsCreatedTotal))
}

func TestGauges_Set(t *testing.T) {
	HotLeads.Set(7)
	assert.Equal(t, 7.0, ptestutil.ToFloat64(HotLeads))

	HealthzUp.Set(1)
	assert.Equal(t, 1.0, ptestutil.ToFloat64(HealthzUp))
}

func TestHTTPRequestsTotal_Labels(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/listings", "200").Inc()

	m := &dto.Metric{}
	c, err := HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/api/v1/listings", "200")
	require.NoError(t, err)
	require.NoError(t, c.Write(m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), 1.0)
}

func TestMatchScoreDistribution_Observe(t *testing.T) {
	assert.NotPanics(t, func() {
		MatchScoreDistribution.Observe(85)
		EngagementScoreDistribution.Observe(40)
		MatchCycleDuration.Observe(0.2)
	})
}
