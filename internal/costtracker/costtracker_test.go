package costtracker

import (
	"context"
	"testing"

	"memcat/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusTracker_RecordCost(t *testing.T) {
	reg := prometheus.NewRegistry()
	tracker := NewPrometheusTracker(reg, map[string]map[string]config.PricingInfo{
		"openai": {"gpt-4o-mini": {InputPerToken: 0.001, OutputPerToken: 0.002}},
	})
	ctx := context.Background()

	require.NoError(t, tracker.RecordCost(ctx, CostEvent{
		Operation: "categorization", Provider: "openai", Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 10,
	}))
	require.NoError(t, tracker.RecordCost(ctx, CostEvent{
		Operation: "categorization", Provider: "openai", Model: "gpt-4o-mini", InputTokens: 50, OutputTokens: 5,
	}))

	assert.InDelta(t, 150, testutil.ToFloat64(tracker.tokens.WithLabelValues("categorization", "openai", "gpt-4o-mini", "input")), 1e-9)
	assert.InDelta(t, 15, testutil.ToFloat64(tracker.tokens.WithLabelValues("categorization", "openai", "gpt-4o-mini", "output")), 1e-9)
	assert.InDelta(t, 0.18, testutil.ToFloat64(tracker.cost.WithLabelValues("categorization", "openai", "gpt-4o-mini")), 1e-9)

	total, err := tracker.TotalCost(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.18, total, 1e-9)
}

func TestPrometheusTracker_UnpricedModelCountsTokensOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	tracker := NewPrometheusTracker(reg, nil)

	require.NoError(t, tracker.RecordCost(context.Background(), CostEvent{
		Operation: "categorization", Provider: "ollama", Model: "phi3:mini", InputTokens: 42, OutputTokens: 7,
	}))

	assert.InDelta(t, 42, testutil.ToFloat64(tracker.tokens.WithLabelValues("categorization", "ollama", "phi3:mini", "input")), 1e-9)
	assert.Equal(t, 0, testutil.CollectAndCount(tracker.cost))

	total, err := tracker.TotalCost(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNoopTracker(t *testing.T) {
	tracker := New()
	require.NoError(t, tracker.RecordCost(context.Background(), CostEvent{InputTokens: 1}))
	total, err := tracker.TotalCost(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}
