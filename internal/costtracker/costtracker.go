package costtracker

import (
	"context"
	"sync"

	"memcat/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// CostEvent represents a single AI usage event.
type CostEvent struct {
	Operation    string // e.g., "categorization"
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
	TotalCost(ctx context.Context) (float64, error)
}

// New returns a tracker that discards every event.
func New() CostTracker {
	return &noopCostTracker{}
}

type noopCostTracker struct{}

func (n *noopCostTracker) RecordCost(ctx context.Context, event CostEvent) error { return nil }
func (n *noopCostTracker) TotalCost(ctx context.Context) (float64, error)        { return 0, nil }

// PrometheusTracker counts tokens and spend per provider and model.
// Spend is computed from the configured pricing; models without pricing only count tokens.
type PrometheusTracker struct {
	pricing map[string]map[string]config.PricingInfo

	tokens *prometheus.CounterVec
	cost   *prometheus.CounterVec

	mu    sync.Mutex
	total float64
}

// NewPrometheusTracker registers the usage counters on reg.
func NewPrometheusTracker(reg prometheus.Registerer, pricing map[string]map[string]config.PricingInfo) *PrometheusTracker {
	factory := promauto.With(reg)
	return &PrometheusTracker{
		pricing: pricing,
		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memcat",
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by LLM calls, by provider, model and direction.",
		}, []string{"operation", "provider", "model", "direction"}),
		cost: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memcat",
			Name:      "llm_cost_usd_total",
			Help:      "Estimated spend on LLM calls in USD.",
		}, []string{"operation", "provider", "model"}),
	}
}

func (t *PrometheusTracker) RecordCost(ctx context.Context, event CostEvent) error {
	t.tokens.WithLabelValues(event.Operation, event.Provider, event.Model, "input").Add(float64(event.InputTokens))
	t.tokens.WithLabelValues(event.Operation, event.Provider, event.Model, "output").Add(float64(event.OutputTokens))

	priceInfo, ok := t.pricing[event.Provider][event.Model]
	if !ok {
		log.Debugf("Pricing info not found for %s model '%s'. Recording tokens only.", event.Provider, event.Model)
		return nil
	}

	amount := float64(event.InputTokens)*priceInfo.InputPerToken +
		float64(event.OutputTokens)*priceInfo.OutputPerToken
	t.cost.WithLabelValues(event.Operation, event.Provider, event.Model).Add(amount)

	t.mu.Lock()
	t.total += amount
	t.mu.Unlock()

	log.Debugf("Recorded AI usage: Provider=%s, Operation=%s, Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
		event.Provider, event.Operation, event.Model, event.InputTokens, event.OutputTokens, amount)
	return nil
}

func (t *PrometheusTracker) TotalCost(ctx context.Context) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total, nil
}

var _ CostTracker = (*PrometheusTracker)(nil)
