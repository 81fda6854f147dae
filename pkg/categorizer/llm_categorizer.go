package categorizer

import (
	"context"

	"memcat/internal/costtracker"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// ChatCompletionClient is the subset of *openai.Client used by the OpenAI-protocol backends.
type ChatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Option configures the logging and cost tracking shared by every backend.
type Option func(*llmBase)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger log.FieldLogger) Option {
	return func(b *llmBase) { b.logger = logger }
}

// WithCostTracker records token usage of successful calls.
func WithCostTracker(tracker costtracker.CostTracker) Option {
	return func(b *llmBase) { b.tracker = tracker }
}

type llmBase struct {
	provider Provider
	model    string
	logger   log.FieldLogger
	tracker  costtracker.CostTracker
}

func newLLMBase(provider Provider, model string, opts []Option) llmBase {
	b := llmBase{
		provider: provider,
		model:    model,
		logger:   log.StandardLogger(),
		tracker:  costtracker.New(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *llmBase) logEntry() log.FieldLogger {
	return b.logger.WithFields(log.Fields{"provider": b.provider, "model": b.model})
}

func (b *llmBase) recordUsage(ctx context.Context, inputTokens, outputTokens int) {
	if b.tracker == nil || inputTokens+outputTokens == 0 {
		return
	}
	event := costtracker.CostEvent{
		Operation:    "categorization",
		Provider:     string(b.provider),
		Model:        b.model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	if err := b.tracker.RecordCost(ctx, event); err != nil {
		b.logEntry().Errorf("Failed to record AI usage for categorization: %v", err)
	}
}
