package categorizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// CompatibleCategorizer targets an OpenAI-protocol-compatible endpoint (Z.AI by
// default) that has no structured-output support. The JSON shape is spelled out
// in the system prompt and the response is requested in json_object mode.
//
// Malformed or unexpectedly shaped JSON yields an empty result; transport and API
// failures are returned.
type CompatibleCategorizer struct {
	llmBase
	client ChatCompletionClient
	prompt string
}

// NewCompatibleClient builds a go-openai client pointed at baseURL.
func NewCompatibleClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return openai.NewClientWithConfig(cfg)
}

// NewCompatibleCategorizer creates a categorizer for an OpenAI-compatible endpoint.
func NewCompatibleCategorizer(client ChatCompletionClient, model, prompt string, opts ...Option) *CompatibleCategorizer {
	return &CompatibleCategorizer{
		llmBase: newLLMBase(ProviderZAI, model, opts),
		client:  client,
		prompt:  promptOrDefault(prompt),
	}
}

func (c *CompatibleCategorizer) Categorize(ctx context.Context, memory string) ([]string, error) {
	if c.client == nil {
		return nil, errors.New("compatible categorizer is not initialized with a client")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPromptWithFormat(c.prompt)},
			{Role: openai.ChatMessageRoleUser, Content: memory},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: zeroTemperature,
	})
	if err != nil {
		c.logEntry().Errorf("Failed to get categories from %s: %v", c.provider, err)
		return nil, fmt.Errorf("%s chat completion failed: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		c.logEntry().Errorf("Failed to get categories from %s: no choices", c.provider)
		return nil, fmt.Errorf("%s: %w", c.provider, ErrNoChoices)
	}

	content := resp.Choices[0].Message.Content
	c.logEntry().Debugf("Raw response: %s", content)
	c.recordUsage(ctx, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return parseOrEmpty(c.logEntry(), content), nil
}

var _ Categorizer = (*CompatibleCategorizer)(nil)
