package categorizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// zeroTemperature is the smallest temperature go-openai will serialize; a literal 0 is omitted from the request.
const zeroTemperature = math.SmallestNonzeroFloat32

// OpenAICategorizer asks the OpenAI API for a structured-output response that
// conforms to the categories schema. Every failure is returned to the caller.
type OpenAICategorizer struct {
	llmBase
	client ChatCompletionClient
	prompt string
}

// NewOpenAICategorizer creates the primary-provider categorizer.
func NewOpenAICategorizer(client ChatCompletionClient, model, prompt string, opts ...Option) *OpenAICategorizer {
	return &OpenAICategorizer{
		llmBase: newLLMBase(ProviderOpenAI, model, opts),
		client:  client,
		prompt:  promptOrDefault(prompt),
	}
}

func (c *OpenAICategorizer) Categorize(ctx context.Context, memory string) ([]string, error) {
	categories, raw, err := c.categorize(ctx, memory)
	if err != nil {
		c.logEntry().Errorf("Failed to get categories from OpenAI: %v", err)
		if raw != "" {
			c.logEntry().Debugf("Raw response: %s", raw)
		} else {
			c.logEntry().Debug("Could not extract raw response")
		}
		return nil, err
	}
	return categories, nil
}

// categorize returns the raw message content alongside any error so it can be logged.
func (c *OpenAICategorizer) categorize(ctx context.Context, memory string) ([]string, string, error) {
	if c.client == nil {
		return nil, "", errors.New("OpenAI categorizer is not initialized with a client")
	}

	var payload categoriesPayload
	schema, err := jsonschema.GenerateSchemaForType(payload)
	if err != nil {
		return nil, "", fmt.Errorf("generate categories schema: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.prompt},
			{Role: openai.ChatMessageRoleUser, Content: memory},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "memory_categories",
				Schema: schema,
				Strict: true,
			},
		},
		Temperature: zeroTemperature,
	})
	if err != nil {
		return nil, "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, "", fmt.Errorf("openai: %w", ErrNoChoices)
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, msg.Content, fmt.Errorf("openai refused to categorize: %s", msg.Refusal)
	}

	content := strings.TrimSpace(msg.Content)
	if err := schema.Unmarshal(content, &payload); err != nil {
		return nil, msg.Content, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	c.recordUsage(ctx, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return normalize(payload.Categories), msg.Content, nil
}

var _ Categorizer = (*OpenAICategorizer)(nil)
