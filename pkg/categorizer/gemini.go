package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerativeModel is the subset of *genai.GenerativeModel used for categorization.
type GenerativeModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiCategorizer uses Gemini's response schema support, so it follows the
// primary provider's policy: every failure is returned for retry.
type GeminiCategorizer struct {
	llmBase
	model  GenerativeModel
	client *genai.Client
}

// categoriesSchema mirrors categoriesPayload for Gemini's structured output.
var categoriesSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"categories": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"categories"},
}

// NewGeminiCategorizer wraps an already configured model. See ConfigureGeminiModel.
func NewGeminiCategorizer(model GenerativeModel, modelName string, opts ...Option) *GeminiCategorizer {
	return &GeminiCategorizer{
		llmBase: newLLMBase(ProviderGemini, modelName, opts),
		model:   model,
	}
}

// DialGeminiCategorizer creates a Gemini API client for apiKey and a categorizer
// on top of it. Close releases the client.
func DialGeminiCategorizer(ctx context.Context, apiKey, modelName, prompt string, opts ...Option) (*GeminiCategorizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	ConfigureGeminiModel(model, prompt)

	c := NewGeminiCategorizer(model, modelName, opts...)
	c.client = client
	return c, nil
}

// ConfigureGeminiModel sets the system prompt, response schema and temperature on m.
func ConfigureGeminiModel(m *genai.GenerativeModel, prompt string) {
	m.SystemInstruction = genai.NewUserContent(genai.Text(promptOrDefault(prompt)))
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = categoriesSchema
	m.SetTemperature(0)
}

func (c *GeminiCategorizer) Categorize(ctx context.Context, memory string) ([]string, error) {
	categories, raw, err := c.categorize(ctx, memory)
	if err != nil {
		c.logEntry().Errorf("Failed to get categories from Gemini: %v", err)
		if raw != "" {
			c.logEntry().Debugf("Raw response: %s", raw)
		}
		return nil, err
	}
	return categories, nil
}

func (c *GeminiCategorizer) categorize(ctx context.Context, memory string) ([]string, string, error) {
	if c.model == nil {
		return nil, "", errors.New("Gemini categorizer is not initialized with a model")
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(memory))
	if err != nil {
		return nil, "", fmt.Errorf("Gemini API error generating categories: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, "", fmt.Errorf("gemini: %w", ErrNoChoices)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	raw := sb.String()

	var payload categoriesPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, raw, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.UsageMetadata != nil {
		c.recordUsage(ctx, int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	}
	return normalize(payload.Categories), raw, nil
}

// Close cleans up the Gemini client resources.
func (c *GeminiCategorizer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

var _ Categorizer = (*GeminiCategorizer)(nil)
