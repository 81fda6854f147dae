package categorizer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultOllamaHost is the address of a locally running Ollama server.
const DefaultOllamaHost = "http://localhost:11434"

const (
	ollamaTimeout     = 60 * time.Second
	ollamaTemperature = 0.1
)

// OllamaCategorizer categorizes memories with a model served by a local Ollama
// instance using its JSON output mode. It never returns an error: every failure
// is logged and yields an empty result.
type OllamaCategorizer struct {
	llmBase
	host   string
	prompt string
	client *http.Client
}

// NewOllamaCategorizer creates a categorizer for the Ollama server at host.
// The model must already be pulled (e.g., "phi3:mini").
func NewOllamaCategorizer(host, model, prompt string, opts ...Option) *OllamaCategorizer {
	if host == "" {
		host = DefaultOllamaHost
	}
	return &OllamaCategorizer{
		llmBase: newLLMBase(ProviderOllama, model, opts),
		host:    strings.TrimRight(host, "/"),
		prompt:  promptOrDefault(prompt),
		client:  &http.Client{Timeout: ollamaTimeout},
	}
}

func (c *OllamaCategorizer) Categorize(ctx context.Context, memory string) ([]string, error) {
	content, err := c.chat(ctx, memory)
	if err != nil {
		c.logEntry().Errorf("Failed to get categories from Ollama: %v", err)
		return []string{}, nil
	}
	c.logEntry().Debugf("Raw response: %s", content)
	return parseOrEmpty(c.logEntry(), content), nil
}

func (c *OllamaCategorizer) chat(ctx context.Context, memory string) (string, error) {
	reqBody := ollamaChatRequest{
		Model: c.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: ollamaSystemMessage},
			{Role: "user", Content: userPromptWithFormat(c.prompt, memory)},
		},
		Format:  "json",
		Stream:  false,
		Options: map[string]any{"temperature": ollamaTemperature},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama chat %d: %s", resp.StatusCode, string(body[:min(len(body), 200)]))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	c.recordUsage(ctx, chatResp.PromptEvalCount, chatResp.EvalCount)
	return chatResp.Message.Content, nil
}

var _ Categorizer = (*OllamaCategorizer)(nil)

// --- Ollama chat API types ---

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Format   string          `json:"format"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message         ollamaMessage `json:"message"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}
