package categorizer

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Provider selects the LLM backend used for categorization.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderZAI    Provider = "zai"
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// DefaultProvider is used when no selector is configured or the selector is unknown.
const DefaultProvider = ProviderOpenAI

var (
	ErrMalformedResponse = errors.New("malformed JSON in LLM response")
	ErrUnexpectedShape   = errors.New("unexpected categories format")
	ErrMissingAPIKey     = errors.New("API key is not set")
	ErrNoChoices         = errors.New("no choices returned from LLM")
	ErrUnknownProvider   = errors.New("no backend registered for provider")
)

// ParseProvider maps a configured selector onto a Provider.
// Matching is case-insensitive; anything unrecognized falls back to DefaultProvider.
func ParseProvider(s string) Provider {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderOpenAI, ProviderZAI, ProviderOllama, ProviderGemini:
		return p
	default:
		return DefaultProvider
	}
}

// Providers lists every supported backend in display order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderZAI, ProviderOllama, ProviderGemini}
}

// Categorizer assigns category labels to a memory.
type Categorizer interface {
	Categorize(ctx context.Context, memory string) ([]string, error)
}

// Factory builds a fresh Categorizer for a single call.
type Factory func() (Categorizer, error)

// normalize trims and lowercases each category, preserving order.
// The result is never nil.
func normalize(categories []string) []string {
	lower := cases.Lower(language.Und)
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, lower.String(strings.TrimSpace(c)))
	}
	return out
}
