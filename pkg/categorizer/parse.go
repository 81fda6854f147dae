package categorizer

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// categoriesPayload is the document shape requested from every backend.
type categoriesPayload struct {
	Categories []string `json:"categories"`
}

// parseCategories extracts the "categories" list from a JSON document produced by
// a text-mode backend. Non-string entries are dropped. A syntax error yields
// ErrMalformedResponse; a document without a "categories" list yields ErrUnexpectedShape.
func parseCategories(content string) ([]string, error) {
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %T", ErrUnexpectedShape, doc)
	}

	raw, ok := obj["categories"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"categories\" field", ErrUnexpectedShape)
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, raw)
	}

	categories := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			categories = append(categories, s)
		}
	}
	return normalize(categories), nil
}

// parseOrEmpty parses content and turns every parse failure into an empty,
// logged result: malformed JSON is an error entry, a wrong shape is a warning.
func parseOrEmpty(logger log.FieldLogger, content string) []string {
	categories, err := parseCategories(content)
	if err == nil {
		return categories
	}
	if errors.Is(err, ErrMalformedResponse) {
		logger.Errorf("Failed to parse JSON response: %v", err)
		logger.Debugf("Raw content: %s", content)
	} else {
		logger.Warnf("%v", err)
	}
	return []string{}
}
