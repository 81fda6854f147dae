package config

import (
	"errors"
	"fmt"
	"net/url"

	log "github.com/sirupsen/logrus"
)

/*
Validate checks structural settings only. Missing API keys are not an error
here: the selected backend reports them when a categorization is attempted,
so a disabled or locally-backed install needs no credentials at all.
*/
func (c *Config) Validate() error {
	r := c.Categorization.Retry
	if r.Attempts <= 0 {
		return errors.New("categorization.retry.attempts must be a positive integer")
	}
	if r.MinWait <= 0 {
		return errors.New("categorization.retry.min_wait must be positive")
	}
	if r.MaxWait < r.MinWait {
		return fmt.Errorf("categorization.retry.max_wait (%s) must not be less than min_wait (%s)", r.MaxWait, r.MinWait)
	}

	if err := validateURL("zai.base_url", c.ZAI.BaseURL); err != nil {
		return err
	}
	if err := validateURL("ollama.host", c.Ollama.Host); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}

	for provider, models := range c.Pricing {
		if provider == "" {
			return errors.New("pricing contains an empty provider name")
		}
		for model, price := range models {
			if model == "" {
				return fmt.Errorf("pricing for provider '%s' contains an empty model name", provider)
			}
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", provider, model)
			}
		}
	}

	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, raw)
	}
	return nil
}
