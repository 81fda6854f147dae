package categorizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sethvargo/go-retry"
	log "github.com/sirupsen/logrus"
)

// Recorder observes finished categorization calls.
type Recorder interface {
	ObserveCategorization(provider string, attempts int, elapsed time.Duration, err error)
}

// ServiceConfig selects and bounds the backend used by a Service.
type ServiceConfig struct {
	Enabled  bool
	Provider string // parsed with ParseProvider
	Retry    RetryPolicy
}

// Service dispatches categorization to the configured backend and retries
// failed attempts. It is safe for concurrent use.
type Service struct {
	cfg       ServiceConfig
	provider  Provider
	factories map[Provider]Factory
	backoff   func() retry.Backoff
	recorder  Recorder
	logger    log.FieldLogger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithBackoff replaces the backoff derived from the retry policy.
func WithBackoff(newBackoff func() retry.Backoff) ServiceOption {
	return func(s *Service) { s.backoff = newBackoff }
}

// WithRecorder reports every finished call to r.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithServiceLogger sets the logger used for retry diagnostics.
func WithServiceLogger(logger log.FieldLogger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a dispatcher. factories maps each provider to a
// constructor that is invoked once per attempt.
func NewService(cfg ServiceConfig, factories map[Provider]Factory, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:       cfg,
		provider:  ParseProvider(cfg.Provider),
		factories: factories,
		backoff:   cfg.Retry.NewBackoff,
		logger:    log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether categorization is switched on.
func (s *Service) Enabled() bool { return s.cfg.Enabled }

// Provider returns the backend selected by the configuration.
func (s *Service) Provider() Provider { return s.provider }

// Categorize returns the categories for memory. When categorization is disabled
// it returns an empty list without touching any backend.
func (s *Service) Categorize(ctx context.Context, memory string) ([]string, error) {
	if !s.cfg.Enabled {
		return []string{}, nil
	}

	logger := s.logger.WithField("provider", s.provider)
	start := time.Now()

	var (
		result   []string
		attempts int
	)
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempts++
		categories, err := s.categorizeOnce(ctx, memory)
		if err != nil {
			if errors.Is(err, ErrUnknownProvider) {
				return err
			}
			logger.WithField("attempt", attempts).Warnf("Categorization attempt failed: %v", err)
			return retry.RetryableError(err)
		}
		result = categories
		return nil
	})

	if s.recorder != nil {
		s.recorder.ObserveCategorization(string(s.provider), attempts, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("categorize with %s after %d attempt(s): %w", s.provider, attempts, err)
	}

	logger.Debugf("Categorized memory into %v after %d attempt(s)", result, attempts)
	return result, nil
}

func (s *Service) categorizeOnce(ctx context.Context, memory string) ([]string, error) {
	factory, ok := s.factories[s.provider]
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, s.provider)
	}

	c, err := factory()
	if err != nil {
		return nil, fmt.Errorf("create %s categorizer: %w", s.provider, err)
	}
	if closer, ok := c.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				s.logger.Warnf("Failed to close %s categorizer: %v", s.provider, err)
			}
		}()
	}

	categories, err := c.Categorize(ctx, memory)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
