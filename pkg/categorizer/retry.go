package categorizer

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds the attempts made for one categorization. Delays start at
// MinWait, double after every failed attempt and never exceed MaxWait.
type RetryPolicy struct {
	Attempts int
	MinWait  time.Duration
	MaxWait  time.Duration
}

// DefaultRetryPolicy allows 3 attempts with delays of 4s and 8s (capped at 15s).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, MinWait: 4 * time.Second, MaxWait: 15 * time.Second}
}

// NewBackoff returns a fresh backoff for a single call; backoffs are stateful
// and must not be shared between calls.
func (p RetryPolicy) NewBackoff() retry.Backoff {
	def := DefaultRetryPolicy()
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.MinWait <= 0 {
		p.MinWait = def.MinWait
	}
	if p.MaxWait < p.MinWait {
		p.MaxWait = p.MinWait
	}

	b := retry.NewExponential(p.MinWait)
	b = retry.WithCappedDuration(p.MaxWait, b)
	return retry.WithMaxRetries(uint64(p.Attempts-1), b)
}
