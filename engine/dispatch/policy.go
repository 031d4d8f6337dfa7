package dispatch

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/brainus-ai/brainus-go/pkg/config"
	"github.com/sethvargo/go-retry"
)

// RetryPolicy configures QueryWithRetry. The zero value is invalid; use
// DefaultRetryPolicy or PolicyFromConfig.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration
	// Multiplier grows the delay per attempt; values below 1 are invalid.
	Multiplier float64
	// MaxDelay caps the computed delay; zero means no cap.
	MaxDelay time.Duration
	// Jitter spreads each delay uniformly within ±50% to avoid retry
	// lockstep across callers.
	Jitter bool
	// RetryOnAPIError opts general API errors into retries. Off by default;
	// only rate-limited failures retry.
	RetryOnAPIError bool
}

// DefaultRetryPolicy mirrors the built-in configuration defaults.
func DefaultRetryPolicy() RetryPolicy {
	return PolicyFromConfig(config.Default().Retry)
}

// PolicyFromConfig converts the retry section of the app config.
func PolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     cfg.MaxAttempts,
		BaseDelay:       cfg.BaseDelay,
		Multiplier:      cfg.Multiplier,
		MaxDelay:        cfg.MaxDelay,
		Jitter:          cfg.Jitter,
		RetryOnAPIError: cfg.RetryOnAPIError,
	}
}

// Validate enforces the policy invariants.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry policy: max attempts must be >= 1, got %d", p.MaxAttempts)
	}
	if p.BaseDelay < 0 {
		return fmt.Errorf("retry policy: base delay must be >= 0, got %s", p.BaseDelay)
	}
	if p.Multiplier < 1 {
		return fmt.Errorf("retry policy: multiplier must be >= 1, got %g", p.Multiplier)
	}
	if p.MaxDelay < 0 {
		return fmt.Errorf("retry policy: max delay must be >= 0, got %s", p.MaxDelay)
	}
	return nil
}

// DelayFor returns the backoff delay after the given failed attempt
// (1-based), before jitter: min(baseDelay * multiplier^(attempt-1), maxDelay).
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	if delay > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

// backoff builds the go-retry backoff for one QueryWithRetry invocation.
// attempt tracks the most recent failed attempt; hint carries the server's
// Retry-After value when the failure supplied one, overriding the computed
// delay for that step.
func (p RetryPolicy) backoff(attempt *int, hint *time.Duration) retry.Backoff {
	b := retry.BackoffFunc(func() (time.Duration, bool) {
		if *hint > 0 {
			d := *hint
			*hint = 0
			return d, false
		}
		d := p.DelayFor(*attempt)
		if p.Jitter && d > 0 {
			d = d/2 + time.Duration(rand.Int63n(int64(d)))
		}
		return d, false
	})
	return retry.WithMaxRetries(uint64(p.MaxAttempts-1), b)
}
