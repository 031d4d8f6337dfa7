package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/pkg/logger"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// Service is the capability the dispatcher requires from the underlying
// client. Any conforming value works, including test doubles.
type Service interface {
	SubmitQuery(ctx context.Context, text, storeID string) (*brainus.QueryResult, error)
}

// Dispatcher orchestrates resilient queries over a Service: timeouts,
// retry with backoff, store fallback, and bounded concurrent fan-out. It
// holds no state of its own; each call is independent.
type Dispatcher struct {
	svc Service
}

func NewDispatcher(svc Service) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// QueryWithTimeout issues a single query and cancels the in-flight request
// once the timeout elapses. No retries happen at this layer.
func (d *Dispatcher) QueryWithTimeout(
	ctx context.Context,
	q brainus.Query,
	timeout time.Duration,
) (*brainus.QueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := d.svc.SubmitQuery(ctx, q.Text, q.StoreID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, brainus.WrapError(
				brainus.ErrCodeTimeout,
				fmt.Sprintf("query timed out after %s", timeout),
				err,
			)
		}
		return nil, err
	}
	return result, nil
}

// QueryWithRetry attempts the query up to policy.MaxAttempts times.
// Rate-limited failures wait the server's Retry-After hint when present,
// otherwise the policy's computed backoff. Authentication, quota, and
// validation failures stop immediately. General API errors retry only when
// the policy opts in. Exhausting all attempts wraps the last failure in a
// RetriesExhaustedError.
func (d *Dispatcher) QueryWithRetry(
	ctx context.Context,
	q brainus.Query,
	policy RetryPolicy,
) (*brainus.QueryResult, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	var (
		result  *brainus.QueryResult
		attempt int
		hint    time.Duration
	)
	err := retry.Do(ctx, policy.backoff(&attempt, &hint), func(ctx context.Context) error {
		attempt++
		res, callErr := d.svc.SubmitQuery(ctx, q.Text, q.StoreID)
		if callErr != nil {
			hint = 0
			if !isRetryable(callErr, policy) {
				return callErr
			}
			hint = brainus.RetryAfterHint(callErr)
			log.Debug("query attempt failed, retrying",
				"store", q.Store(),
				"attempt", attempt,
				"max_attempts", policy.MaxAttempts,
				"retry_after_hint", hint,
				"error", callErr,
			)
			return retry.RetryableError(callErr)
		}
		result = res
		return nil
	})
	if err != nil {
		if attempt >= policy.MaxAttempts && isRetryable(err, policy) {
			log.Warn("query retries exhausted",
				"store", q.Store(),
				"attempts", attempt,
				"error", err,
			)
			return nil, &RetriesExhaustedError{Attempts: attempt, Err: err}
		}
		return nil, err
	}
	return result, nil
}

// QueryWithFallback tries each store in order and returns the first success.
// When every store fails, the result is an AllStoresExhaustedError carrying
// the per-store causes in try order. Context cancellation stops the chain.
func (d *Dispatcher) QueryWithFallback(
	ctx context.Context,
	q brainus.Query,
	stores []string,
) (*brainus.QueryResult, error) {
	if len(stores) == 0 {
		return nil, ErrNoStores
	}
	log := logger.FromContext(ctx)

	failures := make([]StoreFailure, 0, len(stores))
	for _, storeID := range stores {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := d.svc.SubmitQuery(ctx, q.Text, storeID)
		if err == nil {
			log.Debug("fallback query succeeded", "store", storeID, "tried", len(failures)+1)
			return result, nil
		}
		log.Debug("fallback store failed", "store", storeID, "error", err)
		failures = append(failures, StoreFailure{StoreID: storeID, Err: err})
	}
	return nil, &AllStoresExhaustedError{Failures: failures}
}

// Outcome is one slot of a QueryMultiple result: either Result or Err is
// set, never both.
type Outcome struct {
	Query  brainus.Query
	Result *brainus.QueryResult
	Err    error
}

// QueryMultiple dispatches all queries concurrently, bounded by
// maxConcurrency, and returns outcomes in input order. A failing query does
// not affect its siblings.
func (d *Dispatcher) QueryMultiple(
	ctx context.Context,
	queries []brainus.Query,
	maxConcurrency int,
) []Outcome {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	outcomes := make([]Outcome, len(queries))

	sem := make(chan struct{}, maxConcurrency)
	var g errgroup.Group
	for i := range queries {
		i := i
		q := queries[i]
		outcomes[i].Query = q
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[i].Err = ctx.Err()
				return nil
			}
			result, err := d.svc.SubmitQuery(ctx, q.Text, q.StoreID)
			if err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Result = result
			return nil
		})
	}
	// Goroutines report failures through their slots, never through the
	// group, so siblings keep running.
	_ = g.Wait()
	return outcomes
}

// isRetryable classifies a failure per the retry policy: rate limiting is
// always retryable, general API errors only when opted in, everything else
// is terminal.
func isRetryable(err error, policy RetryPolicy) bool {
	apiErr, ok := brainus.AsError(err)
	if !ok {
		return false
	}
	switch apiErr.Code {
	case brainus.ErrCodeRateLimited:
		return true
	case brainus.ErrCodeAPI:
		return policy.RetryOnAPIError
	default:
		return false
	}
}
