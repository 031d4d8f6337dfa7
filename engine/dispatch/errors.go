package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoStores is returned by QueryWithFallback when the store list is empty.
var ErrNoStores = errors.New("no stores provided")

// RetriesExhaustedError is returned when QueryWithRetry runs out of attempts.
// It wraps the failure from the final attempt.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}

// StoreFailure records why one store in a fallback chain failed.
type StoreFailure struct {
	StoreID string
	Err     error
}

// AllStoresExhaustedError aggregates per-store failures from
// QueryWithFallback, in the order the stores were tried.
type AllStoresExhaustedError struct {
	Failures []StoreFailure
}

func (e *AllStoresExhaustedError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("all %d stores exhausted:", len(e.Failures)))
	for _, f := range e.Failures {
		sb.WriteString(fmt.Sprintf(" [%s: %v]", f.StoreID, f.Err))
	}
	return sb.String()
}

// Unwrap exposes the per-store causes to errors.Is / errors.As.
func (e *AllStoresExhaustedError) Unwrap() []error {
	causes := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		causes[i] = f.Err
	}
	return causes
}
