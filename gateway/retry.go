package gateway

import (
	"context"
	"math/rand"
	"time"
)

// maxRetries bounds re-invocations after the first attempt: 3 retries
// means at most 4 attempts total.
const maxRetries = 3

// retryBaseDelay is the unit of exponential backoff: attempt n sleeps
// 2^n * retryBaseDelay plus up to retryJitter of random jitter.
const (
	retryBaseDelay = 100 * time.Millisecond
	retryJitter    = 100 * time.Millisecond
)

// retry re-invokes op with exponential backoff plus jitter until it
// succeeds, fails with a non-retryable error, the context is done, or
// the attempt bound is spent. After exhaustion the last error is wrapped
// in RetriesExhaustedError.
func retry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		v, err := op()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !retryable(err) {
			return zero, err
		}
		if attempt > maxRetries {
			break
		}
		delay := time.Duration(1<<uint(attempt))*retryBaseDelay +
			time.Duration(rand.Int63n(int64(retryJitter)))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, &RetriesExhaustedError{Attempts: maxRetries + 1, Err: lastErr}
}
