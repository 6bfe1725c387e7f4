package pipeline

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// maxAttempts bounds transient-error retries within a single run. Anything
// still failing after that stays unmarked and is picked up by the next run.
const maxAttempts = 3

// withRetry runs op with exponential backoff, bounding each attempt by
// timeout. Terminal errors must be wrapped with backoff.Permanent by op.
func withRetry[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return op(attemptCtx)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(maxAttempts))
}
