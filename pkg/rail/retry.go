package rail

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy configures GoRetry. The zero value retries with the
// backoff defaults and no attempt cap.
type RetryPolicy struct {
	// MaxAttempts caps the total number of calls to the work function,
	// first attempt included. Zero means no cap.
	MaxAttempts uint64
	// InitialInterval seeds the exponential backoff. Zero keeps the
	// backoff default.
	InitialInterval time.Duration
	// MaxElapsed bounds the total time spent retrying. Zero means
	// retry until the context or MaxAttempts stops it.
	MaxElapsed time.Duration
}

// GoRetry spawns work like Go, retrying transient failures with
// exponential backoff. Cancellation errors are permanent and stop the
// retry loop immediately; the outcome then classifies as canceled.
func GoRetry[T any](ctx context.Context, policy RetryPolicy, work func(ctx context.Context) (T, error)) *Operation[T] {
	return Go(ctx, func(ctx context.Context) (T, error) {
		expo := backoff.NewExponentialBackOff()
		if policy.InitialInterval > 0 {
			expo.InitialInterval = policy.InitialInterval
		}
		expo.MaxElapsedTime = policy.MaxElapsed

		var b backoff.BackOff = backoff.WithContext(expo, ctx)
		if policy.MaxAttempts > 0 {
			b = backoff.WithMaxRetries(b, policy.MaxAttempts-1)
		}

		return backoff.RetryWithData(func() (T, error) {
			value, err := work(ctx)
			if err != nil && IsCancellationError(err) {
				return value, backoff.Permanent(err)
			}
			return value, err
		}, b)
	})
}
