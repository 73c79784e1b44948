// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/katalvlaran/netqaoa/backend"
)

// Retry calls op until it succeeds, fails permanently, or the policy is
// spent. It returns the value, the number of attempts made and the error.
//
//   - non-retryable errors stop at once and are returned unchanged;
//   - a spent budget returns the last error wrapped in ErrRetriesExhausted;
//   - ctx cancellation during a wait returns the context's cause.
//
// notify, when non-nil, is called before each wait.
func Retry[T any](ctx context.Context, p RetryPolicy, op func(context.Context) (T, error), notify func(error, time.Duration)) (T, int, error) {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}

	var attempts int
	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.MaxRetries + 1)),
		backoff.WithMaxElapsedTime(0),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(backoff.Notify(notify)))
	}

	v, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !backend.IsRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, opts...)
	if err == nil {
		return v, attempts, nil
	}
	if backend.IsRetryable(err) && attempts > p.MaxRetries && ctx.Err() == nil {
		return v, attempts, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, err)
	}
	return v, attempts, err
}
