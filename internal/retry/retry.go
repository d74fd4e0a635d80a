// Package retry wraps a single outbound network call with bounded retry,
// exponential backoff and error classification. It is the only place in the
// service that decides whether a provider failure is worth another attempt.
package retry

import (
	"context"
	"log"
	"math/rand/v2"
	"time"
)

// Operation performs exactly one network round trip. It either returns the
// raw payload or fails with a classified *Error.
type Operation func(ctx context.Context) ([]byte, error)

// Policy controls how Execute retries a failing Operation.
type Policy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	UseJitter      bool
	RetryableKinds map[Kind]bool
}

// DefaultPolicy mirrors the provider defaults: 3 attempts, 2s..10s
// exponential backoff, doubling each time, retrying network trouble only.
// Rate limits are deliberately NOT in the set; they surface to the caller.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
		RetryableKinds: map[Kind]bool{
			KindTransientNetwork: true,
		},
	}
}

// Backoff returns the delay to wait before attempt k (k >= 2):
// min(BaseDelay * Multiplier^(k-2), MaxDelay). Attempt 1 has no delay.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	backoff := p.BaseDelay
	for i := 2; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * p.Multiplier)
		if backoff > p.MaxDelay {
			return p.MaxDelay
		}
	}
	if backoff > p.MaxDelay {
		backoff = p.MaxDelay
	}
	return backoff
}

// retryable reports whether the policy wants another attempt for err.
func (p Policy) retryable(err error) bool {
	return p.RetryableKinds[KindOf(err)]
}

// Execute runs op up to MaxAttempts times, sleeping the backoff between
// attempts. An error is retried only if its kind is in RetryableKinds;
// anything else aborts immediately. On exhaustion the last attempt's error
// is returned as-is so the caller still sees the original kind.
//
// Each invocation owns its own attempt counter, so concurrent calls for
// independent requests are safe.
func Execute(ctx context.Context, op Operation, policy Policy) ([]byte, error) {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		// Bail out before dialing if the caller already gave up.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		payload, err := op(ctx)
		if err == nil {
			return payload, nil
		}

		if !policy.retryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.Backoff(attempt + 1)
		if policy.UseJitter && delay > 0 {
			// Full jitter: anywhere between 0 and the computed delay.
			delay = time.Duration(rand.Int64N(int64(delay) + 1))
		}

		log.Printf("retry: attempt %d/%d failed (%v), waiting %s",
			attempt, policy.MaxAttempts, err, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			// Client walked away; no further attempt is scheduled.
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}
