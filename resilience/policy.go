// Package resilience wraps calls to external services (extraction oracles,
// embedding models, similarity providers) in an explicit retry policy.
//
// A Policy retries only failures its predicate classifies as transient, waits
// BaseDelay*2^i + Offset before retry i, and optionally throttles every
// attempt through a token bucket limiter.
package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default policy values.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
	DefaultOffset      = 2 * time.Second
)

// transientMarkers are matched case-insensitively against error text.
var transientMarkers = []string{
	"429",
	"RATE_LIMIT",
	"RATE LIMIT",
	"QUOTA",
	"OVERLOADED",
	"RESOURCE_EXHAUSTED",
	"TIMEOUT",
	"TIMED OUT",
	"DEADLINE EXCEEDED",
	"503",
	"UNAVAILABLE",
}

// Policy describes how a failing call is retried.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Offset      time.Duration
	// Retryable reports whether err is worth another attempt. Nil means IsTransient.
	Retryable func(err error) bool
	// Limiter, when set, is waited on before every attempt.
	Limiter *rate.Limiter
}

// DefaultPolicy returns five attempts with 1s base delay and a 2s offset.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Offset:      DefaultOffset,
		Retryable:   IsTransient,
	}
}

// WithRateLimit returns a copy of p throttled to rps attempts per second.
// A non-positive rps removes the limiter.
func (p Policy) WithRateLimit(rps float64, burst int) Policy {
	if rps <= 0 {
		p.Limiter = nil
		return p
	}
	if burst < 1 {
		burst = 1
	}
	p.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return p
}

// Delay is the wait before retry i (0-based).
func (p Policy) Delay(i int) time.Duration {
	d := p.BaseDelay
	for ; i > 0; i-- {
		d *= 2
	}
	return d + p.Offset
}

func (p Policy) retryable(err error) bool {
	if p.Retryable == nil {
		return IsTransient(err)
	}
	return p.Retryable(err)
}

// Do runs operation until it succeeds, fails with a non-retryable error, or
// runs out of attempts. Non-retryable errors are returned as is; exhaustion
// returns ErrRetriesExhausted wrapping the last error.
func (p Policy) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return err
			}
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			if attempt > 0 {
				slog.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}
		if !p.retryable(lastErr) {
			return lastErr
		}

		slog.Debug("operation failed, will retry", "attempt", attempt+1, "maxAttempts", p.MaxAttempts, "error", lastErr)

		if attempt == p.MaxAttempts-1 {
			break
		}

		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, p.MaxAttempts, lastErr)
}

// IsTransient reports whether err looks like rate limiting, quota
// exhaustion, overload or a timeout.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToUpper(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
