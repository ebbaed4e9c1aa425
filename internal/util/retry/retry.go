// Package retry provides utilities for retrying operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retried operation by attempt count and elapsed time.
// A zero MaxAttempts or MaxElapsed disables that bound, but at least one
// of them should be set by callers that poll external state.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxElapsed   time.Duration
	Multiplier   float64
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  6,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Option is a functional option for retry configuration.
type Option func(*Policy)

// Notify is called after a failed attempt, before waiting for the next one.
type Notify func(attempt int, err error, wait time.Duration)

// ExhaustedError is returned when the policy runs out of attempts or time
// while the operation keeps failing.
type ExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts (%s elapsed): %v",
		e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether err came from a policy that ran out of budget.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}

// Do runs operation until it succeeds, returns a Fatal error, the context
// ends, or the policy budget is spent. The attempt number passed to
// operation starts at 1.
func (p Policy) Do(ctx context.Context, operation func(attempt int) error, notify Notify) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.InitialDelay
	expo.Multiplier = p.Multiplier
	if expo.Multiplier < 1 {
		expo.Multiplier = 1
	}
	expo.RandomizationFactor = 0
	expo.MaxInterval = p.MaxDelay
	if expo.MaxInterval <= 0 {
		expo.MaxInterval = time.Duration(1<<63 - 1)
	}
	expo.MaxElapsedTime = p.MaxElapsed
	expo.Reset()

	var b backoff.BackOff = expo
	switch {
	case p.MaxAttempts == 1:
		b = &backoff.StopBackOff{}
	case p.MaxAttempts > 1:
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	}
	b = backoff.WithContext(b, ctx)

	start := time.Now()
	attempts := 0
	var lastErr error

	err := backoff.RetryNotify(func() error {
		attempts++
		err := operation(attempts)
		if err == nil {
			return nil
		}
		lastErr = err
		if IsFatal(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		if notify != nil {
			notify(attempts, err, wait)
		}
	})
	if err == nil {
		return nil
	}

	if IsFatal(err) {
		return fmt.Errorf("fatal error (not retrying): %w", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("context cancelled after %d attempts: %w", attempts, ctxErr)
	}
	if lastErr == nil {
		lastErr = err
	}
	return &ExhaustedError{Attempts: attempts, Elapsed: time.Since(start), Err: lastErr}
}

// WithExponentialBackoff executes the operation with exponential backoff retry.
// It starts from DefaultPolicy and applies opts on top.
//
// Errors wrapped with Fatal() are not retried.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	return p.Do(ctx, func(int) error { return operation() }, nil)
}

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		p.MaxAttempts = n
	}
}

// WithInitialDelay sets the initial delay between retries.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.InitialDelay = d
	}
}

// WithMaxDelay caps a single wait between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.MaxDelay = d
	}
}

// WithMaxElapsed caps the total time spent retrying.
func WithMaxElapsed(d time.Duration) Option {
	return func(p *Policy) {
		p.MaxElapsed = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(p *Policy) {
		p.Multiplier = m
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
