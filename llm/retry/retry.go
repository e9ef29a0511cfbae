// Package retry runs provider calls under the shared retry policy: a bounded number of
// attempts with linear backoff, retrying only transient network faults.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bebetterst/lightAIchat/llm"
)

const (
	DefaultMaxAttempts = 3
	DefaultStep        = time.Second
)

// Policy configures how an operation is retried. The zero value performs a single attempt.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int

	// Delay returns the wait before the given retry (1 for the first retry).
	// Defaults to Linear(DefaultStep).
	Delay func(retry int) time.Duration

	// Retryable decides whether err is worth another attempt. Defaults to llm.IsTransient.
	Retryable func(err error) bool

	// NewTimer overrides the timer used between attempts (tests).
	NewTimer func() backoff.Timer

	Logger *slog.Logger
}

// Default returns the policy applied to every provider call: 3 attempts, waiting 1s then 2s,
// on timeouts, connection resets and DNS failures only.
func Default() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       Linear(DefaultStep),
		Retryable:   llm.IsTransient,
	}
}

// Linear returns a delay function yielding retry*step.
func Linear(step time.Duration) func(int) time.Duration {
	return func(retry int) time.Duration { return time.Duration(retry) * step }
}

// Do runs op until it succeeds, fails with a non-retryable error, exhausts the attempts or
// ctx is done. The final error is passed through llm.Translate.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = llm.IsTransient
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		v, err := op(ctx)
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	notify := func(err error, d time.Duration) {
		if p.Logger != nil {
			p.Logger.Warn("retrying request",
				slog.Int("attempt", attempt),
				slog.Duration("delay", d),
				slog.Any("err", err),
			)
		}
	}

	var timer backoff.Timer
	if p.NewTimer != nil {
		timer = p.NewTimer()
	}

	b := backoff.WithContext(backoff.WithMaxRetries(&schedule{delay: p.Delay}, uint64(attempts-1)), ctx)
	v, err := backoff.RetryNotifyWithTimerAndData(operation, b, notify, timer)
	if err != nil {
		var zero T
		return zero, llm.Translate(err)
	}
	return v, nil
}

// schedule adapts a delay function to backoff.BackOff.
type schedule struct {
	delay func(int) time.Duration
	n     int
}

func (s *schedule) NextBackOff() time.Duration {
	s.n++
	if s.delay == nil {
		return Linear(DefaultStep)(s.n)
	}
	return s.delay(s.n)
}

func (s *schedule) Reset() { s.n = 0 }
