// Package retry is the bounded retry-with-delay primitive shared by the
// widget's initial load, its per-item replacement, and the provider itself.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned by Do when every attempt produced an
// unacceptable result without an error.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy bounds a retry loop. MaxAttempts counts every call, including the
// first one.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return errors.New("retry policy needs at least one attempt")
	}
	if p.Delay < 0 {
		return errors.New("retry delay must not be negative")
	}
	return nil
}

// Allows reports whether another attempt may follow after used retries.
// It is the stepwise form of the loop in Do, for callers that schedule each
// attempt themselves instead of blocking.
func (p Policy) Allows(used int) bool {
	return used < p.MaxAttempts-1
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Result is what Do hands back: the last value seen and how many calls it
// took.
type Result[T any] struct {
	Value    T
	Attempts int
}

// Do calls fn until accept approves its value, fn fails, or the policy runs
// out of attempts. An fn error stops the loop immediately. When attempts run
// out, the last value is returned alongside ErrExhausted.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error), accept func(T) bool) (Result[T], error) {
	return DoWithSleeper(ctx, p, sleepContext, fn, accept)
}

func DoWithSleeper[T any](ctx context.Context, p Policy, sleep Sleeper, fn func(context.Context) (T, error), accept func(T) bool) (Result[T], error) {
	var res Result[T]
	if err := p.Validate(); err != nil {
		return res, err
	}
	if sleep == nil {
		sleep = sleepContext
	}
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		value, err := fn(ctx)
		res = Result[T]{Value: value, Attempts: attempt}
		if err != nil {
			return res, err
		}
		if accept == nil || accept(value) {
			return res, nil
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return res, err
		}
	}
	return res, ErrExhausted
}
