// Package wrap provides explicit function decoration: a wrapper value holds
// the original callable plus ordered hook chains, and decorations compose by
// construction rather than by patching anything at runtime.
//
// Ready-made decorations cover logging, call metering, rate limiting and
// identity-keyed memoization.
package wrap

import (
	"context"
	"time"
)

// BeforeHook runs before the wrapped function. A non-nil error short-circuits
// the call: the wrapped function is skipped and the error is returned to the
// caller.
type BeforeHook[A any] func(ctx context.Context, arg A) error

// AfterHook runs after the wrapped function, or after a before hook
// short-circuited the call. It observes the final outcome.
type AfterHook[A any, R any] func(ctx context.Context, arg A, outcome Outcome[R])

// Outcome carries the result of a completed call to after hooks.
type Outcome[R any] struct {
	Result   R
	Err      error
	Duration time.Duration
}

// Func wraps a function with before and after hook chains.
//
// Hooks run in registration order. After hooks always run, including when a
// before hook rejected the call, so observing decorations (logging, metering)
// see rejected calls too.
type Func[A any, R any] struct {
	name   string
	fn     func(context.Context, A) (R, error)
	before []BeforeHook[A]
	after  []AfterHook[A, R]
}

// Option configures a Func during construction.
type Option[A any, R any] func(*Func[A, R])

// New wraps fn under the given name. fn must be non-nil.
func New[A any, R any](name string, fn func(context.Context, A) (R, error), optFns ...Option[A, R]) *Func[A, R] {
	f := &Func[A, R]{
		name: name,
		fn:   fn,
	}
	for _, optFn := range optFns {
		if optFn != nil {
			optFn(f)
		}
	}
	return f
}

// Name returns the name the wrapper was constructed with.
func (f *Func[A, R]) Name() string {
	return f.name
}

// Call runs the before hooks, the wrapped function, then the after hooks.
func (f *Func[A, R]) Call(ctx context.Context, arg A) (R, error) {
	start := time.Now()

	for _, hook := range f.before {
		if err := hook(ctx, arg); err != nil {
			var zero R
			f.finish(ctx, arg, Outcome[R]{Err: err, Duration: time.Since(start)})
			return zero, err
		}
	}

	result, err := f.fn(ctx, arg)
	f.finish(ctx, arg, Outcome[R]{Result: result, Err: err, Duration: time.Since(start)})
	return result, err
}

func (f *Func[A, R]) finish(ctx context.Context, arg A, outcome Outcome[R]) {
	for _, hook := range f.after {
		hook(ctx, arg, outcome)
	}
}

// WithBefore appends a before hook.
func WithBefore[A any, R any](hook BeforeHook[A]) Option[A, R] {
	return func(f *Func[A, R]) {
		if hook != nil {
			f.before = append(f.before, hook)
		}
	}
}

// WithAfter appends an after hook.
func WithAfter[A any, R any](hook AfterHook[A, R]) Option[A, R] {
	return func(f *Func[A, R]) {
		if hook != nil {
			f.after = append(f.after, hook)
		}
	}
}
