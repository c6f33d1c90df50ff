package wrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

// ErrThrottled is returned by ThrottledReject wrappers when a call arrives
// faster than the configured rate allows.
var ErrThrottled = errors.New("call rate exceeded")

// Logged decorates the wrapper with structured call logging. If logger is
// nil, slog.Default() is used.
func Logged[A any, R any](logger *slog.Logger) Option[A, R] {
	return func(f *Func[A, R]) {
		if logger == nil {
			logger = slog.Default()
		}
		name := f.name

		f.before = append(f.before, func(ctx context.Context, _ A) error {
			logger.DebugContext(ctx, "call started", "func", name)
			return nil
		})
		f.after = append(f.after, func(ctx context.Context, _ A, outcome Outcome[R]) {
			if outcome.Err != nil {
				logger.ErrorContext(ctx, "call failed",
					"func", name,
					"duration", outcome.Duration,
					"error", outcome.Err,
				)
			} else {
				logger.DebugContext(ctx, "call completed",
					"func", name,
					"duration", outcome.Duration,
				)
			}
		})
	}
}

// Metered decorates the wrapper with call metering. Rejected calls are
// recorded too, so throttled wrappers report their full traffic.
func Metered[A any, R any](rec CallRecorder) Option[A, R] {
	return func(f *Func[A, R]) {
		if rec == nil {
			return
		}
		name := f.name

		f.after = append(f.after, func(_ context.Context, _ A, outcome Outcome[R]) {
			rec.RecordCall(name, outcome.Duration, outcome.Err)
		})
	}
}

// Throttled decorates the wrapper with a blocking rate limit: calls wait
// until the limiter allows them or the context is canceled.
func Throttled[A any, R any](limit rate.Limit, burst int) Option[A, R] {
	return func(f *Func[A, R]) {
		limiter := rate.NewLimiter(limit, burst)

		f.before = append(f.before, func(ctx context.Context, _ A) error {
			return limiter.Wait(ctx)
		})
	}
}

// ThrottledReject decorates the wrapper with a non-blocking rate limit:
// calls that exceed the rate fail immediately with an error matching
// ErrThrottled.
func ThrottledReject[A any, R any](limit rate.Limit, burst int) Option[A, R] {
	return func(f *Func[A, R]) {
		limiter := rate.NewLimiter(limit, burst)
		name := f.name

		f.before = append(f.before, func(_ context.Context, _ A) error {
			if !limiter.Allow() {
				return fmt.Errorf("%w: %s", ErrThrottled, name)
			}
			return nil
		})
	}
}
