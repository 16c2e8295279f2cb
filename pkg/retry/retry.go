package retry

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/edushare/edushare-api/pkg/errors"
)

// Options tunes retry behaviour for a single wrapped operation.
type Options struct {
	// MaxAttempts is the total attempt ceiling, including the first call.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff: base * 2^attemptIndex.
	BaseDelay time.Duration
	Logger    *zap.Logger
}

func (o Options) normalized() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Do executes op, retrying transient failures with exponential backoff.
// Permanent failures (denied, not found, invalid payload) fail fast since
// retrying cannot help. On exhaustion the last error is returned.
func Do(ctx context.Context, op func(context.Context) error, opts Options) error {
	opts = opts.normalized()

	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if appErrors.IsPermanent(lastErr) {
			return lastErr
		}
		opts.Logger.Warn("operation failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", opts.MaxAttempts),
			zap.Error(lastErr),
		)
		if attempt == opts.MaxAttempts-1 {
			break
		}
		delay := opts.BaseDelay << uint(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// DoValue is the value-returning variant of Do for query operations.
func DoValue[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	var result T
	err := Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	}, opts)
	return result, err
}
