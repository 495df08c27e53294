package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration
	// Retryable reports whether a failed attempt may be repeated.
	// A nil Retryable treats every error as retryable.
	Retryable func(error) bool
}

// PermanentError wraps an error that must not be retried regardless of Config.Retryable.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func WithRetry[T any](ctx context.Context, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		opCtx, cancel := withOptionalTimeout(ctx, config.Timeout)
		result, err := operation(opCtx)
		cancel()

		if err == nil {
			return result, nil
		}

		if perm, ok := err.(*PermanentError); ok {
			return zero, perm.Err
		}
		if config.Retryable != nil && !config.Retryable(err) {
			return zero, err
		}

		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Msg("Operation failed")

		if attempt < config.MaxRetries {
			delay := calculateBackoffDelay(attempt, config.BaseDelay, config.MaxDelay)
			log.Debug().
				Dur("delay", delay).
				Int("next_attempt", attempt+2).
				Msg("Retrying after delay")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
				continue
			}
		}
		return zero, fmt.Errorf("operation failed after %d attempts: %w", config.MaxRetries+1, err)
	}
	return zero, fmt.Errorf("unexpected: exceeded retry loop")
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func calculateBackoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	// Cap attempt at 30 to prevent overflow
	safeAttempt := min(attempt, 30)
	delay := time.Duration(1<<safeAttempt) * baseDelay

	if delay > maxDelay {
		delay = maxDelay
	}

	// jitter between 0.5x and 1.5x
	delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))

	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}
