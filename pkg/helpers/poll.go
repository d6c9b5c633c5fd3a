package helpers

import (
	"context"
	"errors"
	"time"
)

// ErrPollExhausted is returned when the attempt budget runs out before the
// fetch reports completion.
var ErrPollExhausted = errors.New("poll attempts exhausted")

// Poll calls fetch at the given interval until it reports done, the attempt
// budget is exhausted or the context is canceled. The fetch decides
// completion; Poll only bounds the retries.
func Poll[T any](ctx context.Context, interval time.Duration, maxAttempts int, fetch func(context.Context) (T, bool, error)) (T, error) {
	var zero T

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-ticker.C:
		}

		result, done, err := fetch(ctx)
		if err != nil {
			return zero, err
		}
		if done {
			return result, nil
		}
	}

	return zero, ErrPollExhausted
}
