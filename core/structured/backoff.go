package structured

import (
	"context"
	"math"
	"time"
)

const (
	// baseDelay is the backoff base unit: the wait before the second
	// attempt.
	baseDelay = time.Second

	defaultBackoffFactor = 2.0
)

// backoffDelay returns the wait before attempt n (n >= 2):
// baseDelay * factor^(n-2), so attempt 2 waits one base unit, attempt 3
// waits factor units, and so on.
func backoffDelay(factor float64, attempt int) time.Duration {
	return time.Duration(float64(baseDelay) * math.Pow(factor, float64(attempt-2)))
}

// sleepContext waits for d, respecting context cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
