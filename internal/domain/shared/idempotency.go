package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events
// (outbox retries, dead-letter replays) do not apply side effects twice.
type IdempotencyStore interface {
	// MarkProcessed atomically records the event ID with a TTL. It
	// returns false when the ID was already recorded.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID is recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls deduplication for an event handler.
type IdempotencyConfig struct {
	// TTL bounds how long an event ID is remembered. Redelivery after
	// the TTL is applied again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig remembers event IDs for 24 hours, longer than
// any outbox retry schedule.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
