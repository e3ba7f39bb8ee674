package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which client-supplied keys have already produced
// a result, so a retried request can be answered without repeating its effect.
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request.
	// Returns false if the key is already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete records the result reference for a reserved key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Lookup returns the stored result for key. pending is true while the
	// original request is still in flight.
	Lookup(ctx context.Context, key string) (result string, pending bool, found bool, err error)

	// Release drops a reservation so the key can be retried after a failure
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a completed key is remembered
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
