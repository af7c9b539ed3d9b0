package token

import (
	"context"
	"time"

	"hermes/internal/domain/network"
)

// Cache stores tokens discovered at runtime, layered over the static table.
type Cache interface {
	// Get returns a cached token or errors.ErrNotFound.
	Get(ctx context.Context, net network.ID, symbol string) (*Info, error)

	// Set stores a token with a TTL.
	Set(ctx context.Context, info *Info, ttl time.Duration) error
}
