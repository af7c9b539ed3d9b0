package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"hermes/internal/domain/network"
	"hermes/internal/domain/token"
	"hermes/pkg/errors"
)

// Connect opens and pings a redis client.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to ping redis")
	}
	return client, nil
}

// TokenCache stores resolved token records in redis, keyed by network and
// uppercase symbol.
type TokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a token cache over a redis client.
func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func cacheKey(net network.ID, symbol string) string {
	return fmt.Sprintf("token:%s:%s", net, strings.ToUpper(symbol))
}

// Get loads a cached token, or errors.ErrNotFound on a miss.
func (c *TokenCache) Get(ctx context.Context, net network.ID, symbol string) (*token.Info, error) {
	raw, err := c.client.Get(ctx, cacheKey(net, symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.Wrapf(errors.ErrNotFound, "token %s on %s not cached", symbol, net)
		}
		return nil, errors.Wrap(err, "failed to read token cache")
	}

	var info token.Info
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached token")
	}
	return &info, nil
}

// Set stores a token record with a TTL.
func (c *TokenCache) Set(ctx context.Context, info *token.Info, ttl time.Duration) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "failed to encode token")
	}
	if err := c.client.Set(ctx, cacheKey(info.Network, info.Symbol), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to write token cache")
	}
	return nil
}
