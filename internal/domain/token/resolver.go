package token

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"hermes/internal/domain/network"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const cacheTTL = 24 * time.Hour

// Resolver maps token references (symbol or raw address) to addresses.
// Lookups go static table first, then the runtime cache. An unknown symbol is
// a hard failure, never silently treated as an address.
type Resolver struct {
	static map[network.ID]map[string]Info
	cache  Cache
	log    *logger.Logger
}

// NewResolver creates a resolver over the static table and an optional cache.
func NewResolver(cache Cache) *Resolver {
	return &Resolver{
		static: DefaultTokens(),
		cache:  cache,
		log:    logger.Get().With("component", "token_resolver"),
	}
}

// Resolve returns token info for a symbol-or-address reference on a network.
func (r *Resolver) Resolve(ctx context.Context, net network.ID, ref string) (*Info, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewValidationError("token", "must not be empty", ref)
	}

	// Raw addresses pass through untouched.
	if common.IsHexAddress(ref) {
		return &Info{Network: net, Address: ref}, nil
	}

	symbol := strings.ToUpper(ref)
	if byNet, ok := r.static[net]; ok {
		if info, ok := byNet[symbol]; ok {
			return &info, nil
		}
	}

	if r.cache != nil {
		info, err := r.cache.Get(ctx, net, symbol)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			r.log.Warnw("token cache lookup failed", "symbol", symbol, "error", err)
		}
	}

	return nil, errors.Wrapf(errors.ErrUnknownToken,
		"token %s is not known on %s, please provide the token's address", ref, net)
}

// Remember stores a resolved token in the runtime cache for later lookups.
func (r *Resolver) Remember(ctx context.Context, info *Info) {
	if r.cache == nil || info == nil || info.Symbol == "" {
		return
	}
	if err := r.cache.Set(ctx, info, cacheTTL); err != nil {
		r.log.Warnw("failed to cache token", "symbol", info.Symbol, "error", err)
	}
}
