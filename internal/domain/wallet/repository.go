package wallet

import (
	"context"

	"hermes/pkg/errors"
)

// ErrNoSecret indicates a credential without secret material.
var ErrNoSecret = errors.New("credential has no secret material")

// Repository persists wallets keyed by user handle.
type Repository interface {
	// GetByHandle returns the wallet for a handle, or errors.ErrNotFound.
	GetByHandle(ctx context.Context, handle string) (*Wallet, error)

	// Create inserts a new wallet. Implementations must enforce handle
	// uniqueness; on conflict callers recover the stored row via GetByHandle.
	Create(ctx context.Context, w *Wallet) error
}
