package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"hermes/internal/domain/wallet"
	"hermes/pkg/errors"
)

const uniqueViolation = "23505"

// WalletRepository persists wallets in postgres.
type WalletRepository struct {
	db DBTX
}

// NewWalletRepository creates a wallet repository over a DB or transaction.
func NewWalletRepository(db DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByHandle loads the wallet for a user handle.
func (r *WalletRepository) GetByHandle(ctx context.Context, handle string) (*wallet.Wallet, error) {
	const query = `
		SELECT id, handle, public_key, encrypted_secret, created_at, updated_at
		FROM wallets
		WHERE handle = $1`

	var w wallet.Wallet
	if err := r.db.GetContext(ctx, &w, query, handle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "wallet for handle %s", handle)
		}
		return nil, errors.Wrap(err, "failed to query wallet")
	}
	return &w, nil
}

// Create inserts a new wallet. A concurrent insert for the same handle
// surfaces as a conflict; callers fall back to GetByHandle.
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	const query = `
		INSERT INTO wallets (id, handle, public_key, encrypted_secret, created_at, updated_at)
		VALUES (:id, :handle, :public_key, :encrypted_secret, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, w); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errors.Wrapf(err, "wallet for handle %s already exists", w.Handle)
		}
		return errors.Wrap(err, "failed to insert wallet")
	}
	return nil
}
