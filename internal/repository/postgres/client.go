package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// DBTX is the common surface of *sqlx.DB and *sqlx.Tx, letting repositories
// run inside or outside a transaction.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// Connect opens and pings a postgres pool.
func Connect(ctx context.Context, dsn string, maxConns int) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres connection")
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}

	logger.Get().Infow("postgres connected", "max_conns", maxConns)
	return db, nil
}

const walletSchema = `
CREATE TABLE IF NOT EXISTS wallets (
	id               UUID PRIMARY KEY,
	handle           TEXT NOT NULL UNIQUE,
	public_key       TEXT NOT NULL,
	encrypted_secret BYTEA NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wallets_handle ON wallets (handle);
`

// EnsureSchema creates the tables this service owns.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, walletSchema); err != nil {
		return errors.Wrap(err, "failed to ensure wallet schema")
	}
	return nil
}
