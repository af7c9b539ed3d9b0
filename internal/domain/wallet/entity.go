package wallet

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a per-user keypair record. The secret key is stored encrypted and
// only revealed through a Credential at the final external-call boundary.
type Wallet struct {
	ID              uuid.UUID `db:"id"`
	Handle          string    `db:"handle"`
	PublicKey       string    `db:"public_key"`
	EncryptedSecret []byte    `db:"encrypted_secret"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Credential is an opaque handle to a wallet's secret key. It defers
// decryption until Reveal is called so the raw key never travels through
// intermediate layers.
type Credential struct {
	PublicKey string
	reveal    func() (string, error)
}

// NewCredential wraps a reveal function into a credential handle.
func NewCredential(publicKey string, reveal func() (string, error)) Credential {
	return Credential{PublicKey: publicKey, reveal: reveal}
}

// Reveal materializes the raw secret key. Callers must not retain the result
// beyond the lifetime of a single provider call.
func (c Credential) Reveal() (string, error) {
	if c.reveal == nil {
		return "", ErrNoSecret
	}
	return c.reveal()
}
