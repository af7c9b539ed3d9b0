package wallet

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"hermes/pkg/crypto"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Service implements getOrCreateWallet semantics: the first call for a handle
// generates and persists a keypair, every later call returns the same record.
type Service struct {
	repo      Repository
	encryptor *crypto.Encryptor
	log       *logger.Logger
}

// NewService creates a wallet service.
func NewService(repo Repository, encryptor *crypto.Encryptor) *Service {
	return &Service{
		repo:      repo,
		encryptor: encryptor,
		log:       logger.Get().With("component", "wallet_service"),
	}
}

// GetOrCreateWallet returns the wallet for a handle, creating one on first use.
func (s *Service) GetOrCreateWallet(ctx context.Context, handle string) (*Wallet, error) {
	if handle == "" {
		return nil, errors.NewValidationError("handle", "must not be empty", handle)
	}

	w, err := s.repo.GetByHandle(ctx, handle)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Wrapf(err, "failed to load wallet for %s", handle)
	}

	w, err = s.generate(handle)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, w); err != nil {
		// Lost a create race: another request persisted the wallet first.
		if existing, getErr := s.repo.GetByHandle(ctx, handle); getErr == nil {
			return existing, nil
		}
		return nil, errors.Wrapf(err, "failed to persist wallet for %s", handle)
	}

	s.log.Infow("wallet created", "handle", handle, "public_key", w.PublicKey)
	return w, nil
}

// Credential returns an opaque credential handle for a wallet. The secret is
// decrypted lazily, at the moment a provider builds its outbound payload.
func (s *Service) Credential(w *Wallet) Credential {
	encrypted := make([]byte, len(w.EncryptedSecret))
	copy(encrypted, w.EncryptedSecret)

	return NewCredential(w.PublicKey, func() (string, error) {
		return s.encryptor.Decrypt(encrypted)
	})
}

func (s *Service) generate(handle string) (*Wallet, error) {
	key, err := gethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate keypair")
	}

	secretHex := hexutil.Encode(gethcrypto.FromECDSA(key))
	encrypted, err := s.encryptor.Encrypt(secretHex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt secret key")
	}

	now := time.Now().UTC()
	return &Wallet{
		ID:              uuid.New(),
		Handle:          handle,
		PublicKey:       gethcrypto.PubkeyToAddress(key.PublicKey).Hex(),
		EncryptedSecret: encrypted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
