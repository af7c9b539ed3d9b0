package evmrpc

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/network"
	"hermes/pkg/errors"
)

type fakeReader struct {
	balance *big.Int
	err     error
}

func (f *fakeReader) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, f.err
}

func TestProvider_NativeBalance(t *testing.T) {
	oneBNB := big.NewInt(0).Mul(big.NewInt(1), big.NewInt(1e18))
	p := New(map[network.ID]BalanceReader{
		network.BNB: &fakeReader{balance: oneBNB},
	}, []network.ID{network.BNB})

	balance, err := p.NativeBalance(context.Background(), network.BNB, "0xC1b1729127E4029174F183aB51a4B10c58Dc006d")
	require.NoError(t, err)
	assert.Equal(t, "1", balance.String())
}

func TestProvider_NativeBalance_UnknownNetwork(t *testing.T) {
	p := New(nil, nil)
	_, err := p.NativeBalance(context.Background(), network.Ethereum, "0xC1b1729127E4029174F183aB51a4B10c58Dc006d")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedNetwork))
}

func TestProvider_NativeBalance_BadAddress(t *testing.T) {
	p := New(map[network.ID]BalanceReader{
		network.BNB: &fakeReader{balance: big.NewInt(0)},
	}, []network.ID{network.BNB})

	_, err := p.NativeBalance(context.Background(), network.BNB, "not-an-address")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestProvider_NativeBalance_RPCFailureIsTransient(t *testing.T) {
	p := New(map[network.ID]BalanceReader{
		network.BNB: &fakeReader{err: errors.New("connection reset")},
	}, []network.ID{network.BNB})

	_, err := p.NativeBalance(context.Background(), network.BNB, "0xC1b1729127E4029174F183aB51a4B10c58Dc006d")
	assert.True(t, errors.Is(err, errors.ErrProviderTransient))
}
