package walletinfo

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/network"
	"hermes/internal/domain/token"
	"hermes/internal/domain/wallet"
	"hermes/internal/tools"
	"hermes/pkg/crypto"
	"hermes/pkg/errors"
)

type memoryRepo struct {
	mu      sync.Mutex
	wallets map[string]*wallet.Wallet
}

func (r *memoryRepo) GetByHandle(_ context.Context, handle string) (*wallet.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[handle]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return w, nil
}

func (r *memoryRepo) Create(_ context.Context, w *wallet.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[w.Handle] = w
	return nil
}

type fakeBalances struct {
	networks []network.ID
	balances map[network.ID]decimal.Decimal
	err      error
}

func (p *fakeBalances) Name() string                    { return "rpc" }
func (p *fakeBalances) SupportedNetworks() []network.ID { return p.networks }
func (p *fakeBalances) Description() string             { return "rpc" }

func (p *fakeBalances) NativeBalance(_ context.Context, net network.ID, _ string) (decimal.Decimal, error) {
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.balances[net], nil
}

type fakePrices struct {
	networks []network.ID
	price    decimal.Decimal
	err      error
}

func (p *fakePrices) Name() string                    { return "birdeye" }
func (p *fakePrices) SupportedNetworks() []network.ID { return p.networks }
func (p *fakePrices) Description() string             { return "birdeye" }

func (p *fakePrices) TokenPrice(_ context.Context, _ network.ID, _ string) (decimal.Decimal, error) {
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.price, nil
}

func newTestTool(t *testing.T, nets ...network.ID) *Tool {
	t.Helper()
	enc, err := crypto.NewEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	wallets := wallet.NewService(&memoryRepo{wallets: make(map[string]*wallet.Wallet)}, enc)
	return New(Config{AgentNetworks: nets}, wallets, token.NewResolver(nil))
}

func userCtx() context.Context {
	return tools.WithUserHandle(context.Background(), "carol")
}

func TestExecute_ReportsAddressAndBalances(t *testing.T) {
	tool := newTestTool(t, network.BNB, network.Ethereum)
	tool.RegisterBalanceProvider(&fakeBalances{
		networks: []network.ID{network.BNB, network.Ethereum},
		balances: map[network.ID]decimal.Decimal{
			network.BNB:      decimal.RequireFromString("1.5"),
			network.Ethereum: decimal.RequireFromString("0.2"),
		},
	})

	res := tool.Execute(userCtx(), map[string]interface{}{}, nil)

	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "0x", "EVM address present")
	assert.Contains(t, res.Message, "1.5 BNB")
	assert.Contains(t, res.Message, "0.2 ETH")
}

func TestExecute_CreatesWalletOnFirstUse(t *testing.T) {
	tool := newTestTool(t, network.BNB)
	tool.RegisterBalanceProvider(&fakeBalances{
		networks: []network.ID{network.BNB},
		balances: map[network.ID]decimal.Decimal{network.BNB: decimal.Zero},
	})

	first := tool.Execute(userCtx(), map[string]interface{}{}, nil)
	second := tool.Execute(userCtx(), map[string]interface{}{}, nil)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, first.Message, second.Message, "same wallet both times")
}

func TestExecute_USDValuationWhenPriced(t *testing.T) {
	tool := newTestTool(t, network.BNB)
	tool.RegisterBalanceProvider(&fakeBalances{
		networks: []network.ID{network.BNB},
		balances: map[network.ID]decimal.Decimal{network.BNB: decimal.RequireFromString("2")},
	})
	tool.RegisterPriceProvider(&fakePrices{
		networks: []network.ID{network.BNB},
		price:    decimal.RequireFromString("600"),
	})

	res := tool.Execute(userCtx(), map[string]interface{}{}, nil)

	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "$1200")
}

func TestExecute_PriceFailureDoesNotDegradeBalances(t *testing.T) {
	tool := newTestTool(t, network.BNB)
	tool.RegisterBalanceProvider(&fakeBalances{
		networks: []network.ID{network.BNB},
		balances: map[network.ID]decimal.Decimal{network.BNB: decimal.RequireFromString("2")},
	})
	tool.RegisterPriceProvider(&fakePrices{
		networks: []network.ID{network.BNB},
		err:      errors.New("feed down"),
	})

	res := tool.Execute(userCtx(), map[string]interface{}{}, nil)

	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "2 BNB")
	assert.NotContains(t, res.Message, "$")
}

func TestExecute_BalanceFailureDegradesToNote(t *testing.T) {
	tool := newTestTool(t, network.BNB)
	tool.RegisterBalanceProvider(&fakeBalances{
		networks: []network.ID{network.BNB},
		err:      errors.Wrap(errors.ErrProviderTransient, "rpc down"),
	})

	res := tool.Execute(userCtx(), map[string]interface{}{}, nil)

	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "temporarily unavailable")
}

func TestExecute_NetworkFilter(t *testing.T) {
	tool := newTestTool(t, network.BNB, network.Ethereum)
	tool.RegisterBalanceProvider(&fakeBalances{
		networks: []network.ID{network.BNB, network.Ethereum},
		balances: map[network.ID]decimal.Decimal{
			network.BNB:      decimal.RequireFromString("1"),
			network.Ethereum: decimal.RequireFromString("2"),
		},
	})

	res := tool.Execute(userCtx(), map[string]interface{}{"network": "ethereum"}, nil)

	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "ETH")
	assert.NotContains(t, res.Message, "BNB")

	res = tool.Execute(userCtx(), map[string]interface{}{"network": "solana"}, nil)
	assert.False(t, res.Success)
	assert.Contains(t, strings.ToLower(res.Message), "not available")
}

func TestExecute_NoUserHandle(t *testing.T) {
	tool := newTestTool(t, network.BNB)

	res := tool.Execute(context.Background(), map[string]interface{}{}, nil)
	assert.False(t, res.Success)
}
