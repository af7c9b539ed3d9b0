package launch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/network"
	"hermes/internal/domain/token"
	"hermes/internal/domain/wallet"
	"hermes/internal/providers"
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

type fakeLaunchpad struct {
	name     string
	networks []network.ID
	creation *providers.TokenCreation
	err      error

	mu    sync.Mutex
	calls []providers.CreateTokenParams
}

func (p *fakeLaunchpad) Name() string                    { return p.name }
func (p *fakeLaunchpad) SupportedNetworks() []network.ID { return p.networks }
func (p *fakeLaunchpad) Description() string             { return p.name }

func (p *fakeLaunchpad) CreateToken(_ context.Context, params providers.CreateTokenParams) (*providers.TokenCreation, error) {
	p.mu.Lock()
	p.calls = append(p.calls, params)
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.creation, nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string]*token.Info
}

func (c *memoryCache) Get(_ context.Context, net network.ID, symbol string) (*token.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.items[string(net)+"/"+symbol]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return info, nil
}

func (c *memoryCache) Set(_ context.Context, info *token.Info, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[string(info.Network)+"/"+info.Symbol] = info
	return nil
}

func newTestTool(t *testing.T) (*Tool, *token.Resolver) {
	t.Helper()
	enc, err := crypto.NewEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	wallets := wallet.NewService(&memoryRepo{wallets: make(map[string]*wallet.Wallet)}, enc)
	resolver := token.NewResolver(&memoryCache{items: make(map[string]*token.Info)})
	cfg := Config{
		DefaultNetwork: network.BNB,
		AgentNetworks:  []network.ID{network.BNB},
	}
	return New(cfg, wallets, resolver), resolver
}

func userCtx() context.Context {
	return tools.WithUserHandle(context.Background(), "bob")
}

func validArgs() map[string]interface{} {
	return map[string]interface{}{
		"name":        "My Meme Coin",
		"symbol":      "meme",
		"description": "A coin for tests",
	}
}

func TestExecute_LaunchesToken(t *testing.T) {
	tool, resolver := newTestTool(t)
	pad := &fakeLaunchpad{
		name:     "four-meme",
		networks: []network.ID{network.BNB},
		creation: &providers.TokenCreation{TokenAddress: "0xdeadbeef", TxHash: "0xlaunch"},
	}
	tool.RegisterProvider(pad)

	res := tool.Execute(userCtx(), validArgs(), nil)

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "0xlaunch", res.TxHash)
	assert.Contains(t, res.Message, "0xdeadbeef")
	assert.Contains(t, res.Message, "MEME")

	require.Len(t, pad.calls, 1)
	assert.Equal(t, "MEME", pad.calls[0].Symbol, "symbol uppercased")
	assert.True(t, pad.calls[0].InitialBuy.IsZero())

	// The fresh token resolves by symbol afterwards.
	info, err := resolver.Resolve(context.Background(), network.BNB, "meme")
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", info.Address)
}

func TestExecute_InitialBuyForwarded(t *testing.T) {
	tool, _ := newTestTool(t)
	pad := &fakeLaunchpad{
		name:     "four-meme",
		networks: []network.ID{network.BNB},
		creation: &providers.TokenCreation{TokenAddress: "0x1", TxHash: "0x2"},
	}
	tool.RegisterProvider(pad)

	args := validArgs()
	args["initial_buy"] = 0.25
	res := tool.Execute(userCtx(), args, nil)

	require.True(t, res.Success, res.Message)
	require.Len(t, pad.calls, 1)
	assert.True(t, pad.calls[0].InitialBuy.Equal(decimal.RequireFromString("0.25")))
}

func TestExecute_MissingRequiredFields(t *testing.T) {
	tool, _ := newTestTool(t)
	tool.RegisterProvider(&fakeLaunchpad{
		name: "pad", networks: []network.ID{network.BNB},
		creation: &providers.TokenCreation{},
	})

	for _, field := range []string{"name", "symbol", "description"} {
		t.Run("missing "+field, func(t *testing.T) {
			args := validArgs()
			delete(args, field)
			res := tool.Execute(userCtx(), args, nil)
			assert.False(t, res.Success)
			assert.Contains(t, res.Message, field)
		})
	}
}

func TestExecute_NoProviderForNetwork(t *testing.T) {
	tool, _ := newTestTool(t)

	res := tool.Execute(userCtx(), validArgs(), nil)
	assert.False(t, res.Success)
	assert.Contains(t, strings.ToLower(res.Message), "network")
}

func TestExecute_FirstRegisteredProviderWins(t *testing.T) {
	tool, _ := newTestTool(t)
	first := &fakeLaunchpad{
		name: "first", networks: []network.ID{network.BNB},
		creation: &providers.TokenCreation{TokenAddress: "0x1", TxHash: "0xfirst"},
	}
	second := &fakeLaunchpad{
		name: "second", networks: []network.ID{network.BNB},
		creation: &providers.TokenCreation{TokenAddress: "0x2", TxHash: "0xsecond"},
	}
	tool.RegisterProvider(first)
	tool.RegisterProvider(second)

	res := tool.Execute(userCtx(), validArgs(), nil)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "0xfirst", res.TxHash)
	assert.Empty(t, second.calls)
}

func TestExecute_ProviderFailureVerbatim(t *testing.T) {
	tool, _ := newTestTool(t)
	tool.RegisterProvider(&fakeLaunchpad{
		name: "pad", networks: []network.ID{network.BNB},
		err: errors.Wrapf(errors.ErrExternalService, "symbol already taken"),
	})

	res := tool.Execute(userCtx(), validArgs(), nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "symbol already taken")
}
