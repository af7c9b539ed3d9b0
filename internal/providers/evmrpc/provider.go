// Package evmrpc exposes native-coin balance lookups over plain JSON-RPC
// nodes, one client per configured EVM network.
package evmrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"hermes/internal/domain/network"
	"hermes/internal/metrics"
	"hermes/internal/providers"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const (
	providerName   = "evm-rpc"
	nativeDecimals = 18
)

// BalanceReader is the subset of ethclient.Client used for balance lookups.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Provider implements providers.BalanceProvider over per-network RPC clients.
type Provider struct {
	clients map[network.ID]BalanceReader
	order   []network.ID
	log     *logger.Logger
}

var _ providers.BalanceProvider = (*Provider)(nil)

// New creates an RPC balance provider from pre-dialed clients.
func New(clients map[network.ID]BalanceReader, order []network.ID) *Provider {
	return &Provider{
		clients: clients,
		order:   order,
		log:     logger.Get().With("component", "evmrpc_provider"),
	}
}

// Dial connects to each configured RPC URL and builds a provider.
func Dial(ctx context.Context, rpcURLs map[network.ID]string) (*Provider, error) {
	clients := make(map[network.ID]BalanceReader, len(rpcURLs))
	var order []network.ID
	for id, rawURL := range rpcURLs {
		if rawURL == "" {
			continue
		}
		client, err := ethclient.DialContext(ctx, rawURL)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to dial %s RPC", id)
		}
		clients[id] = client
		order = append(order, id)
	}
	return New(clients, order), nil
}

// DialCaller connects to one RPC URL for contract-call use, such as on-chain
// quoting.
func DialCaller(ctx context.Context, rawURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial RPC %s", rawURL)
	}
	return client, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// SupportedNetworks declares the networks with a configured RPC endpoint.
func (p *Provider) SupportedNetworks() []network.ID {
	out := make([]network.ID, len(p.order))
	copy(out, p.order)
	return out
}

// Description summarizes the provider's capabilities for agent routing.
func (p *Provider) Description() string {
	return "EVM JSON-RPC: native coin balances on configured networks"
}

// NativeBalance returns the native-coin balance of an address.
func (p *Provider) NativeBalance(ctx context.Context, net network.ID, address string) (decimal.Decimal, error) {
	client, ok := p.clients[net]
	if !ok {
		return decimal.Zero, errors.Wrapf(errors.ErrUnsupportedNetwork, "no RPC endpoint for %s", net)
	}
	if !common.IsHexAddress(address) {
		return decimal.Zero, errors.NewValidationError("address", "not a valid hex address", address)
	}

	wei, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	metrics.ObserveProviderCall(providerName, "balance", err)
	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.ErrProviderTransient, "balance lookup failed: %v", err)
	}

	return decimal.NewFromBigInt(wei, -nativeDecimals), nil
}
