package providers

import (
	"context"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/network"
	"hermes/internal/domain/wallet"
)

// Provider is the base capability unit: something that can quote and/or
// execute one operation kind on a declared set of networks. The registry
// holds providers behind this interface, never behind concrete types.
type Provider interface {
	// Name returns the stable provider identifier used for registry lookup.
	Name() string

	// SupportedNetworks declares the networks this provider can serve. The
	// identifiers share one space with agent configuration; intersection is
	// computed by plain equality.
	SupportedNetworks() []network.ID

	// Description is a static capability summary, aggregated into tool
	// descriptions for agent routing.
	Description() string
}

// Side discriminates buy-style from sell-style swaps. Selection maximizes
// output for buys and minimizes input cost for sells.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// SwapParams carries a fully resolved swap request to a provider. Amounts are
// denominated in the input token; the credential stays opaque until the
// provider builds its outbound payload.
type SwapParams struct {
	Network     network.ID
	TokenIn     string
	TokenOut    string
	Amount      decimal.Decimal
	Side        Side
	SlippageBps int64
	Credential  wallet.Credential
}

// Quote is a provider's pre-execution estimate. Transient: computed per
// request, never persisted.
type Quote struct {
	Provider     string
	Network      network.ID
	InputAmount  decimal.Decimal
	OutputAmount decimal.Decimal
	SlippageBps  int64
	Raw          interface{}
}

// ExecutionResult is the outcome of a provider's execution call.
type ExecutionResult struct {
	TxHash         string
	RealizedOutput decimal.Decimal
}

// SwapProvider quotes and executes token swaps.
type SwapProvider interface {
	Provider

	// Quote estimates the swap outcome for the exact requested amount.
	Quote(ctx context.Context, params SwapParams) (*Quote, error)

	// Execute performs the swap previously quoted. Once issued it is never
	// cancelled; only its result may arrive late.
	Execute(ctx context.Context, params SwapParams, quote *Quote) (*ExecutionResult, error)
}

// CreateTokenParams describes a token launch request.
type CreateTokenParams struct {
	Network     network.ID
	Name        string
	Symbol      string
	Description string
	ImageURL    string
	// InitialBuy optionally buys a small amount right after launch to
	// protect the token from snipers. Zero disables it.
	InitialBuy decimal.Decimal
	Credential wallet.Credential
}

// TokenCreation is the outcome of a token launch.
type TokenCreation struct {
	TokenAddress string
	TxHash       string
}

// TokenProvider launches new tokens.
type TokenProvider interface {
	Provider

	CreateToken(ctx context.Context, params CreateTokenParams) (*TokenCreation, error)
}

// BalanceProvider looks up native-coin balances.
type BalanceProvider interface {
	Provider

	NativeBalance(ctx context.Context, net network.ID, address string) (decimal.Decimal, error)
}

// PriceProvider quotes token prices in USD.
type PriceProvider interface {
	Provider

	TokenPrice(ctx context.Context, net network.ID, address string) (decimal.Decimal, error)
}
