// Package pancakeswap quotes swaps against the PancakeSwap V2 router with a
// read-only eth_call and delegates execution to the off-chain swap execution
// service, mirroring how the launchpad provider executes.
package pancakeswap

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"strings"
	"time"

	gethcore "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"hermes/internal/domain/network"
	"hermes/internal/metrics"
	"hermes/internal/providers"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const (
	providerName   = "pancakeswap"
	defaultTimeout = 15 * time.Second

	// PancakeSwap V2 router and wrapped native token on BNB Chain.
	routerAddress = "0x10ED43C718714eb63d5aA57B78B54704E256024E"
	wbnbAddress   = "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"

	// Quotes and amounts assume 18-decimal tokens, the BNB Chain default.
	tokenDecimals = 18
)

const routerABI = `[{"constant":true,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"}]`

// ContractCaller is the subset of ethclient.Client used for quoting.
type ContractCaller interface {
	CallContract(ctx context.Context, msg gethcore.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Config configures the PancakeSwap provider.
type Config struct {
	// ExecutionURL is the off-chain swap execution endpoint.
	ExecutionURL string
	Timeout      time.Duration
}

// Provider implements providers.SwapProvider for PancakeSwap V2.
type Provider struct {
	caller     ContractCaller
	router     common.Address
	wbnb       common.Address
	routerABI  abi.ABI
	execURL    string
	httpClient *http.Client
	log        *logger.Logger
}

var _ providers.SwapProvider = (*Provider)(nil)

// New creates a PancakeSwap provider over an EVM contract caller.
func New(caller ContractCaller, cfg Config) (*Provider, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse router ABI")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Provider{
		caller:     caller,
		router:     common.HexToAddress(routerAddress),
		wbnb:       common.HexToAddress(wbnbAddress),
		routerABI:  parsed,
		execURL:    cfg.ExecutionURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Get().With("component", "pancakeswap_provider"),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// SupportedNetworks declares PancakeSwap's networks.
func (p *Provider) SupportedNetworks() []network.ID {
	return []network.ID{network.BNB}
}

// Description summarizes the provider's capabilities for agent routing.
func (p *Provider) Description() string {
	return "PancakeSwap V2 DEX router: swaps any listed BEP-20 pair on BNB Chain"
}

// Quote asks the router for the expected output of the exact requested amount.
func (p *Provider) Quote(ctx context.Context, params providers.SwapParams) (*providers.Quote, error) {
	path := p.swapPath(params)
	amountIn := toWei(params.Amount)

	input, err := p.routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode getAmountsOut")
	}

	output, err := p.caller.CallContract(ctx, gethcore.CallMsg{To: &p.router, Data: input}, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrProviderTransient, "router call failed: %v", err)
	}

	amounts, err := p.unpackAmounts(output)
	if err != nil {
		return nil, err
	}
	if len(amounts) < 2 {
		return nil, errors.Wrap(errors.ErrInsufficientLiquidity, "router returned no route")
	}
	out := amounts[len(amounts)-1]
	if out.Sign() <= 0 {
		return nil, errors.Wrap(errors.ErrInsufficientLiquidity, "zero output for requested amount")
	}

	return &providers.Quote{
		Provider:     providerName,
		Network:      params.Network,
		InputAmount:  params.Amount,
		OutputAmount: fromWei(out),
		SlippageBps:  params.SlippageBps,
		Raw:          amounts,
	}, nil
}

// Execute submits the swap through the execution service. The secret key is
// revealed only while the payload is built.
func (p *Provider) Execute(ctx context.Context, params providers.SwapParams, quote *providers.Quote) (*providers.ExecutionResult, error) {
	if p.execURL == "" {
		return nil, errors.Wrap(errors.ErrUnavailable, "swap execution endpoint is not configured")
	}

	keypair, err := params.Credential.Reveal()
	if err != nil {
		return nil, errors.Wrap(err, "failed to materialize wallet secret")
	}

	tokenAddress := params.TokenOut
	if params.Side == providers.SideSell {
		tokenAddress = params.TokenIn
	}
	body, err := json.Marshal(map[string]interface{}{
		"provider":      providerName,
		"token_address": tokenAddress,
		"amount_sol":    params.Amount.InexactFloat64(),
		"slippage":      float64(params.SlippageBps) / 100,
		"side":          string(params.Side),
		"keypair":       keypair,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal execution payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.execURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(req)
	metrics.ObserveProviderCall(providerName, "execute", err)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrProviderTransient, "execution service unreachable: %v", err)
	}
	defer httpResp.Body.Close()

	var resp struct {
		Code            int     `json:"code"`
		Message         string  `json:"message"`
		TokensReceived  float64 `json:"tokens_received"`
		TransactionHash string  `json:"transaction_hash"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, errors.Wrapf(errors.ErrProviderTransient, "failed to decode execution response: %v", err)
	}
	if resp.Code != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrExternalService, "%s", resp.Message)
	}

	return &providers.ExecutionResult{
		TxHash:         resp.TransactionHash,
		RealizedOutput: decimal.NewFromFloat(resp.TokensReceived),
	}, nil
}

func (p *Provider) swapPath(params providers.SwapParams) []common.Address {
	if params.Side == providers.SideSell {
		return []common.Address{common.HexToAddress(params.TokenIn), p.wbnb}
	}
	return []common.Address{p.wbnb, common.HexToAddress(params.TokenOut)}
}

func (p *Provider) unpackAmounts(output []byte) ([]*big.Int, error) {
	values, err := p.routerABI.Unpack("getAmountsOut", output)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrProviderTransient, "failed to decode router output: %v", err)
	}
	amounts, ok := values[0].([]*big.Int)
	if !ok {
		return nil, errors.Wrap(errors.ErrProviderTransient, "unexpected router output shape")
	}
	return amounts, nil
}

func toWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(tokenDecimals).BigInt()
}

func fromWei(amount *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(amount, -tokenDecimals)
}
