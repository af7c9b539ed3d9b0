package swap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"hermes/internal/domain/network"
	"hermes/internal/domain/token"
	"hermes/internal/domain/wallet"
	"hermes/internal/metrics"
	"hermes/internal/providers"
	"hermes/internal/tools"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// nativeSymbols maps a network to its gas coin, used for user-facing messages
// and for the implicit side of buy/sell swaps.
var nativeSymbols = map[network.ID]string{
	network.BNB:      "BNB",
	network.Ethereum: "ETH",
	network.Solana:   "SOL",
}

// Config carries the tool's static wiring.
type Config struct {
	// DefaultNetwork is used when a request does not name a network.
	DefaultNetwork network.ID

	// AgentNetworks restricts the tool to the networks the hosting agent
	// operates on. A provider-declared network outside this list is never
	// served.
	AgentNetworks []network.ID

	// StaticNetworks are declared by the tool itself, before any provider
	// registers. The tool's supported set is their union with provider
	// declarations.
	StaticNetworks []network.ID

	// DefaultSlippageBps applies when a request does not set slippage.
	DefaultSlippageBps int64

	// QuoteTimeout bounds each provider's quote call during selection.
	QuoteTimeout time.Duration
}

// Tool swaps tokens through the best available provider. Buys spend the
// network's native coin; sells liquidate a token back into it.
type Tool struct {
	cfg      Config
	registry *providers.Registry[providers.SwapProvider]
	selector *providers.Selector
	wallets  *wallet.Service
	tokens   *token.Resolver
	log      *logger.Logger
}

// New creates the swap tool. Providers register afterwards, before serving.
func New(cfg Config, wallets *wallet.Service, tokens *token.Resolver) *Tool {
	return &Tool{
		cfg:      cfg,
		registry: providers.NewRegistry[providers.SwapProvider](),
		selector: providers.NewSelector(cfg.QuoteTimeout),
		wallets:  wallets,
		tokens:   tokens,
		log:      logger.Get().With("tool", "swap"),
	}
}

// RegisterProvider adds a swap provider. Its declared networks extend the
// tool's supported set; whether they become usable still depends on the
// agent's network configuration.
func (t *Tool) RegisterProvider(p providers.SwapProvider) {
	t.registry.Register(p)
	t.log.Infow("swap provider registered",
		"provider", p.Name(), "networks", network.Strings(p.SupportedNetworks()))
}

func (t *Tool) Name() string { return "swap" }

// Description aggregates provider capabilities so the agent can route
// requests without knowing individual providers.
func (t *Tool) Description() string {
	var b strings.Builder
	b.WriteString("Buy or sell tokens using the best quote across providers.")

	if names := t.registry.Names(); len(names) > 0 {
		fmt.Fprintf(&b, " Providers: %s.", strings.Join(names, ", "))
	}
	if nets := t.effectiveNetworks(); len(nets) > 0 {
		fmt.Fprintf(&b, " Networks: %s.", strings.Join(network.Strings(nets), ", "))
	}
	return b.String()
}

func (t *Tool) Schema() tools.Schema {
	return tools.Schema{
		Properties: map[string]tools.Property{
			"token": {
				Type:        "string",
				Description: "Token to trade, as a symbol (e.g. CAKE) or a contract address",
			},
			"amount": {
				Type:        "number",
				Description: "Amount to spend (buy, in native coin) or to sell (in the token)",
			},
			"side": {
				Type:        "string",
				Description: "buy spends native coin for the token, sell does the reverse",
				Enum:        []string{"buy", "sell"},
			},
			"network": {
				Type:        "string",
				Description: "Network to trade on; omit for the default",
			},
			"slippage": {
				Type:        "number",
				Description: "Max slippage in basis points; omit for the default",
			},
			"provider": {
				Type:        "string",
				Description: "Force a specific provider instead of best-quote selection",
			},
		},
		Required: []string{"token", "amount", "side"},
	}
}

// Execute runs the swap end to end: validation, network and token resolution,
// provider selection, execution, slippage enforcement. Every outcome, panics
// included, lands in a Result.
func (t *Tool) Execute(ctx context.Context, args map[string]interface{}, onProgress tools.ProgressFunc) (result tools.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorw("swap tool panicked", "panic", r)
			result = tools.Failure("Swap failed due to an internal error, please try again.")
		}
		metrics.ObserveTool(t.Name(), time.Since(start), result.Success)
	}()

	onProgress.Report(tools.StageValidating, "Validating swap request")

	req, err := t.parseRequest(args)
	if err != nil {
		return tools.Failure(err.Error())
	}

	handle, ok := tools.UserHandleFromContext(ctx)
	if !ok {
		return tools.Failure("No user is associated with this request, cannot access a wallet.")
	}

	info, err := t.tokens.Resolve(ctx, req.net, req.token)
	if err != nil {
		return tools.Failure(err.Error())
	}

	w, err := t.wallets.GetOrCreateWallet(ctx, handle)
	if err != nil {
		t.log.Errorw("wallet lookup failed", "handle", handle, "error", err)
		return tools.Failure("Could not access your wallet, please try again.")
	}

	params := providers.SwapParams{
		Network:     req.net,
		Amount:      req.amount,
		Side:        req.side,
		SlippageBps: req.slippageBps,
		Credential:  t.wallets.Credential(w),
	}
	if req.side == providers.SideBuy {
		params.TokenIn = nativeSymbols[req.net]
		params.TokenOut = info.Address
	} else {
		params.TokenIn = info.Address
		params.TokenOut = nativeSymbols[req.net]
	}

	onProgress.Report(tools.StageQuoting, fmt.Sprintf("Finding the best quote on %s", req.net))

	candidates, err := t.candidates(req)
	if err != nil {
		return tools.Failure(err.Error())
	}

	provider, quote, err := t.selector.BestQuote(ctx, candidates, params)
	if err != nil {
		t.log.Warnw("no usable quote", "network", req.net, "token", req.token, "error", err)
		return tools.Failure(err.Error())
	}

	onProgress.Report(tools.StageSubmitting,
		fmt.Sprintf("Submitting %s via %s", req.side, provider.Name()))

	exec, err := provider.Execute(ctx, params, quote)
	metrics.ObserveProviderCall(provider.Name(), "execute", err)
	if err != nil {
		t.log.Errorw("swap execution failed",
			"provider", provider.Name(), "network", req.net, "error", err)
		return tools.Failure(err.Error())
	}

	// Providers that do not report realized output skip the guard; there is
	// nothing to compare against.
	if exec.RealizedOutput.IsPositive() {
		if err := providers.EnforceSlippage(quote, exec.RealizedOutput, req.slippageBps); err != nil {
			t.log.Warnw("slippage guard tripped",
				"provider", provider.Name(), "tx_hash", exec.TxHash, "error", err)
			return tools.Failure(err.Error())
		}
	}

	onProgress.Report(tools.StageConfirmed, "Swap confirmed")

	msg := t.successMessage(req, info, provider.Name(), quote, exec)
	t.log.Infow("swap executed",
		"provider", provider.Name(), "network", req.net, "side", req.side,
		"amount", req.amount.String(), "tx_hash", exec.TxHash)
	return tools.SuccessResult(msg, exec.TxHash)
}

type request struct {
	token        string
	amount       decimal.Decimal
	side         providers.Side
	net          network.ID
	slippageBps  int64
	providerName string
}

func (t *Tool) parseRequest(args map[string]interface{}) (*request, error) {
	if err := t.Schema().Validate(args); err != nil {
		return nil, err
	}

	amount, err := tools.PositiveDecimalArg(args, "amount")
	if err != nil {
		return nil, err
	}

	slippage := t.cfg.DefaultSlippageBps
	if _, ok := args["slippage"]; ok {
		slippage, err = tools.Int64Arg(args, "slippage")
		if err != nil {
			return nil, err
		}
		if slippage <= 0 || slippage > 10000 {
			return nil, errors.NewValidationError("slippage",
				"must be between 1 and 10000 basis points", slippage)
		}
	}

	req := &request{
		token:        tools.StringArg(args, "token"),
		amount:       amount,
		side:         providers.Side(tools.StringArg(args, "side")),
		net:          network.ID(tools.StringArg(args, "network")),
		slippageBps:  slippage,
		providerName: tools.StringArg(args, "provider"),
	}
	if req.net == "" {
		req.net = t.cfg.DefaultNetwork
	}

	if !t.networkSupported(req.net) {
		return nil, errors.Wrapf(errors.ErrUnsupportedNetwork,
			"network %s is not supported by this tool, available networks: %s",
			req.net, strings.Join(network.Strings(t.effectiveNetworks()), ", "))
	}
	return req, nil
}

// candidates returns the providers eligible for the request: either the one
// explicitly named, or every provider declaring the network.
func (t *Tool) candidates(req *request) ([]providers.SwapProvider, error) {
	if req.providerName != "" {
		p, err := t.registry.Get(req.providerName)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrNotFound,
				"provider %s is not available, registered providers: %s",
				req.providerName, strings.Join(t.registry.Names(), ", "))
		}
		return []providers.SwapProvider{p}, nil
	}
	return t.registry.ForNetwork(req.net), nil
}

// effectiveNetworks is the tool's supported set (static plus provider
// declarations) intersected with the agent's configured networks.
func (t *Tool) effectiveNetworks() []network.ID {
	seen := network.NewSet(t.cfg.StaticNetworks...)
	supported := append([]network.ID{}, t.cfg.StaticNetworks...)
	for _, id := range t.registry.SupportedNetworks() {
		if !seen.Contains(id) {
			seen.Add(id)
			supported = append(supported, id)
		}
	}
	return network.NewSet(t.cfg.AgentNetworks...).Intersect(supported)
}

func (t *Tool) networkSupported(id network.ID) bool {
	for _, n := range t.effectiveNetworks() {
		if n == id {
			return true
		}
	}
	return false
}

func (t *Tool) successMessage(req *request, info *token.Info, provider string, quote *providers.Quote, exec *providers.ExecutionResult) string {
	native := nativeSymbols[req.net]
	display := info.Symbol
	if display == "" {
		display = info.Address
	}

	received := quote.OutputAmount
	if exec.RealizedOutput.IsPositive() {
		received = exec.RealizedOutput
	}

	if req.side == providers.SideBuy {
		return fmt.Sprintf("Bought %s %s for %s %s via %s. Transaction: %s",
			formatAmount(received), display, formatAmount(req.amount), native, provider, exec.TxHash)
	}
	return fmt.Sprintf("Sold %s %s for %s %s via %s. Transaction: %s",
		formatAmount(req.amount), display, formatAmount(received), native, provider, exec.TxHash)
}

// formatAmount renders a decimal for humans: thousands separators for large
// values, trimmed precision for small ones.
func formatAmount(d decimal.Decimal) string {
	f, _ := d.Float64()
	if d.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return humanize.CommafWithDigits(f, 2)
	}
	return humanize.FtoaWithDigits(f, 6)
}
