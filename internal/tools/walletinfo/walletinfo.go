package walletinfo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/network"
	"hermes/internal/domain/token"
	"hermes/internal/domain/wallet"
	"hermes/internal/metrics"
	"hermes/internal/providers"
	"hermes/internal/tools"
	"hermes/pkg/logger"
)

// wrappedNative maps a network to the symbol whose address prices the native
// coin on external price feeds.
var wrappedNative = map[network.ID]string{
	network.BNB:      "WBNB",
	network.Ethereum: "WETH",
	network.Solana:   "SOL",
}

var nativeSymbols = map[network.ID]string{
	network.BNB:      "BNB",
	network.Ethereum: "ETH",
	network.Solana:   "SOL",
}

// Config carries the tool's static wiring.
type Config struct {
	AgentNetworks []network.ID
}

// Tool reports the user's wallet address and native balances. The wallet is
// created on first use, so asking about it is enough to get one.
type Tool struct {
	cfg      Config
	balances *providers.Registry[providers.BalanceProvider]
	prices   *providers.Registry[providers.PriceProvider]
	wallets  *wallet.Service
	tokens   *token.Resolver
	log      *logger.Logger
}

// New creates the wallet tool.
func New(cfg Config, wallets *wallet.Service, tokens *token.Resolver) *Tool {
	return &Tool{
		cfg:      cfg,
		balances: providers.NewRegistry[providers.BalanceProvider](),
		prices:   providers.NewRegistry[providers.PriceProvider](),
		wallets:  wallets,
		tokens:   tokens,
		log:      logger.Get().With("tool", "wallet"),
	}
}

// RegisterBalanceProvider adds a balance source.
func (t *Tool) RegisterBalanceProvider(p providers.BalanceProvider) {
	t.balances.Register(p)
}

// RegisterPriceProvider adds a USD price source. Optional; without one the
// tool reports balances without valuations.
func (t *Tool) RegisterPriceProvider(p providers.PriceProvider) {
	t.prices.Register(p)
}

func (t *Tool) Name() string { return "wallet" }

func (t *Tool) Description() string {
	return fmt.Sprintf(
		"Show the user's wallet address and native coin balances. Networks: %s.",
		strings.Join(network.Strings(t.cfg.AgentNetworks), ", "))
}

func (t *Tool) Schema() tools.Schema {
	return tools.Schema{
		Properties: map[string]tools.Property{
			"network": {
				Type:        "string",
				Description: "Limit the report to one network; omit for all",
			},
		},
	}
}

// Execute returns the wallet address plus per-network balances. Balance
// lookups that fail degrade to a note for that network instead of failing
// the whole report.
func (t *Tool) Execute(ctx context.Context, args map[string]interface{}, onProgress tools.ProgressFunc) (result tools.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorw("wallet tool panicked", "panic", r)
			result = tools.Failure("Wallet lookup failed due to an internal error, please try again.")
		}
		metrics.ObserveTool(t.Name(), time.Since(start), result.Success)
	}()

	onProgress.Report(tools.StageValidating, "Loading wallet")

	if err := t.Schema().Validate(args); err != nil {
		return tools.Failure(err.Error())
	}

	handle, ok := tools.UserHandleFromContext(ctx)
	if !ok {
		return tools.Failure("No user is associated with this request, cannot access a wallet.")
	}
	w, err := t.wallets.GetOrCreateWallet(ctx, handle)
	if err != nil {
		t.log.Errorw("wallet lookup failed", "handle", handle, "error", err)
		return tools.Failure("Could not access your wallet, please try again.")
	}

	nets := t.cfg.AgentNetworks
	if raw := tools.StringArg(args, "network"); raw != "" {
		requested := network.ID(raw)
		if !network.NewSet(t.cfg.AgentNetworks...).Contains(requested) {
			return tools.Failure(fmt.Sprintf(
				"Network %s is not available, configured networks: %s.",
				requested, strings.Join(network.Strings(t.cfg.AgentNetworks), ", ")))
		}
		nets = []network.ID{requested}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wallet address: %s", w.PublicKey)
	for _, net := range nets {
		b.WriteString("\n")
		b.WriteString(t.networkLine(ctx, net, w.PublicKey))
	}

	return tools.SuccessResult(b.String(), "")
}

func (t *Tool) networkLine(ctx context.Context, net network.ID, address string) string {
	symbol := nativeSymbols[net]

	candidates := t.balances.ForNetwork(net)
	if len(candidates) == 0 {
		return fmt.Sprintf("%s: no balance source configured", net)
	}

	balance, err := candidates[0].NativeBalance(ctx, net, address)
	metrics.ObserveProviderCall(candidates[0].Name(), "balance", err)
	if err != nil {
		t.log.Warnw("balance lookup failed", "network", net, "error", err)
		return fmt.Sprintf("%s: balance temporarily unavailable", net)
	}

	line := fmt.Sprintf("%s: %s %s", net, balance.String(), symbol)

	// Valuation is a nicety; a missing price never degrades the balance line.
	if usd, ok := t.nativePrice(ctx, net); ok {
		line += fmt.Sprintf(" (~$%s)", balance.Mul(usd).Round(2).String())
	}
	return line
}

func (t *Tool) nativePrice(ctx context.Context, net network.ID) (price decimal.Decimal, ok bool) {
	candidates := t.prices.ForNetwork(net)
	if len(candidates) == 0 {
		return decimal.Zero, false
	}

	info, err := t.tokens.Resolve(ctx, net, wrappedNative[net])
	if err != nil {
		return decimal.Zero, false
	}

	price, err = candidates[0].TokenPrice(ctx, net, info.Address)
	metrics.ObserveProviderCall(candidates[0].Name(), "price", err)
	if err != nil {
		t.log.Warnw("price lookup failed", "network", net, "error", err)
		return decimal.Zero, false
	}
	return price, true
}
