package launch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hermes/internal/domain/network"
	"hermes/internal/domain/token"
	"hermes/internal/domain/wallet"
	"hermes/internal/metrics"
	"hermes/internal/providers"
	"hermes/internal/tools"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Config carries the tool's static wiring.
type Config struct {
	DefaultNetwork network.ID
	AgentNetworks  []network.ID
}

// Tool launches new tokens through a launchpad provider. The first registered
// provider declaring the target network handles the launch.
type Tool struct {
	cfg      Config
	registry *providers.Registry[providers.TokenProvider]
	wallets  *wallet.Service
	tokens   *token.Resolver
	log      *logger.Logger
}

// New creates the token launch tool.
func New(cfg Config, wallets *wallet.Service, tokens *token.Resolver) *Tool {
	return &Tool{
		cfg:      cfg,
		registry: providers.NewRegistry[providers.TokenProvider](),
		wallets:  wallets,
		tokens:   tokens,
		log:      logger.Get().With("tool", "create_token"),
	}
}

// RegisterProvider adds a launchpad provider.
func (t *Tool) RegisterProvider(p providers.TokenProvider) {
	t.registry.Register(p)
	t.log.Infow("token provider registered",
		"provider", p.Name(), "networks", network.Strings(p.SupportedNetworks()))
}

func (t *Tool) Name() string { return "create_token" }

func (t *Tool) Description() string {
	var b strings.Builder
	b.WriteString("Launch a new token with a name, symbol and description.")
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
			"name": {
				Type:        "string",
				Description: "Token name, e.g. My Meme Coin",
			},
			"symbol": {
				Type:        "string",
				Description: "Ticker symbol, e.g. MEME",
			},
			"description": {
				Type:        "string",
				Description: "Short description shown on the launchpad",
			},
			"image_url": {
				Type:        "string",
				Description: "Optional logo image URL",
			},
			"initial_buy": {
				Type:        "number",
				Description: "Optional amount of native coin to buy right after launch",
			},
			"network": {
				Type:        "string",
				Description: "Network to launch on; omit for the default",
			},
		},
		Required: []string{"name", "symbol", "description"},
	}
}

// Execute launches the token and optionally performs the protective first buy.
func (t *Tool) Execute(ctx context.Context, args map[string]interface{}, onProgress tools.ProgressFunc) (result tools.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorw("create_token tool panicked", "panic", r)
			result = tools.Failure("Token launch failed due to an internal error, please try again.")
		}
		metrics.ObserveTool(t.Name(), time.Since(start), result.Success)
	}()

	onProgress.Report(tools.StageValidating, "Validating token launch request")

	if err := t.Schema().Validate(args); err != nil {
		return tools.Failure(err.Error())
	}

	initialBuy, err := tools.DecimalArg(args, "initial_buy")
	if err != nil {
		return tools.Failure(err.Error())
	}
	if initialBuy.IsNegative() {
		return tools.Failure("initial_buy must not be negative.")
	}

	net := network.ID(tools.StringArg(args, "network"))
	if net == "" {
		net = t.cfg.DefaultNetwork
	}

	provider, err := t.providerFor(net)
	if err != nil {
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

	params := providers.CreateTokenParams{
		Network:     net,
		Name:        tools.StringArg(args, "name"),
		Symbol:      strings.ToUpper(tools.StringArg(args, "symbol")),
		Description: tools.StringArg(args, "description"),
		ImageURL:    tools.StringArg(args, "image_url"),
		InitialBuy:  initialBuy,
		Credential:  t.wallets.Credential(w),
	}

	onProgress.Report(tools.StageSubmitting,
		fmt.Sprintf("Launching %s via %s", params.Symbol, provider.Name()))

	creation, err := provider.CreateToken(ctx, params)
	metrics.ObserveProviderCall(provider.Name(), "create_token", err)
	if err != nil {
		t.log.Errorw("token launch failed",
			"provider", provider.Name(), "symbol", params.Symbol, "error", err)
		return tools.Failure(err.Error())
	}

	// Make the fresh token addressable by symbol in later swap requests.
	t.tokens.Remember(ctx, &token.Info{
		Network: net,
		Symbol:  params.Symbol,
		Name:    params.Name,
		Address: creation.TokenAddress,
	})

	onProgress.Report(tools.StageConfirmed, "Token launched")

	t.log.Infow("token launched",
		"provider", provider.Name(), "symbol", params.Symbol,
		"address", creation.TokenAddress, "tx_hash", creation.TxHash)
	return tools.SuccessResult(fmt.Sprintf(
		"Launched %s (%s) at %s via %s. Transaction: %s",
		params.Name, params.Symbol, creation.TokenAddress, provider.Name(), creation.TxHash,
	), creation.TxHash)
}

// providerFor returns the first registered provider serving the network.
func (t *Tool) providerFor(net network.ID) (providers.TokenProvider, error) {
	if !network.NewSet(t.cfg.AgentNetworks...).Contains(net) {
		return nil, errors.Wrapf(errors.ErrUnsupportedNetwork,
			"network %s is not supported by this tool, available networks: %s",
			net, strings.Join(network.Strings(t.effectiveNetworks()), ", "))
	}
	candidates := t.registry.ForNetwork(net)
	if len(candidates) == 0 {
		return nil, errors.Wrapf(errors.ErrUnsupportedNetwork,
			"no launchpad provider supports network %s", net)
	}
	return candidates[0], nil
}

func (t *Tool) effectiveNetworks() []network.ID {
	return network.NewSet(t.cfg.AgentNetworks...).Intersect(t.registry.SupportedNetworks())
}
