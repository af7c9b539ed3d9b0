// Package fourmeme adapts the four.meme token-launchpad REST service to the
// provider contract. The service executes buys/sells and launches tokens
// off-chain on the caller's behalf; every response carries a numeric status
// discriminator where 200 means success.
package fourmeme

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"hermes/internal/domain/network"
	"hermes/internal/metrics"
	"hermes/internal/providers"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const (
	providerName   = "fourmeme"
	defaultTimeout = 15 * time.Second
)

// Config configures the four.meme client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RateLimitRPS float64
}

// Provider implements providers.SwapProvider and providers.TokenProvider
// against the four.meme REST API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

var (
	_ providers.SwapProvider  = (*Provider)(nil)
	_ providers.TokenProvider = (*Provider)(nil)
)

// New creates a four.meme provider.
func New(cfg Config) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 5
	}
	return &Provider{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        logger.Get().With("component", "fourmeme_provider"),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// SupportedNetworks declares four.meme's networks.
func (p *Provider) SupportedNetworks() []network.ID {
	return []network.ID{network.BNB}
}

// Description summarizes the provider's capabilities for agent routing.
func (p *Provider) Description() string {
	return "four.meme launchpad: launches meme tokens on BNB Chain and trades tokens listed there"
}

// apiResponse is the service's uniform envelope. code == 200 means success;
// anything else carries a diagnostic message.
type apiResponse struct {
	Code            int     `json:"code"`
	Message         string  `json:"message"`
	TokenAddress    string  `json:"token_address"`
	TokensReceived  float64 `json:"tokens_received"`
	TransactionHash string  `json:"transaction_hash"`
}

type tradePayload struct {
	TokenAddress string  `json:"token_address"`
	AmountSol    float64 `json:"amount_sol"`
	Slippage     float64 `json:"slippage"`
	Keypair      string  `json:"keypair,omitempty"`
}

type launchPayload struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Quote estimates a trade without submitting it.
func (p *Provider) Quote(ctx context.Context, params providers.SwapParams) (*providers.Quote, error) {
	payload := tradePayload{
		TokenAddress: params.TokenOut,
		AmountSol:    params.Amount.InexactFloat64(),
		Slippage:     float64(params.SlippageBps) / 100,
	}
	if params.Side == providers.SideSell {
		payload.TokenAddress = params.TokenIn
	}

	resp, err := p.post(ctx, "/quote-token", payload)
	if err != nil {
		return nil, err
	}

	return &providers.Quote{
		Provider:     providerName,
		Network:      params.Network,
		InputAmount:  params.Amount,
		OutputAmount: decimal.NewFromFloat(resp.TokensReceived),
		SlippageBps:  params.SlippageBps,
		Raw:          resp,
	}, nil
}

// Execute submits the trade. The wallet secret is materialized here, at the
// outbound payload boundary, and nowhere earlier.
func (p *Provider) Execute(ctx context.Context, params providers.SwapParams, quote *providers.Quote) (*providers.ExecutionResult, error) {
	keypair, err := params.Credential.Reveal()
	if err != nil {
		return nil, errors.Wrap(err, "failed to materialize wallet secret")
	}

	payload := tradePayload{
		TokenAddress: params.TokenOut,
		AmountSol:    params.Amount.InexactFloat64(),
		Slippage:     float64(params.SlippageBps) / 100,
		Keypair:      keypair,
	}
	path := "/buy-token"
	if params.Side == providers.SideSell {
		payload.TokenAddress = params.TokenIn
		path = "/sell-token"
	}

	resp, err := p.post(ctx, path, payload)
	metrics.ObserveProviderCall(providerName, "execute", err)
	if err != nil {
		return nil, err
	}

	return &providers.ExecutionResult{
		TxHash:         resp.TransactionHash,
		RealizedOutput: decimal.NewFromFloat(resp.TokensReceived),
	}, nil
}

// CreateToken launches a new token, optionally buying a small protective
// amount right after launch.
func (p *Provider) CreateToken(ctx context.Context, params providers.CreateTokenParams) (*providers.TokenCreation, error) {
	resp, err := p.post(ctx, "/launch-token", launchPayload{
		Name:        params.Name,
		Symbol:      params.Symbol,
		Description: params.Description,
		ImageURL:    params.ImageURL,
	})
	metrics.ObserveProviderCall(providerName, "create_token", err)
	if err != nil {
		return nil, err
	}

	creation := &providers.TokenCreation{
		TokenAddress: resp.TokenAddress,
		TxHash:       resp.TransactionHash,
	}

	if params.InitialBuy.IsPositive() {
		_, buyErr := p.Execute(ctx, providers.SwapParams{
			Network:     params.Network,
			TokenOut:    creation.TokenAddress,
			Amount:      params.InitialBuy,
			Side:        providers.SideBuy,
			SlippageBps: 500,
			Credential:  params.Credential,
		}, nil)
		if buyErr != nil {
			// The launch itself succeeded, keep the token address.
			p.log.Warnw("protective initial buy failed",
				"token", creation.TokenAddress, "error", buyErr)
		}
	}

	return creation, nil
}

func (p *Provider) post(ctx context.Context, path string, payload interface{}) (*apiResponse, error) {
	if p.baseURL == "" {
		return nil, errors.Wrap(errors.ErrUnavailable, "fourmeme base URL is not configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrProviderTransient, err.Error())
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrProviderTransient, "fourmeme unreachable: %v", err)
	}
	defer httpResp.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, errors.Wrapf(errors.ErrProviderTransient, "failed to decode fourmeme response: %v", err)
	}

	// Non-200 discriminator translates to an external-service error carrying
	// the service's own message verbatim.
	if resp.Code != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrExternalService, "%s", resp.Message)
	}
	return &resp, nil
}
