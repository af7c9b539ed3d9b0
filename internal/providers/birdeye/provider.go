// Package birdeye adapts the Birdeye market-data API as a price oracle.
package birdeye

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
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
	providerName   = "birdeye"
	defaultBaseURL = "https://public-api.birdeye.so"
	defaultTimeout = 10 * time.Second
)

// chainNames maps network IDs to Birdeye's X-Chain header values.
var chainNames = map[network.ID]string{
	network.BNB:      "bsc",
	network.Ethereum: "ethereum",
	network.Solana:   "solana",
}

// Config configures the Birdeye client.
type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	RateLimitRPS float64
}

// Provider implements providers.PriceProvider against the Birdeye API.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

var _ providers.PriceProvider = (*Provider)(nil)

// New creates a Birdeye provider.
func New(cfg Config) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	return &Provider{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        logger.Get().With("component", "birdeye_provider"),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// SupportedNetworks declares Birdeye's networks.
func (p *Provider) SupportedNetworks() []network.ID {
	return []network.ID{network.BNB, network.Ethereum, network.Solana}
}

// Description summarizes the provider's capabilities for agent routing.
func (p *Provider) Description() string {
	return "Birdeye price oracle: USD prices for tokens on BNB Chain, Ethereum and Solana"
}

// TokenPrice returns the current USD price of a token.
func (p *Provider) TokenPrice(ctx context.Context, net network.ID, address string) (decimal.Decimal, error) {
	chain, ok := chainNames[net]
	if !ok {
		return decimal.Zero, errors.Wrapf(errors.ErrUnsupportedNetwork, "birdeye does not cover %s", net)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return decimal.Zero, errors.Wrap(errors.ErrProviderTransient, err.Error())
	}

	endpoint := p.baseURL + "/defi/price?address=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("X-Chain", chain)

	httpResp, err := p.httpClient.Do(req)
	metrics.ObserveProviderCall(providerName, "price", err)
	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.ErrProviderTransient, "birdeye unreachable: %v", err)
	}
	defer httpResp.Body.Close()

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Value float64 `json:"value"`
		} `json:"data"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return decimal.Zero, errors.Wrapf(errors.ErrProviderTransient, "failed to decode birdeye response: %v", err)
	}
	if !resp.Success {
		return decimal.Zero, errors.Wrapf(errors.ErrExternalService, "%s", resp.Message)
	}

	return decimal.NewFromFloat(resp.Data.Value), nil
}
