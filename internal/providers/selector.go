package providers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const defaultQuoteTimeout = 5 * time.Second

// Selector picks the best provider for a swap by fanning out quote requests
// and comparing the results.
type Selector struct {
	quoteTimeout time.Duration
	log          *logger.Logger
}

// NewSelector creates a selector with a bounded per-provider quote timeout.
func NewSelector(quoteTimeout time.Duration) *Selector {
	if quoteTimeout <= 0 {
		quoteTimeout = defaultQuoteTimeout
	}
	return &Selector{
		quoteTimeout: quoteTimeout,
		log:          logger.Get().With("component", "provider_selector"),
	}
}

type quoteResult struct {
	idx      int
	provider SwapProvider
	quote    *Quote
	err      error
}

// BestQuote asks every candidate for a quote concurrently and returns the
// winning provider and its quote.
//
// Selection rules:
//   - a single candidate is used directly, no comparison
//   - failed quotes are excluded, they do not abort the operation
//   - buys maximize output amount, sells minimize input cost
//   - ties resolve to the earliest-registered provider
//   - if every quote fails, the aggregated causes are returned behind
//     errors.ErrAllProvidersFailed
func (s *Selector) BestQuote(ctx context.Context, candidates []SwapProvider, params SwapParams) (SwapProvider, *Quote, error) {
	if len(candidates) == 0 {
		return nil, nil, errors.Wrapf(errors.ErrUnsupportedNetwork,
			"no provider supports network %s", params.Network)
	}

	if len(candidates) == 1 {
		p := candidates[0]
		quote, err := s.quoteOne(ctx, p, params)
		if err != nil {
			return nil, nil, errors.NewAggregateError([]error{errors.NewProviderError(p.Name(), err)})
		}
		return p, quote, nil
	}

	// Fan out so one slow provider does not serialize the rest. Results are
	// collected once every outstanding call has settled.
	results := make(chan quoteResult, len(candidates))
	for i, p := range candidates {
		go func(idx int, p SwapProvider) {
			quote, err := s.quoteOne(ctx, p, params)
			results <- quoteResult{idx: idx, provider: p, quote: quote, err: err}
		}(i, p)
	}

	best := quoteResult{idx: -1}
	var causes []error
	for range candidates {
		res := <-results
		if res.err != nil {
			s.log.Warnw("quote excluded",
				"provider", res.provider.Name(), "network", params.Network, "error", res.err)
			causes = append(causes, errors.NewProviderError(res.provider.Name(), res.err))
			continue
		}
		if best.idx < 0 || s.better(res, best, params.Side) {
			best = res
		}
	}

	if best.idx < 0 {
		return nil, nil, errors.NewAggregateError(causes)
	}
	return best.provider, best.quote, nil
}

func (s *Selector) quoteOne(ctx context.Context, p SwapProvider, params SwapParams) (*Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
	defer cancel()

	start := time.Now()
	quote, err := p.Quote(ctx, params)
	metrics.ObserveQuote(p.Name(), time.Since(start), err)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, errors.Wrapf(errors.ErrProviderTransient, "quote timed out after %s", s.quoteTimeout)
		}
		return nil, err
	}
	return quote, nil
}

// better reports whether a beats b under the side's objective. Equal quotes
// fall back to registration order, keeping selection deterministic.
func (s *Selector) better(a, b quoteResult, side Side) bool {
	var cmp int
	if side == SideSell {
		// Sells minimize what the caller gives up.
		cmp = b.quote.InputAmount.Cmp(a.quote.InputAmount)
	} else {
		cmp = a.quote.OutputAmount.Cmp(b.quote.OutputAmount)
	}
	if cmp != 0 {
		return cmp > 0
	}
	return a.idx < b.idx
}

// EnforceSlippage verifies realized output against the quoted output. A
// provider call that "succeeded" on-chain still fails the operation when the
// realized amount falls short of the quote by more than the tolerance.
func EnforceSlippage(quote *Quote, realized decimal.Decimal, slippageBps int64) error {
	if quote == nil || quote.OutputAmount.IsZero() {
		return nil
	}

	tolerance := decimal.NewFromInt(slippageBps).Div(decimal.NewFromInt(10000))
	floor := quote.OutputAmount.Mul(decimal.NewFromInt(1).Sub(tolerance))
	if realized.LessThan(floor) {
		return errors.Wrapf(errors.ErrSlippageExceeded,
			"quoted %s but realized %s, beyond %d bps tolerance",
			quote.OutputAmount.String(), realized.String(), slippageBps)
	}
	return nil
}
