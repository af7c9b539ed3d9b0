package token

import "hermes/internal/domain/network"

// defaultTokens is the process-wide symbol-to-address table, keyed by network
// and uppercase symbol. Loaded once at startup and never mutated, so reads
// need no synchronization.
var defaultTokens = map[network.ID]map[string]Info{
	network.BNB: {
		"WBNB": {Network: network.BNB, Symbol: "WBNB", Name: "Wrapped BNB", Address: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", Decimals: 18},
		"USDT": {Network: network.BNB, Symbol: "USDT", Name: "Tether USD", Address: "0x55d398326f99059fF775485246999027B3197955", Decimals: 18},
		"USDC": {Network: network.BNB, Symbol: "USDC", Name: "USD Coin", Address: "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", Decimals: 18},
		"BUSD": {Network: network.BNB, Symbol: "BUSD", Name: "Binance USD", Address: "0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56", Decimals: 18},
		"CAKE": {Network: network.BNB, Symbol: "CAKE", Name: "PancakeSwap Token", Address: "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82", Decimals: 18},
		"SAFUFOUR": {Network: network.BNB, Symbol: "SAFUFOUR", Name: "SafuFour", Address: "0xcf4eef00d87488d523de9c54bf1ba3166532ddb0", Decimals: 18},
	},
	network.Ethereum: {
		"WETH": {Network: network.Ethereum, Symbol: "WETH", Name: "Wrapped Ether", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
		"USDT": {Network: network.Ethereum, Symbol: "USDT", Name: "Tether USD", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
		"USDC": {Network: network.Ethereum, Symbol: "USDC", Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
		"DAI":  {Network: network.Ethereum, Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18},
	},
	network.Solana: {
		"SOL":  {Network: network.Solana, Symbol: "SOL", Name: "Wrapped SOL", Address: "So11111111111111111111111111111111111111112", Decimals: 9},
		"USDC": {Network: network.Solana, Symbol: "USDC", Name: "USD Coin", Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6},
	},
}

// DefaultTokens returns the static table. Callers must treat it as read-only.
func DefaultTokens() map[network.ID]map[string]Info {
	return defaultTokens
}
