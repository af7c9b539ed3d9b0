package token

import "hermes/internal/domain/network"

// Info describes a token on a specific network.
type Info struct {
	Network  network.ID `json:"network"`
	Symbol   string     `json:"symbol"`
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Decimals int        `json:"decimals"`
}
