package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Intersect(t *testing.T) {
	providerNetworks := NewSet(BNB, Solana, ID("base"))

	t.Run("preserves order of agent networks", func(t *testing.T) {
		effective := providerNetworks.Intersect([]ID{Ethereum, BNB, Solana})
		assert.Equal(t, []ID{BNB, Solana}, effective)
	})

	t.Run("empty when disjoint", func(t *testing.T) {
		effective := providerNetworks.Intersect([]ID{Ethereum})
		assert.Empty(t, effective)
	})

	t.Run("provider-only network never enters the effective set", func(t *testing.T) {
		effective := providerNetworks.Intersect([]ID{BNB, Ethereum})
		assert.NotContains(t, effective, ID("base"))
	})
}

func TestParseList(t *testing.T) {
	ids := ParseList([]string{"bnb", "", "ethereum"})
	assert.Equal(t, []ID{BNB, Ethereum}, ids)
}
