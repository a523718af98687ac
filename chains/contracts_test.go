package chains

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	addr, ok := Lookup(Mainnet, Payer)
	require.True(t, ok)
	require.Equal(t, "0xd97bcd9f47cee35c0a9ec1dc40c1269afc9e8e1d", addr)

	_, ok = Lookup(Sepolia, Payer)
	require.False(t, ok)

	_, err := Resolve(5, Usdc)
	require.ErrorIs(t, err, ErrContractNotFound)

	require.True(t, Is(Mainnet, Usdc, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
	require.False(t, Is(Mainnet, Weth, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
}
