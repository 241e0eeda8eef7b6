package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPrimary_Empty(t *testing.T) {
	_, ok := SelectPrimary(nil)
	assert.False(t, ok)
}

func TestSelectPrimary_PicksHighestLiquidityRegardlessOfOrder(t *testing.T) {
	forward := mustPools(t, `[
		{"pairAddress": "small", "liquidity": {"usd": 10000}},
		{"pairAddress": "large", "liquidity": {"usd": 90000}}
	]`)
	reversed := mustPools(t, `[
		{"pairAddress": "large", "liquidity": {"usd": 90000}},
		{"pairAddress": "small", "liquidity": {"usd": 10000}}
	]`)

	got, ok := SelectPrimary(forward)
	require.True(t, ok)
	assert.Equal(t, "large", got.PairAddress)

	got, ok = SelectPrimary(reversed)
	require.True(t, ok)
	assert.Equal(t, "large", got.PairAddress)
}

func TestSelectPrimary_MissingLiquidityCountsAsZero(t *testing.T) {
	pools := mustPools(t, `[
		{"pairAddress": "null-liq", "liquidity": null},
		{"pairAddress": "no-liq"},
		{"pairAddress": "null-usd", "liquidity": {"usd": null}},
		{"pairAddress": "bad-usd", "liquidity": {"usd": "lots"}},
		{"pairAddress": "tiny", "liquidity": {"usd": "0.5"}}
	]`)

	got, ok := SelectPrimary(pools)
	require.True(t, ok)
	assert.Equal(t, "tiny", got.PairAddress)
}

func TestSelectPrimary_SinglePoolWithoutLiquidity(t *testing.T) {
	pools := mustPools(t, `[{"pairAddress": "only", "liquidity": null}]`)

	got, ok := SelectPrimary(pools)
	require.True(t, ok)
	assert.Equal(t, "only", got.PairAddress)
}

func TestSelectPrimary_TiesAreDeterministic(t *testing.T) {
	pools := mustPools(t, `[
		{"pairAddress": "first", "liquidity": {"usd": 5000}},
		{"pairAddress": "second", "liquidity": {"usd": "5000"}},
		{"pairAddress": "third", "liquidity": {"usd": 5000.0}}
	]`)

	a, ok := SelectPrimary(pools)
	require.True(t, ok)
	b, ok := SelectPrimary(pools)
	require.True(t, ok)

	assert.Equal(t, a.PairAddress, b.PairAddress)
	assert.Equal(t, "first", a.PairAddress)
}

func TestSelectPrimary_AllZeroKeepsFirst(t *testing.T) {
	pools := mustPools(t, `[
		{"pairAddress": "a"},
		{"pairAddress": "b", "liquidity": {"usd": 0}}
	]`)

	got, ok := SelectPrimary(pools)
	require.True(t, ok)
	assert.Equal(t, "a", got.PairAddress)
}
