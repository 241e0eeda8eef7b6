package risk

import (
	"bytes"
	"log"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMint = "So11111111111111111111111111111111111111112"

func TestBuilder_Build_ExtractsFields(t *testing.T) {
	pools := mustPools(t, `[{
		"baseToken": {"address": "`+testMint+`", "symbol": "SOL", "name": "Wrapped SOL"},
		"liquidity": {"usd": 100000},
		"volume": {"h24": 50000},
		"priceChange": {"h24": -5.0},
		"priceUsd": "1.23",
		"pairCreatedAt": 1700000000000
	}]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)
	require.NotNil(t, obs)

	assert.Equal(t, testMint, obs.TokenAddress)
	require.NotNil(t, obs.Symbol)
	assert.Equal(t, "SOL", *obs.Symbol)
	require.NotNil(t, obs.Name)
	assert.Equal(t, "Wrapped SOL", *obs.Name)

	require.NotNil(t, obs.PriceCurrentUSD)
	assert.InDelta(t, 1.23, *obs.PriceCurrentUSD, 1e-12)
	require.NotNil(t, obs.PoolLiquidityUSD)
	assert.Equal(t, 100000.0, *obs.PoolLiquidityUSD)
	require.NotNil(t, obs.Volume24hUSD)
	assert.Equal(t, 50000.0, *obs.Volume24hUSD)
	require.NotNil(t, obs.Volatility24h)
	assert.Equal(t, 5.0, *obs.Volatility24h, "volatility is the absolute 24h move")

	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	require.NotNil(t, obs.CreatedAt)
	assert.True(t, obs.CreatedAt.Equal(want))
	require.NotNil(t, obs.FirstTradeAt)
	assert.True(t, obs.FirstTradeAt.Equal(*obs.CreatedAt), "first trade is proxied by pool creation")
}

func TestBuilder_Build_ReservedFieldsAreNil(t *testing.T) {
	pools := mustPools(t, `[{"liquidity": {"usd": 1, "base": 2, "quote": 3}, "volume": {"h1": 4}, "priceChange": {"h1": 5}}]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)

	assert.Nil(t, obs.Top1Share)
	assert.Nil(t, obs.Top5Share)
	assert.Nil(t, obs.Top10Share)
	assert.Nil(t, obs.GiniIndex)
	assert.Nil(t, obs.HerfindahlIndex)
	assert.Nil(t, obs.PoolTokenReserve)
	assert.Nil(t, obs.PoolSOLReserve)
	assert.Nil(t, obs.Volatility1h)
}

func TestBuilder_Build_NoPoolsWarns(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder(log.New(&buf, "", 0))

	obs, ok := b.Build(testMint, nil)
	assert.False(t, ok)
	assert.Nil(t, obs)
	assert.Contains(t, buf.String(), "Warning")
	assert.Contains(t, buf.String(), testMint)
}

func TestBuilder_Build_MalformedFieldOnlyNilsItself(t *testing.T) {
	pools := mustPools(t, `[{
		"baseToken": {"symbol": "BAD"},
		"priceUsd": "not-a-number",
		"liquidity": {"usd": "250000"},
		"volume": {"h24": {"nested": true}},
		"priceChange": {"h24": "3.5"},
		"pairCreatedAt": "yesterday"
	}]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)

	assert.Nil(t, obs.PriceCurrentUSD)
	assert.Nil(t, obs.Volume24hUSD)
	assert.Nil(t, obs.CreatedAt)
	assert.Nil(t, obs.FirstTradeAt)
	assert.Nil(t, obs.Name)

	require.NotNil(t, obs.Symbol)
	assert.Equal(t, "BAD", *obs.Symbol)
	require.NotNil(t, obs.PoolLiquidityUSD)
	assert.Equal(t, 250000.0, *obs.PoolLiquidityUSD)
	require.NotNil(t, obs.Volatility24h)
	assert.Equal(t, 3.5, *obs.Volatility24h)
}

func TestBuilder_Build_NullLiquidity(t *testing.T) {
	pools := mustPools(t, `[{"liquidity": null, "priceUsd": 2}]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)

	assert.Nil(t, obs.PoolLiquidityUSD)
	assert.Equal(t, 1.0, LiquidityScore(obs.PoolLiquidityUSD))
}

func TestBuilder_Build_UsesPrimaryPool(t *testing.T) {
	pools := mustPools(t, `[
		{"baseToken": {"symbol": "THIN"}, "liquidity": {"usd": 10000}, "priceUsd": "1.00"},
		{"baseToken": {"symbol": "DEEP"}, "liquidity": {"usd": 90000}, "priceUsd": "1.01"}
	]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)
	require.NotNil(t, obs.Symbol)
	assert.Equal(t, "DEEP", *obs.Symbol)
	assert.Equal(t, 90000.0, *obs.PoolLiquidityUSD)
}

func TestBuilder_Build_WrongTypedSymbolKeepsDeepestPool(t *testing.T) {
	pools := mustPools(t, `[
		{"baseToken": {"symbol": 123, "name": ["x"]}, "liquidity": {"usd": 900000}, "priceUsd": "2.5"},
		{"baseToken": {"symbol": "THIN"}, "liquidity": {"usd": 1000}, "priceUsd": "0.1"}
	]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)

	assert.Nil(t, obs.Symbol)
	assert.Nil(t, obs.Name)
	require.NotNil(t, obs.PoolLiquidityUSD)
	assert.Equal(t, 900000.0, *obs.PoolLiquidityUSD)
	require.NotNil(t, obs.PriceCurrentUSD)
	assert.Equal(t, 2.5, *obs.PriceCurrentUSD)
}

func TestBuilder_Build_StringLiquidityObject(t *testing.T) {
	pools := mustPools(t, `[{"liquidity": "n/a", "priceUsd": "2.5", "baseToken": {"symbol": "LQ"}}]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)

	assert.Nil(t, obs.PoolLiquidityUSD)
	require.NotNil(t, obs.PriceCurrentUSD)
	assert.Equal(t, 2.5, *obs.PriceCurrentUSD)
	assert.Equal(t, "LQ", *obs.Symbol)
}

func TestBuildAndScore_EndToEnd(t *testing.T) {
	pools := mustPools(t, `[{
		"liquidity": {"usd": 100000},
		"volume": {"h24": 50000},
		"priceChange": {"h24": 5.0},
		"priceUsd": "1.23",
		"pairCreatedAt": 1700000000000
	}]`)

	obs, ok := NewBuilder(quietLogger()).Build(testMint, pools)
	require.True(t, ok)

	rec := Score(*obs)

	assert.InDelta(t, math.Exp(-0.2), rec.Scores.Liquidity, 1e-12)
	assert.InDelta(t, 0.8187, rec.Scores.Liquidity, 1e-4)
	assert.InDelta(t, 0.9900, rec.Scores.Volume, 1e-4)
	assert.Equal(t, 0.25, rec.Scores.Volatility)
	// 0.4*0.81873 + 0.4*0.99005 + 0.2*0.25
	assert.InDelta(t, 0.7735, rec.Scores.Overall, 1e-4)
	assert.Nil(t, rec.Scores.Concentration)
	assert.Equal(t, testMint, rec.TokenAddress)
}
