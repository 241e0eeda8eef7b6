package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_UnmarshalJSON_WrongTypedFieldsStayLocal(t *testing.T) {
	raw := `{
		"pairAddress": "pair-1",
		"dexId": 7,
		"baseToken": {"address": "mint", "symbol": 123, "name": ["x"]},
		"quoteToken": "oops",
		"priceUsd": "2.5",
		"liquidity": {"usd": 900000},
		"volume": "n/a",
		"priceChange": {"h24": -4.2}
	}`

	var p Pool
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "pair-1", p.PairAddress)
	assert.Equal(t, "", p.DexID)
	require.NotNil(t, p.BaseToken)
	assert.Equal(t, "mint", p.BaseToken.Address)
	assert.Nil(t, p.BaseSymbol())
	assert.Nil(t, p.BaseName())
	assert.Nil(t, p.QuoteToken)
	assert.JSONEq(t, `"2.5"`, string(p.PriceUSD))
	assert.JSONEq(t, `900000`, string(p.LiquidityUSD()))
	assert.Nil(t, p.Volume24h())
	assert.JSONEq(t, `-4.2`, string(p.PriceChange24h()))
}

func TestPool_UnmarshalJSON_NonObjectSubObjects(t *testing.T) {
	var p Pool
	require.NoError(t, json.Unmarshal([]byte(`{"liquidity": "n/a", "baseToken": null, "priceUsd": "1"}`), &p))

	assert.Nil(t, p.Liquidity)
	assert.Nil(t, p.BaseToken)
	assert.Nil(t, p.LiquidityUSD())
}

func TestPool_UnmarshalJSON_RejectsNonObject(t *testing.T) {
	var p Pool
	assert.Error(t, json.Unmarshal([]byte(`42`), &p))
	assert.Error(t, json.Unmarshal([]byte(`"pool"`), &p))
}

func TestPool_UnmarshalJSON_StringFields(t *testing.T) {
	var pools []Pool
	require.NoError(t, json.Unmarshal([]byte(`[{
		"chainId": "solana",
		"url": "https://dexscreener.com/solana/pair-1",
		"baseToken": {"symbol": "BONK", "name": "Bonk"}
	}]`), &pools))

	require.Len(t, pools, 1)
	assert.Equal(t, "solana", pools[0].ChainID)
	assert.Equal(t, "https://dexscreener.com/solana/pair-1", pools[0].URL)
	require.NotNil(t, pools[0].BaseSymbol())
	assert.Equal(t, "BONK", *pools[0].BaseSymbol())
	assert.Equal(t, "Bonk", *pools[0].BaseName())
}
