package domain

import (
	"bytes"
	"encoding/json"

	"solana-token-risk/internal/safenum"
)

// Pool is one trading pair for a token as returned by the market data API.
// Numeric leaves are kept as raw JSON because the upstream mixes strings,
// numbers and nulls for the same field; use package safenum to read them.
// Decoding is lenient per field: a wrong-typed value leaves only that field
// empty, and a sub-object that is not a JSON object decodes as nil.
// Pools are read-only input.
type Pool struct {
	ChainID       string          `json:"chainId"`
	DexID         string          `json:"dexId"`
	URL           string          `json:"url"`
	PairAddress   string          `json:"pairAddress"`
	BaseToken     *PoolToken      `json:"baseToken"`
	QuoteToken    *PoolToken      `json:"quoteToken"`
	PriceNative   json.RawMessage `json:"priceNative"`
	PriceUSD      json.RawMessage `json:"priceUsd"`
	Liquidity     *PoolLiquidity  `json:"liquidity"`
	Volume        *PoolWindows    `json:"volume"`
	PriceChange   *PoolWindows    `json:"priceChange"`
	FDV           json.RawMessage `json:"fdv"`
	MarketCap     json.RawMessage `json:"marketCap"`
	PairCreatedAt json.RawMessage `json:"pairCreatedAt"` // epoch ms
}

// PoolToken is one side of a pair.
type PoolToken struct {
	Address string  `json:"address"`
	Name    *string `json:"name"`
	Symbol  *string `json:"symbol"`
}

// UnmarshalJSON decodes a pool object field by field. Only a value that is
// not a JSON object fails; null is a no-op.
func (p *Pool) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}

	*p = Pool{
		ChainID:       stringField(fields["chainId"]),
		DexID:         stringField(fields["dexId"]),
		URL:           stringField(fields["url"]),
		PairAddress:   stringField(fields["pairAddress"]),
		BaseToken:     objectField[PoolToken](fields["baseToken"]),
		QuoteToken:    objectField[PoolToken](fields["quoteToken"]),
		PriceNative:   fields["priceNative"],
		PriceUSD:      fields["priceUsd"],
		Liquidity:     objectField[PoolLiquidity](fields["liquidity"]),
		Volume:        objectField[PoolWindows](fields["volume"]),
		PriceChange:   objectField[PoolWindows](fields["priceChange"]),
		FDV:           fields["fdv"],
		MarketCap:     fields["marketCap"],
		PairCreatedAt: fields["pairCreatedAt"],
	}
	return nil
}

// UnmarshalJSON decodes a pair side. Non-string values become nil.
func (t *PoolToken) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}
	*t = PoolToken{
		Address: stringField(fields["address"]),
		Name:    safenum.String(fields["name"]),
		Symbol:  safenum.String(fields["symbol"]),
	}
	return nil
}

func stringField(raw json.RawMessage) string {
	if s := safenum.String(raw); s != nil {
		return *s
	}
	return ""
}

// objectField decodes raw into T when it is a JSON object, nil otherwise.
func objectField[T any](raw json.RawMessage) *T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// PoolLiquidity is the liquidity breakdown of a pair.
type PoolLiquidity struct {
	USD   json.RawMessage `json:"usd"`
	Base  json.RawMessage `json:"base"`
	Quote json.RawMessage `json:"quote"`
}

// PoolWindows holds a metric bucketed by trailing window (5m, 1h, 6h, 24h).
type PoolWindows struct {
	M5  json.RawMessage `json:"m5"`
	H1  json.RawMessage `json:"h1"`
	H6  json.RawMessage `json:"h6"`
	H24 json.RawMessage `json:"h24"`
}

// BaseSymbol returns the base token symbol, nil if absent.
func (p Pool) BaseSymbol() *string {
	if p.BaseToken == nil {
		return nil
	}
	return p.BaseToken.Symbol
}

// BaseName returns the base token name, nil if absent.
func (p Pool) BaseName() *string {
	if p.BaseToken == nil {
		return nil
	}
	return p.BaseToken.Name
}

// LiquidityUSD returns the raw liquidity.usd value.
func (p Pool) LiquidityUSD() json.RawMessage {
	if p.Liquidity == nil {
		return nil
	}
	return p.Liquidity.USD
}

// Volume24h returns the raw volume.h24 value.
func (p Pool) Volume24h() json.RawMessage {
	if p.Volume == nil {
		return nil
	}
	return p.Volume.H24
}

// PriceChange24h returns the raw priceChange.h24 value (percent).
func (p Pool) PriceChange24h() json.RawMessage {
	if p.PriceChange == nil {
		return nil
	}
	return p.PriceChange.H24
}
