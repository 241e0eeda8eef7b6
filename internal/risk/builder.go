package risk

import (
	"encoding/json"
	"log"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/safenum"
)

// Builder builds risk observations from the pools of a token.
type Builder struct {
	logger *log.Logger
}

// NewBuilder creates a Builder. A nil logger uses log.Default().
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{logger: logger}
}

// Build selects the primary pool and extracts an observation from it.
// Returns false, after logging a warning, when no pool can be selected.
// This is the only "no data" outcome and is not an error.
func (b *Builder) Build(tokenAddress string, pools []domain.Pool) (*domain.RiskObservation, bool) {
	pool, ok := SelectPrimary(pools)
	if !ok {
		b.logger.Printf("Warning: no pools found for token %s", tokenAddress)
		return nil, false
	}
	obs := Observe(tokenAddress, pool)
	return &obs, true
}

// Observe extracts the raw risk fields of tokenAddress from pool. Each field
// is read independently; a malformed value only nils its own field.
func Observe(tokenAddress string, pool domain.Pool) domain.RiskObservation {
	createdAt := safenum.Extract(pool, func(p domain.Pool) json.RawMessage { return p.PairCreatedAt }, safenum.UnixMilli)

	return domain.RiskObservation{
		TokenAddress: tokenAddress,
		Symbol:       pool.BaseSymbol(),
		Name:         pool.BaseName(),

		CreatedAt:    createdAt,
		FirstTradeAt: createdAt,

		PoolLiquidityUSD: safenum.Extract(pool, domain.Pool.LiquidityUSD, safenum.Float),
		Volume24hUSD:     safenum.Extract(pool, domain.Pool.Volume24h, safenum.Float),

		PriceCurrentUSD: safenum.Extract(pool, func(p domain.Pool) json.RawMessage { return p.PriceUSD }, safenum.Float),
		Volatility24h:   safenum.Extract(pool, domain.Pool.PriceChange24h, safenum.AbsFloat),
	}
}
