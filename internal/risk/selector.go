// Package risk turns market pools into scored token risk records.
//
// The pipeline is three pure steps: SelectPrimary picks the pool that
// represents the token, Observe extracts a raw RiskObservation from it, and
// Score derives the risk scores.
package risk

import (
	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/safenum"
)

// SelectPrimary returns the pool with the highest USD liquidity. A pool whose
// liquidity.usd is absent, null or unparseable counts as 0. Ties keep the
// first pool seen, so the result is stable for identical input.
// Returns false for an empty list.
func SelectPrimary(pools []domain.Pool) (domain.Pool, bool) {
	if len(pools) == 0 {
		return domain.Pool{}, false
	}

	best := 0
	bestLiquidity := poolLiquidity(pools[0])
	for i := 1; i < len(pools); i++ {
		if liq := poolLiquidity(pools[i]); liq > bestLiquidity {
			best = i
			bestLiquidity = liq
		}
	}
	return pools[best], true
}

func poolLiquidity(p domain.Pool) float64 {
	liq, ok := safenum.ParseFloat(p.LiquidityUSD())
	if !ok {
		return 0
	}
	return liq
}
