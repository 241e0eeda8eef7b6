package risk

import (
	"math"

	"solana-token-risk/internal/domain"
)

// Scoring parameters.
const (
	// LiquidityScale is the USD liquidity at which the liquidity score is e^-1.
	LiquidityScale = 500_000.0
	// VolumeScale is the 24h USD volume at which the volume score is e^-1.
	VolumeScale = 5_000_000.0
	// VolatilitySaturationPct is the 24h move (percent) at which volatility
	// risk reaches 1.
	VolatilitySaturationPct = 20.0

	LiquidityWeight  = 0.4
	VolumeWeight     = 0.4
	VolatilityWeight = 0.2
)

// LiquidityScore maps pool liquidity (USD) to risk in (0, 1].
// Missing or non-positive liquidity is maximally risky.
func LiquidityScore(usd *float64) float64 {
	return decayScore(usd, LiquidityScale)
}

// VolumeScore maps 24h volume (USD) to risk in (0, 1].
// Missing or non-positive volume is maximally risky.
func VolumeScore(usd *float64) float64 {
	return decayScore(usd, VolumeScale)
}

// VolatilityScore maps a 24h percent move to risk in [0, 1], linearly,
// saturating at VolatilitySaturationPct. Unknown volatility scores 1.
func VolatilityScore(pct *float64) float64 {
	if pct == nil || math.IsNaN(*pct) {
		return 1.0
	}
	return math.Min(math.Abs(*pct)/VolatilitySaturationPct, 1.0)
}

// OverallScore blends the sub-scores. The weights sum to 1, so the result is
// in [0, 1] whenever the inputs are.
func OverallScore(liquidity, volume, volatility float64) float64 {
	return LiquidityWeight*liquidity + VolumeWeight*volume + VolatilityWeight*volatility
}

// Score derives all scores for obs and returns the scored record.
// Concentration stays nil: there is no holder data yet.
func Score(obs domain.RiskObservation) domain.TokenRiskRecord {
	liq := LiquidityScore(obs.PoolLiquidityUSD)
	vol := VolumeScore(obs.Volume24hUSD)
	volat := VolatilityScore(obs.Volatility24h)

	return domain.TokenRiskRecord{
		RiskObservation: obs,
		Scores: domain.RiskScores{
			Liquidity:  liq,
			Volume:     vol,
			Volatility: volat,
			Overall:    OverallScore(liq, vol, volat),
		},
	}
}

// decayScore returns exp(-v/scale), or 1 when v is missing, NaN or <= 0.
func decayScore(v *float64, scale float64) float64 {
	if v == nil || math.IsNaN(*v) || *v <= 0 {
		return 1.0
	}
	return math.Exp(-*v / scale)
}
