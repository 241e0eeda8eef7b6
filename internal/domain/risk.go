package domain

import "time"

// RiskObservation is the raw, unscored risk snapshot of one token, extracted
// from its primary pool. Pointer fields are nil when the upstream value was
// absent or could not be parsed.
//
// Fields documented as "no producer yet" are part of the schema so a future
// data source can fill them without a migration.
type RiskObservation struct {
	TokenAddress string  `json:"token_address"` // required, identifies the subject
	Symbol       *string `json:"symbol"`
	Name         *string `json:"name"`

	CreatedAt    *time.Time `json:"created_at"`     // pool creation time, UTC
	FirstTradeAt *time.Time `json:"first_trade_at"` // proxy: always equal to CreatedAt

	// Holder concentration. No producer yet.
	Top1Share       *float64 `json:"top1_share"`
	Top5Share       *float64 `json:"top5_share"`
	Top10Share      *float64 `json:"top10_share"`
	GiniIndex       *float64 `json:"gini_index"`
	HerfindahlIndex *float64 `json:"herfindahl_index"`

	PoolLiquidityUSD *float64 `json:"pool_liquidity_usd"`
	PoolTokenReserve *float64 `json:"pool_token_reserve"` // no producer yet
	PoolSOLReserve   *float64 `json:"pool_sol_reserve"`   // no producer yet
	Volume24hUSD     *float64 `json:"volume_24h_usd"`

	PriceCurrentUSD *float64 `json:"price_current_usd"`
	Volatility1h    *float64 `json:"volatility_1h"`  // no producer yet
	Volatility24h   *float64 `json:"volatility_24h"` // |24h price change %|, a proxy for volatility
}

// RiskScores holds derived scores. Every score lies in [0, 1], 1 being the
// riskiest.
type RiskScores struct {
	Concentration *float64 `json:"concentration_score"` // no producer yet
	Liquidity     float64  `json:"liquidity_score"`
	Volume        float64  `json:"volume_score"`
	Volatility    float64  `json:"volatility_score"`
	Overall       float64  `json:"overall_risk_score"` // weighted blend of the three above
}

// TokenRiskRecord is a scored observation, the unit written to sinks.
type TokenRiskRecord struct {
	RiskObservation
	Scores RiskScores `json:"scores"`

	// SnapshotTime is the run timestamp shared by all records of a run.
	// Zero when the record was not produced by a run.
	SnapshotTime time.Time `json:"snapshot_time_utc"`
}

// WithSnapshotTime returns a copy of r stamped with t.
func (r TokenRiskRecord) WithSnapshotTime(t time.Time) TokenRiskRecord {
	r.SnapshotTime = t.UTC()
	return r
}
