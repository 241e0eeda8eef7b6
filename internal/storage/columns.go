package storage

import (
	"strconv"
	"time"

	"solana-token-risk/internal/domain"
)

// Columns is the tabular layout shared by the file sinks and database tables.
var Columns = []string{
	"token_address",
	"symbol",
	"name",
	"created_at",
	"first_trade_at",
	"top1_share",
	"top5_share",
	"top10_share",
	"gini_index",
	"herfindahl_index",
	"pool_liquidity_usd",
	"pool_token_reserve",
	"pool_sol_reserve",
	"volume_24h_usd",
	"price_current_usd",
	"volatility_1h",
	"volatility_24h",
	"concentration_score",
	"liquidity_score",
	"volume_score",
	"volatility_score",
	"overall_risk_score",
	"snapshot_time_utc",
}

// FormatRow renders a record as strings in Columns order.
// Absent values become empty strings; times are RFC 3339 in UTC.
func FormatRow(r *domain.TokenRiskRecord) []string {
	return []string{
		r.TokenAddress,
		formatString(r.Symbol),
		formatString(r.Name),
		formatTime(r.CreatedAt),
		formatTime(r.FirstTradeAt),
		formatFloat(r.Top1Share),
		formatFloat(r.Top5Share),
		formatFloat(r.Top10Share),
		formatFloat(r.GiniIndex),
		formatFloat(r.HerfindahlIndex),
		formatFloat(r.PoolLiquidityUSD),
		formatFloat(r.PoolTokenReserve),
		formatFloat(r.PoolSOLReserve),
		formatFloat(r.Volume24hUSD),
		formatFloat(r.PriceCurrentUSD),
		formatFloat(r.Volatility1h),
		formatFloat(r.Volatility24h),
		formatFloat(r.Scores.Concentration),
		strconv.FormatFloat(r.Scores.Liquidity, 'f', -1, 64),
		strconv.FormatFloat(r.Scores.Volume, 'f', -1, 64),
		strconv.FormatFloat(r.Scores.Volatility, 'f', -1, 64),
		strconv.FormatFloat(r.Scores.Overall, 'f', -1, 64),
		formatTime(&r.SnapshotTime),
	}
}

func formatString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
