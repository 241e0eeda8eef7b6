package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	token_address, snapshot_time, symbol, name, created_at, first_trade_at,
	top1_share, top5_share, top10_share, gini_index, herfindahl_index,
	pool_liquidity_usd, pool_token_reserve, pool_sol_reserve, volume_24h_usd,
	price_current_usd, volatility_1h, volatility_24h,
	concentration_score, liquidity_score, volume_score, volatility_score, overall_risk_score
`

// Append adds records in one batch. Fails entire batch on duplicate
// (token_address, snapshot_time).
func (s *SnapshotStore) Append(ctx context.Context, records []*domain.TokenRiskRecord) (err error) {
	defer observeQuery("append", time.Now(), &err)

	if len(records) == 0 {
		return nil
	}
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}

	// MergeTree does not enforce uniqueness, so check explicitly.
	type key struct {
		tokenAddress string
		snapshotTime int64
	}
	seen := make(map[key]struct{})
	for _, r := range records {
		k := key{r.TokenAddress, r.SnapshotTime.Unix()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}
	for _, r := range records {
		exists, err := s.exists(ctx, r.TokenAddress, r.SnapshotTime)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO token_risk_snapshots (`+snapshotColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		// Pass nil pointers directly for Nullable columns
		err = batch.Append(
			r.TokenAddress, r.SnapshotTime.UTC(),
			r.Symbol, r.Name, utcPtr(r.CreatedAt), utcPtr(r.FirstTradeAt),
			r.Top1Share, r.Top5Share, r.Top10Share, r.GiniIndex, r.HerfindahlIndex,
			r.PoolLiquidityUSD, r.PoolTokenReserve, r.PoolSOLReserve, r.Volume24hUSD,
			r.PriceCurrentUSD, r.Volatility1h, r.Volatility24h,
			r.Scores.Concentration, r.Scores.Liquidity, r.Scores.Volume, r.Scores.Volatility, r.Scores.Overall,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByToken retrieves all snapshots for a token, ordered by snapshot_time ASC.
func (s *SnapshotStore) GetByToken(ctx context.Context, tokenAddress string) (_ []*domain.TokenRiskRecord, err error) {
	defer observeQuery("get_by_token", time.Now(), &err)

	query := `SELECT ` + snapshotColumns + `
		FROM token_risk_snapshots
		WHERE token_address = ?
		ORDER BY snapshot_time ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("query by token: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetLatest retrieves the most recent snapshot for a token. Returns ErrNotFound if none.
func (s *SnapshotStore) GetLatest(ctx context.Context, tokenAddress string) (_ *domain.TokenRiskRecord, err error) {
	defer observeQuery("get_latest", time.Now(), &err)

	query := `SELECT ` + snapshotColumns + `
		FROM token_risk_snapshots
		WHERE token_address = ?
		ORDER BY snapshot_time DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	records, err := scanSnapshots(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records[0], nil
}

// exists checks if a snapshot with the given key exists.
func (s *SnapshotStore) exists(ctx context.Context, tokenAddress string, snapshotTime time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM token_risk_snapshots
		WHERE token_address = ? AND snapshot_time = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, tokenAddress, snapshotTime.UTC()).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows is the subset of driver.Rows used by scanSnapshots.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSnapshots(rows chRows) ([]*domain.TokenRiskRecord, error) {
	var records []*domain.TokenRiskRecord

	for rows.Next() {
		var r domain.TokenRiskRecord
		err := rows.Scan(
			&r.TokenAddress, &r.SnapshotTime,
			&r.Symbol, &r.Name, &r.CreatedAt, &r.FirstTradeAt,
			&r.Top1Share, &r.Top5Share, &r.Top10Share, &r.GiniIndex, &r.HerfindahlIndex,
			&r.PoolLiquidityUSD, &r.PoolTokenReserve, &r.PoolSOLReserve, &r.Volume24hUSD,
			&r.PriceCurrentUSD, &r.Volatility1h, &r.Volatility24h,
			&r.Scores.Concentration, &r.Scores.Liquidity, &r.Scores.Volume, &r.Scores.Volatility, &r.Scores.Overall,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		r.SnapshotTime = r.SnapshotTime.UTC()
		r.CreatedAt = utcPtr(r.CreatedAt)
		r.FirstTradeAt = utcPtr(r.FirstTradeAt)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
