package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
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

// Append inserts records atomically. Fails entire batch on duplicate
// (token_address, snapshot_time).
func (s *SnapshotStore) Append(ctx context.Context, records []*domain.TokenRiskRecord) (err error) {
	defer observeQuery("append", time.Now(), &err)

	if len(records) == 0 {
		return nil
	}
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO token_risk_snapshots (` + snapshotColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
	)`

	for _, r := range records {
		_, err := tx.Exec(ctx, query,
			r.TokenAddress,
			r.SnapshotTime.UTC(),
			r.Symbol,
			r.Name,
			r.CreatedAt,
			r.FirstTradeAt,
			r.Top1Share,
			r.Top5Share,
			r.Top10Share,
			r.GiniIndex,
			r.HerfindahlIndex,
			r.PoolLiquidityUSD,
			r.PoolTokenReserve,
			r.PoolSOLReserve,
			r.Volume24hUSD,
			r.PriceCurrentUSD,
			r.Volatility1h,
			r.Volatility24h,
			r.Scores.Concentration,
			r.Scores.Liquidity,
			r.Scores.Volume,
			r.Scores.Volatility,
			r.Scores.Overall,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert snapshot for %s: %w", r.TokenAddress, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByToken retrieves all snapshots for a token, ordered by snapshot_time ASC.
func (s *SnapshotStore) GetByToken(ctx context.Context, tokenAddress string) (_ []*domain.TokenRiskRecord, err error) {
	defer observeQuery("get_by_token", time.Now(), &err)

	query := `SELECT ` + snapshotColumns + `
		FROM token_risk_snapshots
		WHERE token_address = $1
		ORDER BY snapshot_time ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by token: %w", err)
	}
	defer rows.Close()

	var records []*domain.TokenRiskRecord
	for rows.Next() {
		r, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return records, nil
}

// GetLatest retrieves the most recent snapshot for a token. Returns ErrNotFound if none.
func (s *SnapshotStore) GetLatest(ctx context.Context, tokenAddress string) (_ *domain.TokenRiskRecord, err error) {
	defer observeQuery("get_latest", time.Now(), &err)

	query := `SELECT ` + snapshotColumns + `
		FROM token_risk_snapshots
		WHERE token_address = $1
		ORDER BY snapshot_time DESC
		LIMIT 1
	`

	r, err := scanSnapshot(s.pool.QueryRow(ctx, query, tokenAddress))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return r, nil
}

// scanSnapshot scans a single row into a TokenRiskRecord.
func scanSnapshot(row pgx.Row) (*domain.TokenRiskRecord, error) {
	var r domain.TokenRiskRecord

	err := row.Scan(
		&r.TokenAddress,
		&r.SnapshotTime,
		&r.Symbol,
		&r.Name,
		&r.CreatedAt,
		&r.FirstTradeAt,
		&r.Top1Share,
		&r.Top5Share,
		&r.Top10Share,
		&r.GiniIndex,
		&r.HerfindahlIndex,
		&r.PoolLiquidityUSD,
		&r.PoolTokenReserve,
		&r.PoolSOLReserve,
		&r.Volume24hUSD,
		&r.PriceCurrentUSD,
		&r.Volatility1h,
		&r.Volatility24h,
		&r.Scores.Concentration,
		&r.Scores.Liquidity,
		&r.Scores.Volume,
		&r.Scores.Volatility,
		&r.Scores.Overall,
	)
	if err != nil {
		return nil, err
	}

	r.SnapshotTime = r.SnapshotTime.UTC()
	if r.CreatedAt != nil {
		t := r.CreatedAt.UTC()
		r.CreatedAt = &t
	}
	if r.FirstTradeAt != nil {
		t := r.FirstTradeAt.UTC()
		r.FirstTradeAt = &t
	}
	return &r, nil
}
