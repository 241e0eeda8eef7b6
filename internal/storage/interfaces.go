package storage

import (
	"context"

	"solana-token-risk/internal/domain"
)

// SnapshotSink receives scored risk records at the end of a run.
type SnapshotSink interface {
	// Append writes records in order. Existing output is never rewritten.
	Append(ctx context.Context, records []*domain.TokenRiskRecord) error
}

// SnapshotStore is a queryable SnapshotSink.
type SnapshotStore interface {
	SnapshotSink

	// GetByToken retrieves all snapshots for a token, ordered by snapshot_time ASC.
	GetByToken(ctx context.Context, tokenAddress string) ([]*domain.TokenRiskRecord, error)

	// GetLatest retrieves the most recent snapshot for a token. Returns ErrNotFound if none.
	GetLatest(ctx context.Context, tokenAddress string) (*domain.TokenRiskRecord, error)
}

// ValidateRecords checks a batch before it is written.
func ValidateRecords(records []*domain.TokenRiskRecord) error {
	for _, r := range records {
		if r == nil || r.TokenAddress == "" {
			return ErrInvalidInput
		}
	}
	return nil
}
