package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu      sync.RWMutex
	byToken map[string][]*domain.TokenRiskRecord
	keys    map[snapshotKey]struct{}
}

type snapshotKey struct {
	tokenAddress string
	snapshotTime time.Time
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		byToken: make(map[string][]*domain.TokenRiskRecord),
		keys:    make(map[snapshotKey]struct{}),
	}
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Append adds records atomically. Fails entire batch on duplicate
// (token_address, snapshot_time).
func (s *SnapshotStore) Append(_ context.Context, records []*domain.TokenRiskRecord) error {
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[snapshotKey]struct{}, len(records))
	for _, r := range records {
		k := snapshotKey{r.TokenAddress, r.SnapshotTime.UTC()}
		if _, exists := s.keys[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[k]; exists {
			return storage.ErrDuplicateKey
		}
		batch[k] = struct{}{}
	}

	for _, r := range records {
		recCopy := *r
		s.byToken[r.TokenAddress] = append(s.byToken[r.TokenAddress], &recCopy)
		s.keys[snapshotKey{r.TokenAddress, r.SnapshotTime.UTC()}] = struct{}{}
	}
	for addr := range batchTokens(records) {
		list := s.byToken[addr]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].SnapshotTime.Before(list[j].SnapshotTime)
		})
	}
	return nil
}

// GetByToken retrieves all snapshots for a token, ordered by snapshot_time ASC.
func (s *SnapshotStore) GetByToken(_ context.Context, tokenAddress string) ([]*domain.TokenRiskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.byToken[tokenAddress]
	result := make([]*domain.TokenRiskRecord, 0, len(list))
	for _, r := range list {
		recCopy := *r
		result = append(result, &recCopy)
	}
	return result, nil
}

// GetLatest retrieves the most recent snapshot for a token. Returns ErrNotFound if none.
func (s *SnapshotStore) GetLatest(_ context.Context, tokenAddress string) (*domain.TokenRiskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.byToken[tokenAddress]
	if len(list) == 0 {
		return nil, storage.ErrNotFound
	}
	recCopy := *list[len(list)-1]
	return &recCopy, nil
}

// Tokens returns the addresses that have at least one snapshot, sorted.
func (s *SnapshotStore) Tokens() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := make([]string, 0, len(s.byToken))
	for addr := range s.byToken {
		tokens = append(tokens, addr)
	}
	sort.Strings(tokens)
	return tokens
}

func batchTokens(records []*domain.TokenRiskRecord) map[string]struct{} {
	tokens := make(map[string]struct{}, len(records))
	for _, r := range records {
		tokens[r.TokenAddress] = struct{}{}
	}
	return tokens
}
