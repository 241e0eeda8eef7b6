package risk

import (
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"solana-token-risk/internal/domain"
)

func mustPools(t *testing.T, raw string) []domain.Pool {
	t.Helper()
	var pools []domain.Pool
	require.NoError(t, json.Unmarshal([]byte(raw), &pools))
	return pools
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func ptr[T any](v T) *T {
	return &v
}
