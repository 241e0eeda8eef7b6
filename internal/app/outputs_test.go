package app

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-risk/internal/config"
	"solana-token-risk/internal/storage/memory"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestOpenOutputs_FileSinks(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		CSVPath:  filepath.Join(dir, "out.csv"),
		XLSXPath: filepath.Join(dir, "out.xlsx"),
	}

	out, err := OpenOutputs(context.Background(), cfg, OpenOptions{Logger: quietLogger()})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 2, out.Sink.Len())
	assert.Nil(t, out.Store)
}

func TestOpenOutputs_MemoryBecomesStore(t *testing.T) {
	cfg := &config.Config{CSVPath: filepath.Join(t.TempDir(), "out.csv")}

	out, err := OpenOutputs(context.Background(), cfg, OpenOptions{UseMemory: true, Logger: quietLogger()})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 2, out.Sink.Len())
	_, ok := out.Store.(*memory.SnapshotStore)
	assert.True(t, ok)
}

func TestOpenOutputs_NothingConfigured(t *testing.T) {
	_, err := OpenOutputs(context.Background(), &config.Config{}, OpenOptions{Logger: quietLogger()})
	assert.ErrorIs(t, err, config.ErrConfiguration)
}
