// Package csvfile appends risk snapshots to a CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/storage"
)

// DefaultPath is where snapshots are written when no path is configured.
const DefaultPath = "data/processed/token_snapshots.csv"

// Sink appends records to a CSV file. The header row is written only when
// the file is created (or found empty).
type Sink struct {
	path string
}

// NewSink creates a Sink for path.
func NewSink(path string) *Sink {
	if path == "" {
		path = DefaultPath
	}
	return &Sink{path: path}
}

var _ storage.SnapshotSink = (*Sink)(nil)

// Path returns the target file path.
func (s *Sink) Path() string {
	return s.path
}

// Append writes records after any existing rows.
func (s *Sink) Append(ctx context.Context, records []*domain.TokenRiskRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	writeHeader := true
	if info, err := os.Stat(s.path); err == nil && info.Size() > 0 {
		writeHeader = false
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(storage.Columns); err != nil {
			f.Close()
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for _, r := range records {
		if err := w.Write(storage.FormatRow(r)); err != nil {
			f.Close()
			return fmt.Errorf("write csv row for %s: %w", r.TokenAddress, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}
