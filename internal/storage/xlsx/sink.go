// Package xlsx appends risk snapshots to an Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/storage"
)

// DefaultSheet holds the snapshot rows.
const DefaultSheet = "snapshots"

// Sink appends records to a sheet of an .xlsx workbook, creating the
// workbook and header row on first use.
type Sink struct {
	path  string
	sheet string
}

// NewSink creates a Sink writing to the DefaultSheet of path.
func NewSink(path string) *Sink {
	return &Sink{path: path, sheet: DefaultSheet}
}

var _ storage.SnapshotSink = (*Sink)(nil)

// Append writes records below the last used row.
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

	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", s.sheet, err)
	}

	next := len(rows) + 1
	if len(rows) == 0 {
		if err := s.writeRow(f, next, storage.Columns); err != nil {
			return err
		}
		next++
	}
	for _, r := range records {
		if err := s.writeRow(f, next, storage.FormatRow(r)); err != nil {
			return err
		}
		next++
	}

	if created {
		if dir := filepath.Dir(s.path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := f.SaveAs(s.path); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// open loads the workbook, or creates one whose only sheet is s.sheet.
func (s *Sink) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(s.path)
	if err == nil {
		idx, err := f.GetSheetIndex(s.sheet)
		if err != nil {
			f.Close()
			return nil, false, fmt.Errorf("find sheet %s: %w", s.sheet, err)
		}
		if idx == -1 {
			if _, err := f.NewSheet(s.sheet); err != nil {
				f.Close()
				return nil, false, fmt.Errorf("create sheet %s: %w", s.sheet, err)
			}
		}
		return f, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("open workbook: %w", err)
	}

	f = excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("rename sheet: %w", err)
	}
	return f, true, nil
}

func (s *Sink) writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(s.sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
