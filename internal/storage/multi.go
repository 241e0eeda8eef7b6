package storage

import (
	"context"
	"fmt"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/observability"
)

// NamedSink pairs a sink with the label used in logs and metrics.
type NamedSink struct {
	Name string
	Sink SnapshotSink
}

// MultiSink fans a batch out to several sinks in order.
// The first failing sink stops the fan-out.
type MultiSink struct {
	sinks []NamedSink
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...NamedSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

var _ SnapshotSink = (*MultiSink)(nil)

// SinkError reports the sink that failed and the sinks that had already
// taken the batch.
type SinkError struct {
	Sink      string
	Completed []string
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("append to %s sink: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Append writes records to every sink. On failure the returned error is a
// *SinkError.
func (m *MultiSink) Append(ctx context.Context, records []*domain.TokenRiskRecord) error {
	var completed []string
	for _, s := range m.sinks {
		err := s.Sink.Append(ctx, records)
		observability.RecordSinkWrite(s.Name, len(records), err)
		if err != nil {
			return &SinkError{Sink: s.Name, Completed: completed, Err: err}
		}
		completed = append(completed, s.Name)
	}
	return nil
}

// Len returns the number of sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}
