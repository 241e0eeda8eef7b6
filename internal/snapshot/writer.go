// Package snapshot runs one risk snapshot over a token list.
//
// Flow per token: fetch pools → select primary pool → observe → score.
// Scored records are collected and appended to the sink in one batch,
// in token-list order, all stamped with the run timestamp.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/observability"
	"solana-token-risk/internal/risk"
	"solana-token-risk/internal/storage"
)

// Fetcher returns the pools trading a token.
type Fetcher interface {
	FetchPools(ctx context.Context, tokenAddress string) ([]domain.Pool, error)
}

// Writer produces risk snapshots.
type Writer struct {
	fetcher Fetcher
	builder *risk.Builder
	sink    storage.SnapshotSink
	logger  *log.Logger
	now     func() time.Time
}

// Options for creating Writer.
type Options struct {
	Fetcher Fetcher              // required
	Sink    storage.SnapshotSink // required
	Builder *risk.Builder        // nil → risk.NewBuilder(Logger)
	Logger  *log.Logger          // nil → log.Default()
	Now     func() time.Time     // nil → time.Now
}

// New creates a new Writer.
func New(opts Options) *Writer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	builder := opts.Builder
	if builder == nil {
		builder = risk.NewBuilder(logger)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Writer{
		fetcher: opts.Fetcher,
		builder: builder,
		sink:    opts.Sink,
		logger:  logger,
		now:     now,
	}
}

// Result summarizes one run.
type Result struct {
	SnapshotTime time.Time
	Requested    int
	Written      int // records appended to every sink
	NoPool       int
	Failed       int
	Duplicates   int // repeated addresses skipped
	Records      []*domain.TokenRiskRecord

	// PartialSinks lists the sinks that took the batch before a later
	// sink failed. Empty on success.
	PartialSinks []string
}

// Run snapshots every address in order. Tokens whose lookup fails or that
// have no pool are logged and skipped, as are repeats of an address already
// seen in this run. A sink error fails the run.
// Cancelling ctx stops the run before the next token; nothing is written.
func (w *Writer) Run(ctx context.Context, addresses []string) (*Result, error) {
	start := time.Now()
	result := &Result{
		SnapshotTime: w.now().UTC().Truncate(time.Second),
		Requested:    len(addresses),
	}

	seen := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		if _, dup := seen[addr]; dup {
			w.logger.Printf("Warning: skipping duplicate token %s", addr)
			result.Duplicates++
			continue
		}
		seen[addr] = struct{}{}

		if err := ctx.Err(); err != nil {
			observability.RecordRun("cancelled", time.Since(start).Seconds())
			return result, fmt.Errorf("snapshot run cancelled: %w", err)
		}

		rec, err := w.snapshotToken(ctx, addr)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				observability.RecordRun("cancelled", time.Since(start).Seconds())
				return result, fmt.Errorf("snapshot run cancelled: %w", ctxErr)
			}
			w.logger.Printf("Warning: skipping token %s: %v", addr, err)
			observability.RecordToken(observability.OutcomeFailed)
			result.Failed++
			continue
		}
		if rec == nil {
			observability.RecordToken(observability.OutcomeNoPool)
			result.NoPool++
			continue
		}

		stamped := rec.WithSnapshotTime(result.SnapshotTime)
		result.Records = append(result.Records, &stamped)
		observability.ObserveOverallScore(stamped.Scores.Overall)
	}

	if len(result.Records) == 0 {
		w.logger.Printf("No records to write.")
		observability.RecordRun("empty", time.Since(start).Seconds())
		return result, nil
	}

	if err := w.sink.Append(ctx, result.Records); err != nil {
		var sinkErr *storage.SinkError
		if errors.As(err, &sinkErr) && len(sinkErr.Completed) > 0 {
			result.PartialSinks = sinkErr.Completed
			w.logger.Printf("Warning: %d record(s) already appended to %v before %s failed",
				len(result.Records), sinkErr.Completed, sinkErr.Sink)
		}
		observability.RecordRun("error", time.Since(start).Seconds())
		return result, fmt.Errorf("write snapshots: %w", err)
	}
	result.Written = len(result.Records)
	for range result.Records {
		observability.RecordToken(observability.OutcomeWritten)
	}

	w.logger.Printf("Wrote %d snapshot(s) at %s (%d no pool, %d failed, %d duplicate)",
		result.Written, result.SnapshotTime.Format(time.RFC3339), result.NoPool, result.Failed, result.Duplicates)
	observability.RecordRun("success", time.Since(start).Seconds())
	return result, nil
}

// Snapshot fetches and scores a single token without writing it.
// Returns nil, nil when the token has no pool.
func (w *Writer) Snapshot(ctx context.Context, tokenAddress string) (*domain.TokenRiskRecord, error) {
	return w.snapshotToken(ctx, tokenAddress)
}

func (w *Writer) snapshotToken(ctx context.Context, addr string) (*domain.TokenRiskRecord, error) {
	pools, err := w.fetcher.FetchPools(ctx, addr)
	if err != nil {
		return nil, err
	}

	obs, ok := w.builder.Build(addr, pools)
	if !ok {
		return nil, nil
	}

	rec := risk.Score(*obs)
	return &rec, nil
}
