// Package app wires configured outputs into sinks and stores for cmd/*.
package app

import (
	"context"
	"fmt"
	"log"

	"solana-token-risk/internal/config"
	"solana-token-risk/internal/storage"
	chstore "solana-token-risk/internal/storage/clickhouse"
	"solana-token-risk/internal/storage/csvfile"
	"solana-token-risk/internal/storage/memory"
	"solana-token-risk/internal/storage/migrations"
	pgstore "solana-token-risk/internal/storage/postgres"
	"solana-token-risk/internal/storage/xlsx"
)

// Outputs holds the sinks a run writes to and the store queries read from.
type Outputs struct {
	Sink  *storage.MultiSink
	Store storage.SnapshotStore // nil unless a queryable store is configured

	closers []func()
}

// OpenOptions controls OpenOutputs.
type OpenOptions struct {
	// UseMemory adds an in-memory store. It also becomes the query store
	// when no database is configured.
	UseMemory bool
	Logger    *log.Logger
}

// OpenOutputs builds the sinks named in cfg, in the order csv, xlsx,
// postgres, clickhouse, memory. Database schemas are migrated on open.
func OpenOutputs(ctx context.Context, cfg *config.Config, opts OpenOptions) (*Outputs, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	out := &Outputs{}
	var sinks []storage.NamedSink

	if cfg.CSVPath != "" {
		sinks = append(sinks, storage.NamedSink{Name: "csv", Sink: csvfile.NewSink(cfg.CSVPath)})
		logger.Printf("Writing snapshots to CSV %s", cfg.CSVPath)
	}
	if cfg.XLSXPath != "" {
		sinks = append(sinks, storage.NamedSink{Name: "xlsx", Sink: xlsx.NewSink(cfg.XLSXPath)})
		logger.Printf("Writing snapshots to workbook %s", cfg.XLSXPath)
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		out.closers = append(out.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			out.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		store := pgstore.NewSnapshotStore(pool)
		sinks = append(sinks, storage.NamedSink{Name: "postgres", Sink: store})
		out.Store = store
		logger.Println("Writing snapshots to PostgreSQL")
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		out.closers = append(out.closers, func() { conn.Close() })
		store := chstore.NewSnapshotStore(conn)
		sinks = append(sinks, storage.NamedSink{Name: "clickhouse", Sink: store})
		if out.Store == nil {
			out.Store = store
		}
		logger.Println("Writing snapshots to ClickHouse")
	}

	if opts.UseMemory {
		store := memory.NewSnapshotStore()
		sinks = append(sinks, storage.NamedSink{Name: "memory", Sink: store})
		if out.Store == nil {
			out.Store = store
		}
	}

	if len(sinks) == 0 {
		return nil, fmt.Errorf("%w: no output configured", config.ErrConfiguration)
	}

	out.Sink = storage.NewMultiSink(sinks...)
	return out, nil
}

// Close releases database connections in reverse open order.
func (o *Outputs) Close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i]()
	}
	o.closers = nil
}
