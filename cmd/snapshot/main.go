// Package main runs one risk snapshot over the token list and appends the
// scored records to the configured outputs.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"solana-token-risk/internal/app"
	"solana-token-risk/internal/config"
	"solana-token-risk/internal/dexscreener"
	"solana-token-risk/internal/snapshot"
	"solana-token-risk/internal/tokenlist"
)

func main() {
	logger := log.New(os.Stdout, "[snapshot] ", log.LstdFlags|log.Lshortfile)

	// Load .env and environment first; flags override
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	flag.StringVar(&cfg.TokensFile, "tokens", cfg.TokensFile, "Token list file (one address per line)")
	flag.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "CSV output path (empty to disable)")
	flag.StringVar(&cfg.XLSXPath, "xlsx", cfg.XLSXPath, "Excel output path (empty to disable)")
	flag.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string (optional)")
	flag.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string (optional)")
	flag.StringVar(&cfg.Dexscreener.BaseURL, "base-url", cfg.Dexscreener.BaseURL, "Dexscreener API base URL")
	flag.DurationVar(&cfg.Dexscreener.Timeout, "timeout", cfg.Dexscreener.Timeout, "Per-request timeout")
	flag.IntVar(&cfg.Dexscreener.MaxRetries, "max-retries", cfg.Dexscreener.MaxRetries, "Retries for transient upstream failures")
	strict := flag.Bool("strict", false, "Skip token list entries that are not valid Solana addresses")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Token list is read before any network call
	tokens, err := tokenlist.Load(cfg.TokensFile)
	if err != nil {
		logger.Fatalf("Failed to load token list: %v", err)
	}
	if *strict {
		valid, invalid := tokenlist.Validate(tokens)
		for _, addr := range invalid {
			logger.Printf("Warning: skipping invalid address %q", addr)
		}
		if len(valid) == 0 {
			logger.Fatalf("No valid addresses in %s", cfg.TokensFile)
		}
		tokens = valid
	}
	logger.Printf("Loaded %d token(s) from %s", len(tokens), cfg.TokensFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outputs, err := app.OpenOutputs(ctx, cfg, app.OpenOptions{Logger: logger})
	if err != nil {
		logger.Fatalf("Failed to open outputs: %v", err)
	}
	defer outputs.Close()

	client := dexscreener.NewClient(
		dexscreener.WithBaseURL(cfg.Dexscreener.BaseURL),
		dexscreener.WithTimeout(cfg.Dexscreener.Timeout),
		dexscreener.WithMaxRetries(cfg.Dexscreener.MaxRetries),
		dexscreener.WithLogger(logger),
	)

	writer := snapshot.New(snapshot.Options{
		Fetcher: client,
		Sink:    outputs.Sink,
		Logger:  logger,
	})

	result, err := writer.Run(ctx, tokens)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Println("Interrupted, nothing written")
			return
		}
		if result != nil && len(result.PartialSinks) > 0 {
			logger.Printf("Warning: records already appended to %v", result.PartialSinks)
		}
		logger.Fatalf("Snapshot failed: %v", err)
	}

	logger.Printf("Done: %d requested, %d written, %d without pool, %d failed, %d duplicate",
		result.Requested, result.Written, result.NoPool, result.Failed, result.Duplicates)
}
