// Package main runs risk snapshots on a schedule and serves status,
// metrics and the latest snapshots over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"solana-token-risk/internal/api"
	"solana-token-risk/internal/app"
	"solana-token-risk/internal/config"
	"solana-token-risk/internal/dexscreener"
	"solana-token-risk/internal/snapshot"
	"solana-token-risk/internal/tokenlist"
)

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Load .env and environment first; flags override
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	flag.StringVar(&cfg.TokensFile, "tokens", cfg.TokensFile, "Token list file, re-read before every run")
	flag.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "CSV output path (empty to disable)")
	flag.StringVar(&cfg.XLSXPath, "xlsx", cfg.XLSXPath, "Excel output path (empty to disable)")
	flag.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string (optional)")
	flag.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string (optional)")
	flag.StringVar(&cfg.Dexscreener.BaseURL, "base-url", cfg.Dexscreener.BaseURL, "Dexscreener API base URL")
	flag.DurationVar(&cfg.Dexscreener.Timeout, "timeout", cfg.Dexscreener.Timeout, "Per-request timeout")
	flag.IntVar(&cfg.Dexscreener.MaxRetries, "max-retries", cfg.Dexscreener.MaxRetries, "Retries for transient upstream failures")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Snapshot interval")
	flag.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP address for health, metrics, status and API")
	useMemory := flag.Bool("use-memory", false, "Keep snapshots in memory for the API when no database is configured")
	strict := flag.Bool("strict", false, "Skip token list entries that are not valid Solana addresses")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Fail fast on a missing or empty list; later runs re-read it
	loadTokens := func() ([]string, error) {
		tokens, err := tokenlist.Load(cfg.TokensFile)
		if err != nil {
			return nil, err
		}
		if !*strict {
			return tokens, nil
		}
		valid, invalid := tokenlist.Validate(tokens)
		for _, addr := range invalid {
			logger.Printf("Warning: skipping invalid address %q", addr)
		}
		return valid, nil
	}
	if _, err := loadTokens(); err != nil {
		logger.Fatalf("Failed to load token list: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outputs, err := app.OpenOutputs(ctx, cfg, app.OpenOptions{UseMemory: *useMemory, Logger: logger})
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
	scheduler := snapshot.NewScheduler(writer, loadTokens, cfg.Interval, logger)

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(api.NewHandler(scheduler, outputs.Store)),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	go func() {
		logger.Printf("Starting HTTP server on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("HTTP server error: %v", err)
		}
	}()

	err = scheduler.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		logger.Printf("HTTP shutdown error: %v", serr)
	}

	done <- err

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}
