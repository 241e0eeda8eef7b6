// Package main fetches one token from Dexscreener and prints what a snapshot
// run would record for it. Nothing is written.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"solana-token-risk/internal/config"
	"solana-token-risk/internal/dexscreener"
	"solana-token-risk/internal/risk"
)

// wrappedSOL is inspected when no address is given.
const wrappedSOL = "So11111111111111111111111111111111111111112"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	baseURL := flag.String("base-url", cfg.Dexscreener.BaseURL, "Dexscreener API base URL")
	timeout := flag.Duration("timeout", cfg.Dexscreener.Timeout, "Request timeout")
	flag.Parse()

	logger := log.New(os.Stderr, "[inspect] ", log.LstdFlags|log.Lshortfile)

	addr := flag.Arg(0)
	if addr == "" {
		addr = wrappedSOL
	}

	client := dexscreener.NewClient(
		dexscreener.WithBaseURL(*baseURL),
		dexscreener.WithTimeout(*timeout),
		dexscreener.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	pools, err := client.FetchPools(ctx, addr)
	if err != nil {
		logger.Fatalf("Fetch failed: %v", err)
	}
	fmt.Printf("Token:  %s\n", addr)
	fmt.Printf("URL:    %s\n", client.PoolsURL(addr))
	fmt.Printf("Pools:  %d\n", len(pools))

	if primary, ok := risk.SelectPrimary(pools); ok {
		fmt.Printf("Primary pool: %s on %s (%s)\n", primary.PairAddress, primary.DexID, primary.URL)
	}

	obs, ok := risk.NewBuilder(logger).Build(addr, pools)
	if !ok {
		fmt.Println("No record: token has no pools")
		return
	}

	rec := risk.Score(*obs)
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		logger.Fatalf("Encode record: %v", err)
	}
	fmt.Println(string(out))
}
