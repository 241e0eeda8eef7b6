// Package config loads runtime configuration from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file. Command flags override them in cmd/*.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfiguration marks errors that make a run impossible before any fetch.
var ErrConfiguration = errors.New("configuration error")

// Config holds application configuration.
type Config struct {
	Dexscreener DexscreenerConfig

	// Inputs and outputs
	TokensFile string
	CSVPath    string
	XLSXPath   string // empty disables the xlsx sink

	// Optional databases
	PostgresDSN   string
	ClickhouseDSN string

	// Service
	HTTPAddr string
	Interval time.Duration
}

// DexscreenerConfig holds market data client settings.
type DexscreenerConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Defaults.
const (
	DefaultTokensFile = "tokens.txt"
	DefaultCSVPath    = "data/processed/token_snapshots.csv"
	DefaultBaseURL    = "https://api.dexscreener.com"
	DefaultTimeout    = 10 * time.Second
	DefaultHTTPAddr   = ":8080"
	DefaultInterval   = 15 * time.Minute
)

// Load reads the given .env files (default ".env") into the environment,
// without overriding variables that are already set, then builds a Config.
// Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFilesOrDefault(envFiles) {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: load %s: %v", ErrConfiguration, file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	timeout, err := getDuration("DEXSCREENER_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, err
	}
	retries, err := getInt("DEXSCREENER_MAX_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	interval, err := getDuration("SNAPSHOT_INTERVAL", DefaultInterval)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Dexscreener: DexscreenerConfig{
			BaseURL:    getEnv("DEXSCREENER_BASE_URL", DefaultBaseURL),
			Timeout:    timeout,
			MaxRetries: retries,
		},
		TokensFile:    getEnv("TOKENS_FILE", DefaultTokensFile),
		CSVPath:       getEnv("SNAPSHOT_CSV", DefaultCSVPath),
		XLSXPath:      getEnv("SNAPSHOT_XLSX", ""),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		HTTPAddr:      getEnv("HTTP_ADDR", DefaultHTTPAddr),
		Interval:      interval,
	}
	return cfg, nil
}

// Validate checks values that flags may have overridden.
func (c *Config) Validate() error {
	if c.TokensFile == "" {
		return fmt.Errorf("%w: tokens file is required", ErrConfiguration)
	}
	if c.CSVPath == "" && c.XLSXPath == "" && c.PostgresDSN == "" && c.ClickhouseDSN == "" {
		return fmt.Errorf("%w: no output configured", ErrConfiguration)
	}
	if c.Dexscreener.BaseURL == "" {
		return fmt.Errorf("%w: dexscreener base url is required", ErrConfiguration)
	}
	if c.Dexscreener.Timeout <= 0 {
		return fmt.Errorf("%w: dexscreener timeout must be positive", ErrConfiguration)
	}
	if c.Dexscreener.MaxRetries < 0 {
		return fmt.Errorf("%w: dexscreener max retries must be >= 0", ErrConfiguration)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: snapshot interval must be positive", ErrConfiguration)
	}
	return nil
}

func envFilesOrDefault(files []string) []string {
	if len(files) == 0 {
		return []string{".env"}
	}
	return files
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrConfiguration, key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrConfiguration, key, err)
	}
	return d, nil
}
