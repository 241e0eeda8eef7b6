// Package tokenlist reads the list of token mint addresses to snapshot.
package tokenlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mr-tron/base58"

	"solana-token-risk/internal/config"
)

// Sentinel errors. Both wrap config.ErrConfiguration.
var (
	ErrNotFound = fmt.Errorf("%w: token list not found", config.ErrConfiguration)
	ErrEmpty    = fmt.Errorf("%w: token list is empty", config.ErrConfiguration)
)

// mintAddressLen is the decoded length of a Solana public key.
const mintAddressLen = 32

// Load reads token addresses from a file, one per line.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open token list: %w", err)
	}
	defer f.Close()

	tokens, err := Parse(f)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
		}
		return nil, err
	}
	return tokens, nil
}

// Parse reads token addresses from r. Blank lines and lines starting with
// '#' are skipped; only the first whitespace-separated field of a line is
// used. Order and duplicates are preserved.
func Parse(r io.Reader) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(line)[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read token list: %w", err)
	}
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}
	return tokens, nil
}

// ValidateAddress checks that addr is a base58 encoded 32-byte public key.
func ValidateAddress(addr string) error {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("invalid base58 address %q: %w", addr, err)
	}
	if len(decoded) != mintAddressLen {
		return fmt.Errorf("invalid address %q: decoded length %d, want %d", addr, len(decoded), mintAddressLen)
	}
	return nil
}

// Validate splits addrs into well-formed and malformed addresses, keeping order.
func Validate(addrs []string) (valid, invalid []string) {
	for _, addr := range addrs {
		if ValidateAddress(addr) != nil {
			invalid = append(invalid, addr)
			continue
		}
		valid = append(valid, addr)
	}
	return valid, invalid
}
