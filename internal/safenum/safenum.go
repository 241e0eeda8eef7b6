// Package safenum reads numbers out of loosely typed JSON values.
//
// Market data APIs return the same field as a JSON number, a numeric string
// or null depending on the venue. Every helper here is total: a value that
// cannot be read yields nil (or false) and never an error, so one bad field
// cannot abort extraction of the others.
package safenum

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// maxUnixMilli is 9999-12-31T23:59:59.999Z.
const maxUnixMilli = 253402300799999

// ParseFloat parses raw as a finite float64. JSON numbers and numeric strings
// (including exponent notation) are accepted; null, empty, booleans, objects,
// non-numeric strings and values overflowing float64 are rejected.
func ParseFloat(raw json.RawMessage) (float64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return 0, false
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Float is ParseFloat returning nil on failure.
func Float(raw json.RawMessage) *float64 {
	f, ok := ParseFloat(raw)
	if !ok {
		return nil
	}
	return &f
}

// AbsFloat is Float followed by math.Abs.
func AbsFloat(raw json.RawMessage) *float64 {
	f, ok := ParseFloat(raw)
	if !ok {
		return nil
	}
	f = math.Abs(f)
	return &f
}

// String returns raw as a string when it is a JSON string, nil otherwise.
// Numbers, booleans, arrays and objects are not coerced.
func String(raw json.RawMessage) *string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s[0] != '"' {
		return nil
	}
	var str string
	if err := json.Unmarshal([]byte(s), &str); err != nil {
		return nil
	}
	return &str
}

// UnixMilli reads raw as epoch milliseconds and returns the UTC instant.
// Fractional milliseconds are truncated. Values outside years 0000-9999 are
// rejected.
func UnixMilli(raw json.RawMessage) *time.Time {
	f, ok := ParseFloat(raw)
	if !ok {
		return nil
	}
	if f > maxUnixMilli || f < -62167219200000 {
		return nil
	}
	t := time.UnixMilli(int64(f)).UTC()
	return &t
}

// Extract applies parse to the field selected by get. It lets callers declare
// field extraction as (accessor, target type) pairs:
//
//	liq := safenum.Extract(pool, domain.Pool.LiquidityUSD, safenum.Float)
func Extract[S, T any](src S, get func(S) json.RawMessage, parse func(json.RawMessage) *T) *T {
	if get == nil || parse == nil {
		return nil
	}
	return parse(get(src))
}
