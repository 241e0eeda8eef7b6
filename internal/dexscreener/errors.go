package dexscreener

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Failure reasons carried by DataSourceError.
const (
	ReasonInvalidAddress   = "invalid token address"
	ReasonRequestFailed    = "request failed"
	ReasonUnexpectedStatus = "unexpected status"
	ReasonInvalidJSON      = "invalid JSON"
	ReasonUnexpectedShape  = "unexpected response shape"
)

// maxBodyExcerpt bounds the response body kept on an error.
const maxBodyExcerpt = 200

// DataSourceError is the single error kind returned by Client for any
// upstream fetch or parse failure.
type DataSourceError struct {
	Reason     string
	URL        string
	StatusCode int    // set for ReasonUnexpectedStatus
	Body       string // truncated response body, when one was received
	Err        error  // underlying transport or decode error
}

func (e *DataSourceError) Error() string {
	var sb strings.Builder
	sb.WriteString("dexscreener: ")
	sb.WriteString(e.Reason)
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " %d", e.StatusCode)
	}
	if e.URL != "" {
		fmt.Fprintf(&sb, " (%s)", e.URL)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ": %s", e.Body)
	}
	return sb.String()
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// excerpt truncates body to at most maxBodyExcerpt bytes without splitting
// a UTF-8 sequence.
func excerpt(body []byte) string {
	if len(body) <= maxBodyExcerpt {
		return string(body)
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}
