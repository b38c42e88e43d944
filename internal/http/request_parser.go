// Package http provides the HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data: form parsing, date and range extraction, and input sanitization.

package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"tally/internal/core"
)

const dateLayout = "2006-01-02"

// ParseDateParam extracts a date from the named form value, falling back
// to today when the value is absent or malformed.
func ParseDateParam(form url.Values, key string, now time.Time) core.Date {
	if v := strings.TrimSpace(form.Get(key)); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			return core.Date{Time: t}
		}
	}
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseSourceParam extracts the bank/cash/combined filter from query
// parameters, defaulting to combined.
func ParseSourceParam(query url.Values) core.Source {
	switch strings.TrimSpace(query.Get("source")) {
	case "bank":
		return core.SourceBank
	case "cash":
		return core.SourceCash
	default:
		return core.SourceCombined
	}
}

// RangeParams holds a parsed from/to date range.
type RangeParams struct {
	From core.Date
	To   core.Date
}

// ParseRangeParams extracts from/to dates from query parameters. The
// default range spans the current calendar year.
func ParseRangeParams(query url.Values, now time.Time) RangeParams {
	params := RangeParams{
		From: core.NewDate(now.Year(), 1, 1),
		To:   core.NewDate(now.Year(), 12, 31),
	}

	if v := strings.TrimSpace(query.Get("from")); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			params.From = core.Date{Time: t}
		}
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			params.To = core.Date{Time: t}
		}
	}

	if params.To.Before(params.From.Time) {
		params.From, params.To = params.To, params.From
	}

	return params
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("invalid request format")
	}
	return nil
}
