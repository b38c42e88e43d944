package http

import (
	"net/url"
	"testing"
	"time"

	"tally/internal/core"
)

func TestParseDateParam(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	form := url.Values{"date": {"2024-03-12"}}
	d := ParseDateParam(form, "date", now)
	if d.Year() != 2024 || d.Time.Month() != time.March || d.Day() != 12 {
		t.Errorf("parsed date = %v", d)
	}

	for _, raw := range []string{"", "not-a-date", "12/03/2024"} {
		d := ParseDateParam(url.Values{"date": {raw}}, "date", now)
		if d.Year() != 2024 || d.Time.Month() != time.June || d.Day() != 15 {
			t.Errorf("fallback for %q = %v, want today", raw, d)
		}
	}
}

func TestParseSourceParam(t *testing.T) {
	tests := []struct {
		raw  string
		want core.Source
	}{
		{"bank", core.SourceBank},
		{"cash", core.SourceCash},
		{"combined", core.SourceCombined},
		{"", core.SourceCombined},
		{"paypal", core.SourceCombined},
	}
	for _, tt := range tests {
		got := ParseSourceParam(url.Values{"source": {tt.raw}})
		if got != tt.want {
			t.Errorf("ParseSourceParam(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseRangeParams(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	rng := ParseRangeParams(url.Values{}, now)
	if rng.From.Year() != 2024 || rng.From.Time.Month() != time.January || rng.From.Day() != 1 {
		t.Errorf("default from = %v", rng.From)
	}
	if rng.To.Year() != 2024 || rng.To.Time.Month() != time.December || rng.To.Day() != 31 {
		t.Errorf("default to = %v", rng.To)
	}

	rng = ParseRangeParams(url.Values{"from": {"2024-02-01"}, "to": {"2024-04-30"}}, now)
	if rng.From.Time.Month() != time.February || rng.To.Time.Month() != time.April {
		t.Errorf("explicit range = %v .. %v", rng.From, rng.To)
	}

	// Reversed bounds are swapped rather than rejected.
	rng = ParseRangeParams(url.Values{"from": {"2024-04-30"}, "to": {"2024-02-01"}}, now)
	if rng.From.Time.Month() != time.February || rng.To.Time.Month() != time.April {
		t.Errorf("swapped range = %v .. %v", rng.From, rng.To)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"line\x00break", "linebreak"},
		{"tab\tkept", "tab\tkept"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
