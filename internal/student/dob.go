package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the only representation dob is stored and returned in.
const DateLayout = "2006-01-02"

// layouts are tried before falling back to dateparse; together they cover
// what browsers and JSON encoders emit for a date.
var layouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// NormalizeDOB parses raw as a calendar date or instant and formats the UTC
// calendar day as YYYY-MM-DD. Inputs without an offset are read as UTC so the
// result never depends on the host time zone.
func NormalizeDOB(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidDOB
	}
	t, err := parseInstant(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDOB, raw)
	}
	return t.UTC().Format(DateLayout), nil
}

func parseInstant(raw string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseIn(raw, time.UTC)
}
