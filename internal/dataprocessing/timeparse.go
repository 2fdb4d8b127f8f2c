package dataprocessing

import (
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Exports come from several broker
// frontends, so both ISO-style and dotted MT4/MT5-style stamps appear,
// with and without a time component.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01/02/2006 15:04:05 PM",
	"1/2/2006 15:04",
}

// parseTimestamp sniffs the value against the known layouts. The second
// return value is false when nothing matched; callers treat that as a
// null timestamp and drop the row from aggregation.
func parseTimestamp(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount coerces a raw cell to a float. Currency symbols and
// thousands separators are stripped first. The second return value is
// false for non-numeric input, which aggregators treat as null.
func parseAmount(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// monthKey formats a timestamp as a calendar-month label, e.g. "2024-03".
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
