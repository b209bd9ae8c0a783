package manifest

import "time"

// TimestampLayout renders ISO-8601 UTC timestamps with millisecond precision,
// the format front-end Date.toISOString produces.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp normalises t to UTC and formats it with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
