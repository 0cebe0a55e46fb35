package signer

import (
	"strings"
	"time"
)

// CanonicalTime formats t, or the current time when t is nil, as a full
// SigV4 timestamp in UTC.
func CanonicalTime(t *time.Time) string {
	now := time.Now()
	if t != nil {
		now = *t
	}
	return now.UTC().Format(TimeFormat)
}

// CanonicalDay returns the date prefix of a full timestamp. A factory may
// hand over a timestamp string instead of a time value, so the day is cut
// from the string rather than re-derived from a clock.
func CanonicalDay(timestamp string) string {
	if i := strings.IndexByte(timestamp, 'T'); i >= 0 {
		return timestamp[:i]
	}
	if len(timestamp) > len(ShortTimeFormat) {
		return timestamp[:len(ShortTimeFormat)]
	}
	return timestamp
}
