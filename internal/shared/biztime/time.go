// Package biztime centralizes wall-clock access. All persisted timestamps are
// UTC with millisecond precision so that ordering in the database matches
// ordering in memory.
package biztime

import "time"

var nowFunc = time.Now

// NowUTC returns the current time in UTC truncated to milliseconds.
func NowUTC() time.Time {
	return nowFunc().UTC().Truncate(time.Millisecond)
}

// FromMillis converts a stored unix-millisecond timestamp to UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// SetNowFunc overrides the clock and returns a function restoring it.
// Intended for tests.
func SetNowFunc(fn func() time.Time) (restore func()) {
	prev := nowFunc
	nowFunc = fn
	return func() { nowFunc = prev }
}
