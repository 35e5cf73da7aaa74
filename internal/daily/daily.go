// internal/daily/daily.go
//
// Topic of the day.
// Every player sees the same topic on a given UTC date; the choice is
// HMAC(salt, YYYY-MM-DD) modulo the number of daily-eligible topics, so it
// cannot be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TopicIndex returns a deterministic index in [0, n) for the date.
func TopicIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for an even spread
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns today's element of items, or false when items is empty.
func Pick[T any](items []T, now time.Time, salt string) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[TopicIndex(now, salt, len(items))], true
}
