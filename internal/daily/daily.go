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

// BoardSeed returns a deterministic rng seed for a date using
// HMAC(salt, YYYY-MM-DD). Everyone playing the daily challenge on the same
// date with the same salt gets the same board.
func BoardSeed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, kept positive so a zero/negative seed never sneaks in
	n := binary.BigEndian.Uint64(sum[:8]) & (1<<63 - 1)
	if n == 0 {
		n = 1
	}
	return int64(n)
}
