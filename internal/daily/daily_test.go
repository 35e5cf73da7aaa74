package daily

import (
	"testing"
	"time"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	local := time.Date(2026, 3, 2, 8, 0, 0, 0, loc) // 2026-03-01 22:00 UTC
	if got := DateKey(local); got != "2026-03-01" {
		t.Fatalf("DateKey() = %s, want 2026-03-01", got)
	}
}

func TestTopicIndex(t *testing.T) {
	day := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if got := TopicIndex(day, "salt", 0); got != 0 {
		t.Fatalf("TopicIndex(n=0) = %d", got)
	}
	a := TopicIndex(day, "salt", 7)
	if a < 0 || a >= 7 {
		t.Fatalf("TopicIndex() = %d out of range", a)
	}
	if b := TopicIndex(day.Add(11*time.Hour), "salt", 7); b != a {
		t.Fatalf("same date gave %d and %d", a, b)
	}

	// Over a month the choice should not be constant.
	seen := map[int]bool{}
	for d := 0; d < 31; d++ {
		seen[TopicIndex(day.AddDate(0, 0, d), "salt", 7)] = true
	}
	if len(seen) < 2 {
		t.Fatalf("index never changed over 31 days: %v", seen)
	}
}

func TestPick(t *testing.T) {
	now := time.Now()
	if _, ok := Pick([]string(nil), now, "s"); ok {
		t.Fatal("Pick(empty) should report false")
	}
	items := []string{"a", "b", "c"}
	got, ok := Pick(items, now, "s")
	if !ok || got != items[TopicIndex(now, "s", len(items))] {
		t.Fatalf("Pick() = %q, %v", got, ok)
	}
}
