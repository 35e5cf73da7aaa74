package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/the100/internal/game"
	"github.com/robalobadob/the100/internal/reveal"
	"github.com/robalobadob/the100/internal/round"
)

func newSession(owner string, clock *reveal.ManualClock) *game.Session {
	opts := game.DefaultOptions()
	opts.Clock = clock
	entries := round.NewEntries([]round.Record{{Label: "Brazil"}, {Label: "USA"}, {Label: "China"}})
	return game.New(owner, game.Meta{Slug: "countries"}, entries, opts)
}

func TestReplaceResetsPreviousRound(t *testing.T) {
	ctx := context.Background()
	clock := reveal.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	m := NewMemoryStore()

	first := newSession("alice", clock)
	if err := m.Replace(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := first.StartReveal(); err != nil {
		t.Fatal(err)
	}
	clock.Advance(100 * time.Millisecond)

	second := newSession("alice", clock)
	if err := m.Replace(ctx, second); err != nil {
		t.Fatal(err)
	}
	if !first.IsReset() {
		t.Fatal("previous round should be reset")
	}
	if clock.Pending() != 0 {
		t.Fatalf("%d reveal timers of the old round still pending", clock.Pending())
	}
	if _, err := m.Get(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old round still retrievable: %v", err)
	}
	cur, err := m.Current(ctx, "alice")
	if err != nil || cur != second {
		t.Fatalf("Current = %v, %v", cur, err)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	clock := reveal.NewManualClock(time.Now())
	m := NewMemoryStore()
	a, b := newSession("alice", clock), newSession("bob", clock)
	_ = m.Replace(ctx, a)
	_ = m.Replace(ctx, b)
	if a.IsReset() || b.IsReset() || m.Len() != 2 {
		t.Fatalf("rounds of different owners must coexist (len=%d)", m.Len())
	}
	if _, err := m.Current(ctx, "carol"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Current(carol) err = %v", err)
	}
}

func TestSweepDropsIdleRounds(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := reveal.NewManualClock(start)
	m := NewMemoryStore()

	idle := newSession("alice", clock)
	_ = m.Replace(ctx, idle)
	clock.Advance(time.Hour)
	active := newSession("bob", clock)
	_ = m.Replace(ctx, active)

	if n := m.Sweep(start.Add(30 * time.Minute)); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if !idle.IsReset() || active.IsReset() {
		t.Fatal("only the idle round should be reset")
	}
	if _, err := m.Current(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("idle owner still mapped: %v", err)
	}
}
