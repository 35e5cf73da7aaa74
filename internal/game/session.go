// internal/game/session.go
//
// A Session is one player's round of The 100 Game.
// Responsibilities:
//   - Own the round state and the reveal sequencer of that round together.
//   - Apply reveal events to the round, unless the round was reset or the
//     reveal was hidden/restarted after the event was scheduled.
//   - Fan reveal events out to subscribers (WebSocket hosts).
//
// Notes:
//   - ctl serializes reveal control (start/hide/reset); mu guards state.
//     Reveal callbacks only take mu, so control may call into the sequencer freely.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/the100/internal/reveal"
	"github.com/robalobadob/the100/internal/round"
)

// ErrReset is returned for operations on a round that has been replaced.
var ErrReset = errors.New("round was reset")

// Meta describes the topic a round is played on.
type Meta struct {
	Slug        string `json:"topic"`
	Name        string `json:"name"`
	Noun        string `json:"noun"`
	DetailLabel string `json:"detailLabel,omitempty"`
	Date        string `json:"date,omitempty"` // set for daily rounds
}

// Options configure rules and reveal pacing.
type Options struct {
	Round round.Config
	Delay time.Duration
	Order reveal.Order
	Clock reveal.Clock

	// OnReveal, if set, observes every reveal event applied to the round.
	OnReveal func(reveal.Event)
}

// DefaultOptions are the live game's settings.
func DefaultOptions() Options {
	return Options{Round: round.DefaultConfig(), Delay: 100 * time.Millisecond, Order: reveal.Descending}
}

// Session holds the state of one round.
type Session struct {
	ID        string
	Owner     string
	Meta      Meta
	StartedAt time.Time

	ctl sync.Mutex
	mu  sync.Mutex

	clock      reveal.Clock
	observe    func(reveal.Event)
	state      *round.State
	seq        *reveal.Sequencer
	revealGen  uint64
	revealing  bool
	reset      bool
	recorded   bool
	lastActive time.Time
	subs       map[chan reveal.Event]struct{}
}

// New starts a round for owner over entries.
func New(owner string, meta Meta, entries []round.RankedEntry, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = reveal.RealClock()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultOptions().Delay
	}
	now := opts.Clock.Now()
	return &Session{
		ID:         randomID(),
		Owner:      owner,
		Meta:       meta,
		StartedAt:  now,
		clock:      opts.Clock,
		observe:    opts.OnReveal,
		state:      round.New(entries, opts.Round),
		seq:        reveal.NewSequencer(opts.Clock, opts.Delay, opts.Order),
		lastActive: now,
		subs:       make(map[chan reveal.Event]struct{}),
	}
}

// Guess submits raw to the round.
func (s *Session) Guess(raw string) (round.Outcome, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reset {
		return round.Outcome{}, Snapshot{}, ErrReset
	}
	s.lastActive = s.clock.Now()
	out := s.state.SubmitGuess(raw)
	return out, s.snapshotLocked(), nil
}

// StartReveal (re)starts disclosure of every rank. A reveal already in
// flight is cancelled first; its remaining events never fire.
func (s *Session) StartReveal() ([]reveal.Scheduled, error) {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if s.reset {
		s.mu.Unlock()
		return nil, ErrReset
	}
	s.revealGen++
	gen := s.revealGen
	n := len(s.state.Entries)
	s.revealing = n > 0
	s.lastActive = s.clock.Now()
	s.mu.Unlock()

	return s.seq.Start(n, s.onReveal(gen)), nil
}

// HideReveal cancels pending reveal events and clears the revealed set.
func (s *Session) HideReveal() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if s.reset {
		s.mu.Unlock()
		return ErrReset
	}
	s.revealGen++
	s.revealing = false
	s.state.HideAll()
	s.mu.Unlock()

	s.seq.Cancel()
	return nil
}

// Reset retires the round: pending reveal events are cancelled and
// subscribers are disconnected. Reset is idempotent.
func (s *Session) Reset() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if s.reset {
		s.mu.Unlock()
		return
	}
	s.reset = true
	s.revealGen++
	s.revealing = false
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
	s.mu.Unlock()

	s.seq.Cancel()
}

func (s *Session) onReveal(gen uint64) func(reveal.Event) {
	return func(ev reveal.Event) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.reset || gen != s.revealGen {
			return
		}
		s.state.Reveal(ev.Rank)
		if ev.Last() {
			s.revealing = false
		}
		if s.observe != nil {
			s.observe(ev)
		}
		for ch := range s.subs {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Subscribe returns a channel of reveal events and a function to stop
// listening. The channel is closed when the round is reset.
func (s *Session) Subscribe() (<-chan reveal.Event, func()) {
	ch := make(chan reveal.Event, 128)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reset {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

// MarkRecorded reports true exactly once, for a finished round.
func (s *Session) MarkRecorded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorded || !s.state.Finished() {
		return false
	}
	s.recorded = true
	return true
}

// IsReset reports whether the round was replaced.
func (s *Session) IsReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset
}

// LastActive is the time of the last guess or reveal request.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
