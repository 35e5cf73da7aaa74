// internal/reveal/sequencer.go
//
// Staggered disclosure of a round's list.
// Responsibilities:
//   - Schedule one event per rank at a fixed delay increment.
//   - Keep a cancellable handle per rank; Start cancels any batch in flight.
//   - Drop callbacks of a superseded batch even if their timer already fired.
//
// The sequencer knows nothing about rounds; callers decide what a reveal event does.
package reveal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Order decides which end of the list is disclosed first.
type Order int

const (
	// Descending starts with the highest rank (the best items).
	Descending Order = iota
	// Ascending starts with rank 1.
	Ascending
)

func (o Order) String() string {
	if o == Ascending {
		return "ascending"
	}
	return "descending"
}

// ParseOrder accepts "descending" or "ascending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "descending", "desc":
		return Descending, nil
	case "ascending", "asc":
		return Ascending, nil
	}
	return Descending, fmt.Errorf("unknown reveal order %q", s)
}

// Event is delivered when a rank's turn comes.
type Event struct {
	Rank  int `json:"rank"`
	Step  int `json:"step"` // 1-based position within the batch
	Total int `json:"total"`
}

// Last reports whether this is the final event of its batch.
func (e Event) Last() bool { return e.Step == e.Total }

// Scheduled describes one planned event relative to Start.
type Scheduled struct {
	Rank  int
	After time.Duration
}

// Sequencer runs at most one reveal batch at a time.
type Sequencer struct {
	clock Clock
	delay time.Duration
	order Order

	mu      sync.Mutex
	gen     uint64
	pending map[int]Timer // keyed by rank
}

// NewSequencer panics on a non-positive delay; fire times must strictly increase.
func NewSequencer(clock Clock, delay time.Duration, order Order) *Sequencer {
	if delay <= 0 {
		panic("reveal: delay must be positive")
	}
	if clock == nil {
		clock = RealClock()
	}
	return &Sequencer{clock: clock, delay: delay, order: order, pending: make(map[int]Timer)}
}

// Start cancels any batch in flight and schedules entryCount events.
// fire runs once per rank, on the clock's goroutine; it must not block.
func (s *Sequencer) Start(entryCount int, fire func(Event)) []Scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	gen := s.gen

	plan := make([]Scheduled, 0, entryCount)
	for step := 1; step <= entryCount; step++ {
		rank := step
		if s.order == Descending {
			rank = entryCount - step + 1
		}
		after := time.Duration(step) * s.delay
		ev := Event{Rank: rank, Step: step, Total: entryCount}
		s.pending[rank] = s.clock.AfterFunc(after, func() {
			s.mu.Lock()
			if s.gen != gen {
				s.mu.Unlock()
				return
			}
			delete(s.pending, ev.Rank)
			s.mu.Unlock()
			fire(ev)
		})
		plan = append(plan, Scheduled{Rank: rank, After: after})
	}
	return plan
}

// Cancel stops every pending event of the current batch and returns how many were stopped.
func (s *Sequencer) Cancel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked()
}

func (s *Sequencer) cancelLocked() int {
	s.gen++
	n := 0
	for rank, t := range s.pending {
		if t.Stop() {
			n++
		}
		delete(s.pending, rank)
	}
	return n
}

// Pending is the number of events still scheduled.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Running reports whether a batch still has events to deliver.
func (s *Sequencer) Running() bool { return s.Pending() > 0 }

// Delay is the step increment.
func (s *Sequencer) Delay() time.Duration { return s.delay }
