// internal/round/engine.go
//
// Guess evaluation for a single round.
// Responsibilities:
//   - Create a round from a ranked entry list.
//   - Evaluate submissions: attempt limit, empty input, duplicates, match.
//   - Keep score and history in sync (history is the only attempt counter).
//   - Track which ranks the reveal sequence has disclosed.
//
// Nothing here performs I/O or starts timers.
package round

// State owns the mutable session of one round.
// Mutate it only through SubmitGuess and the reveal helpers.
type State struct {
	Entries     []RankedEntry
	History     []Guess
	Score       int
	MaxAttempts int
	Revealed    map[int]bool

	norm Normalizer
	keys []string // normalized labels, index-aligned with Entries
}

// New constructs a round over entries. A non-positive MaxAttempts falls back to the default.
func New(entries []RankedEntry, cfg Config) *State {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	s := &State{
		Entries:     entries,
		History:     []Guess{},
		MaxAttempts: cfg.MaxAttempts,
		Revealed:    make(map[int]bool),
		norm:        cfg.Normalizer,
		keys:        make([]string, len(entries)),
	}
	for i, e := range entries {
		s.keys[i] = cfg.Normalizer.Normalize(e.Label)
	}
	return s
}

// Normalizer returns the normalizer the round was created with.
func (s *State) Normalizer() Normalizer { return s.norm }

// SubmitGuess evaluates raw against the round.
// Rules, first match wins:
//  1. attempts exhausted → RoundClosed
//  2. normalized input empty → EmptyGuess
//  3. normalized input equals a previous guess → DuplicateGuess
//  4. first entry whose normalized label equals the input → Hit{rank}, else Miss
//
// Only Hit and Miss append to History and add to Score.
func (s *State) SubmitGuess(raw string) Outcome {
	if len(s.History) >= s.MaxAttempts {
		return Outcome{Kind: RoundClosed}
	}
	key := s.norm.Normalize(raw)
	if key == "" {
		return Outcome{Kind: EmptyGuess}
	}
	for _, g := range s.History {
		if s.norm.Normalize(g.RawText) == key {
			return Outcome{Kind: DuplicateGuess}
		}
	}

	out := Outcome{Kind: Miss}
	g := Guess{RawText: raw, MatchedRank: NoMatch}
	if i := s.find(key); i >= 0 {
		rank := i + 1
		out = Outcome{Kind: Hit, Rank: rank, Points: rank}
		g.MatchedRank, g.PointsAwarded = rank, rank
	}
	s.History = append(s.History, g)
	s.Score += g.PointsAwarded
	return out
}

// find returns the index of the first entry matching key, or -1.
func (s *State) find(key string) int {
	for i := range s.Entries {
		if s.labelKey(i) == key {
			return i
		}
	}
	return -1
}

func (s *State) labelKey(i int) string {
	if len(s.keys) != len(s.Entries) {
		s.keys = make([]string, len(s.Entries))
		for j, e := range s.Entries {
			s.keys[j] = s.norm.Normalize(e.Label)
		}
	}
	return s.keys[i]
}

// AttemptsUsed is the number of accepted guesses.
func (s *State) AttemptsUsed() int { return len(s.History) }

// AttemptsLeft is never negative.
func (s *State) AttemptsLeft() int {
	if n := s.MaxAttempts - len(s.History); n > 0 {
		return n
	}
	return 0
}

// Finished reports whether every attempt has been used.
func (s *State) Finished() bool { return len(s.History) >= s.MaxAttempts }

// Round status values reported by Status.
const (
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Status reports StatusPlaying or StatusFinished.
func (s *State) Status() string {
	if s.Finished() {
		return StatusFinished
	}
	return StatusPlaying
}

// Hits counts guesses that matched an entry.
func (s *State) Hits() int {
	n := 0
	for _, g := range s.History {
		if g.Matched() {
			n++
		}
	}
	return n
}

// Guessed reports whether rank was matched by a guess.
func (s *State) Guessed(rank int) bool {
	for _, g := range s.History {
		if g.MatchedRank == rank && rank != NoMatch {
			return true
		}
	}
	return false
}

// Reveal marks rank as disclosed. Out-of-range ranks are ignored.
func (s *State) Reveal(rank int) bool {
	if rank < 1 || rank > len(s.Entries) {
		return false
	}
	s.Revealed[rank] = true
	return true
}

// HideAll clears the revealed set.
func (s *State) HideAll() { s.Revealed = make(map[int]bool) }

// Visible reports whether an entry should be shown: revealed or guessed.
func (s *State) Visible(rank int) bool { return s.Revealed[rank] || s.Guessed(rank) }
