// internal/round/types.go
//
// Core type definitions for a single round of The 100 Game.
// Defines:
//   - RankedEntry: one item of the day's Top 100 list.
//   - Guess:       one accepted player submission.
//   - Outcome:     the tagged result of SubmitGuess.
//   - State:       the mutable round (entries, history, score, revealed ranks).

package round

// NoMatch is the MatchedRank of a guess that matched no entry.
const NoMatch = 0

// Record is an unranked list item as delivered by a data source.
// Its position in the source list is its rank.
type Record struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// RankedEntry is an item in the round's list.
// Rank 1 is worth the fewest points, the last rank the most.
type RankedEntry struct {
	Rank   int    `json:"rank"`
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// NewEntries assigns dense 1-based ranks to records in list order.
func NewEntries(records []Record) []RankedEntry {
	out := make([]RankedEntry, len(records))
	for i, r := range records {
		out[i] = RankedEntry{Rank: i + 1, Label: r.Label, Detail: r.Detail}
	}
	return out
}

// Guess is one accepted submission. Guesses are only created by
// SubmitGuess and are never mutated afterwards.
type Guess struct {
	RawText       string `json:"rawText"`
	MatchedRank   int    `json:"matchedRank"`
	PointsAwarded int    `json:"pointsAwarded"`
}

// Matched reports whether the guess hit an entry.
func (g Guess) Matched() bool { return g.MatchedRank != NoMatch }

// OutcomeKind tags the result of one SubmitGuess call.
type OutcomeKind string

const (
	Hit            OutcomeKind = "hit"
	Miss           OutcomeKind = "miss"
	EmptyGuess     OutcomeKind = "empty_guess"
	DuplicateGuess OutcomeKind = "duplicate_guess"
	RoundClosed    OutcomeKind = "round_closed"
)

// Outcome is returned by SubmitGuess. Rank is set for Hit only.
type Outcome struct {
	Kind   OutcomeKind `json:"outcome"`
	Rank   int         `json:"rank,omitempty"`
	Points int         `json:"points"`
}

// Consumed reports whether the outcome used up an attempt.
func (o Outcome) Consumed() bool { return o.Kind == Hit || o.Kind == Miss }

// Config carries the per-deployment rules of a round.
type Config struct {
	MaxAttempts int
	Normalizer  Normalizer
}

// DefaultConfig matches the live game: six attempts, whitespace collapsed.
func DefaultConfig() Config {
	return Config{MaxAttempts: 6, Normalizer: Normalizer{Whitespace: CollapseWhitespace}}
}
