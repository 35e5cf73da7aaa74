package round

import (
	"fmt"
	"testing"
)

func threeCountries() []RankedEntry {
	return NewEntries([]Record{
		{Label: "Brazil", Detail: "203,080,756"},
		{Label: "USA", Detail: "334,914,895"},
		{Label: "China", Detail: "1,409,670,000"},
	})
}

func newState(maxAttempts int) *State {
	cfg := DefaultConfig()
	cfg.MaxAttempts = maxAttempts
	return New(threeCountries(), cfg)
}

func TestNewEntriesRanksFromPosition(t *testing.T) {
	entries := threeCountries()
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("entries[%d].Rank = %d, want %d", i, e.Rank, i+1)
		}
	}
}

func TestSubmitGuessHit(t *testing.T) {
	s := newState(6)
	out := s.SubmitGuess("china")
	if out.Kind != Hit || out.Rank != 3 || out.Points != 3 {
		t.Fatalf("SubmitGuess(china) = %+v, want Hit rank 3", out)
	}
	if s.Score != 3 {
		t.Fatalf("Score = %d, want 3", s.Score)
	}
	if len(s.History) != 1 || s.History[0].MatchedRank != 3 || s.History[0].RawText != "china" {
		t.Fatalf("History = %+v", s.History)
	}
}

func TestSubmitGuessEmpty(t *testing.T) {
	s := newState(6)
	for _, in := range []string{"", "  ", "!!!", "___"} {
		if out := s.SubmitGuess(in); out.Kind != EmptyGuess {
			t.Fatalf("SubmitGuess(%q) = %v, want EmptyGuess", in, out.Kind)
		}
	}
	if s.Score != 0 || len(s.History) != 0 {
		t.Fatalf("state changed: score=%d history=%d", s.Score, len(s.History))
	}
}

func TestSubmitGuessDuplicate(t *testing.T) {
	s := newState(6)
	if out := s.SubmitGuess("Brazil"); out.Kind != Hit {
		t.Fatalf("first guess = %v, want Hit", out.Kind)
	}
	if out := s.SubmitGuess("BRAZIL!!"); out.Kind != DuplicateGuess {
		t.Fatalf("second guess = %v, want DuplicateGuess", out.Kind)
	}

	s = newState(6)
	s.SubmitGuess("Paris")
	if out := s.SubmitGuess("  PARIS!! "); out.Kind != DuplicateGuess {
		t.Fatalf("normalized duplicate miss = %v, want DuplicateGuess", out.Kind)
	}
	if s.AttemptsUsed() != 1 {
		t.Fatalf("AttemptsUsed = %d, want 1", s.AttemptsUsed())
	}
}

func TestSubmitGuessMiss(t *testing.T) {
	s := newState(6)
	out := s.SubmitGuess("France")
	if out.Kind != Miss || out.Points != 0 {
		t.Fatalf("SubmitGuess(France) = %+v, want Miss", out)
	}
	if s.Score != 0 || len(s.History) != 1 || s.History[0].Matched() {
		t.Fatalf("unexpected state: score=%d history=%+v", s.Score, s.History)
	}
}

func TestSubmitGuessRoundClosed(t *testing.T) {
	s := newState(2)
	s.SubmitGuess("France")
	s.SubmitGuess("USA")
	if !s.Finished() {
		t.Fatal("expected round to be finished")
	}
	for _, in := range []string{"china", "", "France", "Germany"} {
		if out := s.SubmitGuess(in); out.Kind != RoundClosed {
			t.Fatalf("SubmitGuess(%q) after limit = %v, want RoundClosed", in, out.Kind)
		}
	}
	if s.AttemptsLeft() != 0 || s.Status() != "finished" {
		t.Fatalf("AttemptsLeft=%d Status=%s", s.AttemptsLeft(), s.Status())
	}
}

func TestRejectedOutcomesLeaveStateUntouched(t *testing.T) {
	s := newState(2)
	s.SubmitGuess("usa")

	entries, score, history := s.Entries, s.Score, len(s.History)
	checks := []struct {
		in   string
		want OutcomeKind
	}{
		{"   ", EmptyGuess},
		{"U.S.A.", DuplicateGuess},
	}
	for _, c := range checks {
		if out := s.SubmitGuess(c.in); out.Kind != c.want {
			t.Fatalf("SubmitGuess(%q) = %v, want %v", c.in, out.Kind, c.want)
		}
	}
	s.SubmitGuess("Peru")
	entries2, score2, history2 := s.Entries, s.Score, len(s.History)
	if out := s.SubmitGuess("china"); out.Kind != RoundClosed {
		t.Fatalf("want RoundClosed, got %v", out.Kind)
	}

	if &entries[0] != &s.Entries[0] || &entries2[0] != &s.Entries[0] {
		t.Fatal("entries slice was replaced")
	}
	if score != 2 || history != 1 {
		t.Fatalf("before: score=%d history=%d", score, history)
	}
	if s.Score != score2 || len(s.History) != history2 {
		t.Fatalf("RoundClosed mutated state: score %d→%d history %d→%d", score2, s.Score, history2, len(s.History))
	}
}

func TestScoreEqualsSumOfHistory(t *testing.T) {
	records := make([]Record, 100)
	for i := range records {
		records[i] = Record{Label: fmt.Sprintf("Item %d", i+1)}
	}
	s := New(NewEntries(records), Config{MaxAttempts: 6})

	for _, in := range []string{"item 100", "nope", "ITEM 7", "item 42", "item 1", "item 100!"} {
		s.SubmitGuess(in)
	}
	sum := 0
	for _, g := range s.History {
		if g.PointsAwarded > len(s.Entries) {
			t.Fatalf("PointsAwarded %d exceeds list length", g.PointsAwarded)
		}
		sum += g.PointsAwarded
	}
	if s.Score != sum {
		t.Fatalf("Score = %d, sum of history = %d", s.Score, sum)
	}
	// item 100 + item 7 + item 42 + item 1; the last guess is a duplicate.
	if s.Score != 150 || s.AttemptsUsed() != 5 {
		t.Fatalf("Score = %d AttemptsUsed = %d, want 150 and 5", s.Score, s.AttemptsUsed())
	}
}

func TestFirstMatchWins(t *testing.T) {
	s := New(NewEntries([]Record{{Label: "Georgia"}, {Label: "georgia!"}}), DefaultConfig())
	if out := s.SubmitGuess("GEORGIA"); out.Rank != 1 {
		t.Fatalf("Rank = %d, want first match 1", out.Rank)
	}
}

func TestStripPolicyMatchesAcrossSpacing(t *testing.T) {
	entries := NewEntries([]Record{{Label: "Côte d'Ivoire"}})
	s := New(entries, Config{MaxAttempts: 6, Normalizer: Normalizer{Whitespace: StripWhitespace}})
	if out := s.SubmitGuess("cote d ivoire"); out.Kind != Hit {
		t.Fatalf("strip policy: got %v, want Hit", out.Kind)
	}
	c := New(entries, DefaultConfig())
	if out := c.SubmitGuess("cote d ivoire"); out.Kind != Miss {
		t.Fatalf("collapse policy: got %v, want Miss", out.Kind)
	}
}

func TestRevealAndVisibility(t *testing.T) {
	s := newState(6)
	s.SubmitGuess("usa")
	if !s.Visible(2) || s.Visible(1) {
		t.Fatal("only the guessed rank should be visible")
	}
	if !s.Reveal(1) || s.Reveal(0) || s.Reveal(4) {
		t.Fatal("Reveal range check failed")
	}
	if !s.Visible(1) {
		t.Fatal("revealed rank should be visible")
	}
	s.HideAll()
	if s.Visible(1) || !s.Visible(2) {
		t.Fatal("HideAll should clear reveals but keep guesses visible")
	}
}
