package game

import "github.com/robalobadob/the100/internal/round"

// EntryView is an entry the player is allowed to see.
type EntryView struct {
	Rank    int    `json:"rank"`
	Label   string `json:"label"`
	Detail  string `json:"detail"`
	Guessed bool   `json:"guessed"`
}

// Snapshot is a read-only copy of a round for hosts to render.
// Hidden entries are omitted; EntryCount tells the host how many slots to draw.
type Snapshot struct {
	RoundID      string        `json:"roundId"`
	Meta         Meta          `json:"meta"`
	Status       string        `json:"state"`
	Score        int           `json:"score"`
	AttemptsUsed int           `json:"attemptsUsed"`
	AttemptsLeft int           `json:"attemptsLeft"`
	MaxAttempts  int           `json:"maxAttempts"`
	EntryCount   int           `json:"entryCount"`
	Hits         int           `json:"hits"`
	Revealing    bool          `json:"revealing"`
	History      []round.Guess `json:"history"`
	Entries      []EntryView   `json:"entries"`
}

// Snapshot copies the current round.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	st := s.state
	snap := Snapshot{
		RoundID:      s.ID,
		Meta:         s.Meta,
		Status:       st.Status(),
		Score:        st.Score,
		AttemptsUsed: st.AttemptsUsed(),
		AttemptsLeft: st.AttemptsLeft(),
		MaxAttempts:  st.MaxAttempts,
		EntryCount:   len(st.Entries),
		Hits:         st.Hits(),
		Revealing:    s.revealing,
		History:      append([]round.Guess(nil), st.History...),
		Entries:      []EntryView{},
	}
	for _, e := range st.Entries {
		if !st.Visible(e.Rank) {
			continue
		}
		snap.Entries = append(snap.Entries, EntryView{
			Rank: e.Rank, Label: e.Label, Detail: e.Detail, Guessed: st.Guessed(e.Rank),
		})
	}
	return snap
}

// Entry returns the entry at rank if the player may currently see it.
func (s *Session) Entry(rank int) (EntryView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if rank < 1 || rank > len(st.Entries) || !st.Visible(rank) {
		return EntryView{}, false
	}
	e := st.Entries[rank-1]
	return EntryView{Rank: e.Rank, Label: e.Label, Detail: e.Detail, Guessed: st.Guessed(rank)}, true
}
