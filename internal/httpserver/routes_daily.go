// internal/httpserver/routes_daily.go
//
// HTTP routes for the topic of the day.
//   - POST /daily/new         → start (or resume) today's round on the daily topic
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Each player can record one daily result per date (enforced by the DB).
// The round itself is an ordinary round; guesses go through /round/guess and
// the result is persisted when its last attempt is used.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/the100/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	newRoundRes
	Played bool `json:"played"`
}

// handleDailyNew creates or reuses today's daily round.
//   - If the player already has a result for today → Played=true, no round.
//   - If their current round is today's daily round → return it.
//   - Otherwise start a new round (replacing any other current round).
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	date, t, ok := s.topicOfTheDay()
	if !ok {
		writeError(w, http.StatusNotFound, "no_daily_topics")
		return
	}

	played, err := s.daily.AlreadyPlayed(r.Context(), owner, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{
			newRoundRes: newRoundRes{Topic: t.Slug, Name: t.Name, Noun: t.Noun, DetailLabel: t.DetailLabel, Date: date},
			Played:      true,
		})
		return
	}

	if cur, err := s.store.Current(r.Context(), owner); err == nil && cur.Meta.Date == date && !cur.IsReset() {
		writeJSON(w, http.StatusOK, dailyNewRes{newRoundRes: newRoundResponse(cur)})
		return
	}

	sess, ok := s.startRound(w, r, t.Slug, date)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dailyNewRes{newRoundRes: newRoundResponse(sess)})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
