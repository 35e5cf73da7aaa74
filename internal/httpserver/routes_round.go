// internal/httpserver/routes_round.go
//
// Round endpoints.
//   - POST   /round/new           → start a round on a topic (default: topic of the day)
//   - POST   /round/guess         → submit a guess
//   - GET    /round/{id}          → snapshot (hidden entries omitted)
//   - POST   /round/{id}/reveal   → start/restart the staggered reveal
//   - DELETE /round/{id}/reveal   → hide answers again
//   - GET    /round/{id}/share    → share text
//
// Starting a round replaces the caller's previous one; the old round's
// pending reveal events are cancelled before the new round is returned.
// Guess outcomes are never HTTP errors: empty, duplicate and closed guesses
// are 200 responses with the matching outcome.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/the100/internal/daily"
	"github.com/robalobadob/the100/internal/game"
	"github.com/robalobadob/the100/internal/round"
	"github.com/robalobadob/the100/internal/store"
	"github.com/robalobadob/the100/internal/topics"
)

// mountRounds registers /round routes. They share a path prefix with the
// streaming routes on the root router, so they are not mounted as a subrouter.
func (s *Server) mountRounds(r chi.Router) {
	r.Post("/round/new", s.handleNewRound)
	r.Post("/round/guess", s.handleGuess)
	r.Get("/round/{id}", s.handleSnapshot)
	r.Post("/round/{id}/reveal", s.handleStartReveal)
	r.Delete("/round/{id}/reveal", s.handleHideReveal)
	r.Get("/round/{id}/share", s.handleShare)
}

// newRoundReq/Res payloads for POST /round/new.
type newRoundReq struct {
	Topic string `json:"topic"`
}
type newRoundRes struct {
	RoundID     string `json:"roundId"`
	Topic       string `json:"topic"`
	Name        string `json:"name"`
	Noun        string `json:"noun"`
	DetailLabel string `json:"detailLabel,omitempty"`
	Date        string `json:"date,omitempty"`
	EntryCount  int    `json:"entryCount"`
	MaxAttempts int    `json:"maxAttempts"`
}

func newRoundResponse(sess *game.Session) newRoundRes {
	snap := sess.Snapshot()
	return newRoundRes{
		RoundID:     sess.ID,
		Topic:       sess.Meta.Slug,
		Name:        sess.Meta.Name,
		Noun:        sess.Meta.Noun,
		DetailLabel: sess.Meta.DetailLabel,
		Date:        sess.Meta.Date,
		EntryCount:  snap.EntryCount,
		MaxAttempts: snap.MaxAttempts,
	}
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	slug := strings.TrimSpace(req.Topic)
	if slug == "" {
		_, t, ok := s.topicOfTheDay()
		if !ok {
			writeError(w, http.StatusBadRequest, "topic_required")
			return
		}
		slug = t.Slug
	}

	sess, ok := s.startRound(w, r, slug, "")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newRoundResponse(sess))
}

// startRound loads the topic, builds a session and makes it the caller's
// current round. On failure the error response has been written.
func (s *Server) startRound(w http.ResponseWriter, r *http.Request, slug, date string) (*game.Session, bool) {
	t, entries, err := s.loader.Load(r.Context(), slug)
	switch {
	case errors.Is(err, topics.ErrUnknownTopic):
		writeError(w, http.StatusNotFound, "unknown_topic")
		return nil, false
	case err != nil:
		log.Error().Err(err).Str("topic", slug).Msg("failed to load topic")
		writeError(w, http.StatusBadGateway, "failed_to_load")
		return nil, false
	}

	meta := t.Meta()
	meta.Date = date
	sess := game.New(s.ownerID(w, r), meta, entries, s.sessionOptions())
	if err := s.store.Replace(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return nil, false
	}
	s.metrics.RoundsStarted.WithLabelValues(slug).Inc()
	s.trackActive()
	log.Debug().Str("roundId", sess.ID).Str("topic", slug).Int("entries", len(entries)).Msg("round started")
	return sess, true
}

// guessReq/Res payloads for POST /round/guess.
type guessReq struct {
	RoundID string `json:"roundId"`
	Guess   string `json:"guess"`
}
type guessRes struct {
	round.Outcome
	Score        int    `json:"score"`
	AttemptsUsed int    `json:"attemptsUsed"`
	AttemptsLeft int    `json:"attemptsLeft"`
	State        string `json:"state"` // "playing" | "finished"
	Message      string `json:"message"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.ownedRound(w, r, req.RoundID)
	if !ok {
		return
	}
	out, snap, err := sess.Guess(req.Guess)
	if err != nil {
		writeRoundError(w, err)
		return
	}
	s.metrics.Guesses.WithLabelValues(string(out.Kind)).Inc()

	if snap.Status == round.StatusFinished {
		s.recordFinished(r.Context(), currentUser(r), sess, snap)
	}

	writeJSON(w, http.StatusOK, guessRes{
		Outcome:      out,
		Score:        snap.Score,
		AttemptsUsed: snap.AttemptsUsed,
		AttemptsLeft: snap.AttemptsLeft,
		State:        snap.Status,
		Message:      game.Message(out, req.Guess, sess.Meta.Noun),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRoundError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// revealRes describes a started reveal.
type revealRes struct {
	RoundID string `json:"roundId"`
	Events  int    `json:"events"`
	DelayMs int64  `json:"delayMs"`
	Order   string `json:"order"`
}

func (s *Server) handleStartReveal(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedRound(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	plan, err := sess.StartReveal()
	if err != nil {
		writeRoundError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revealRes{
		RoundID: sess.ID,
		Events:  len(plan),
		DelayMs: s.cfg.RevealDelay.Milliseconds(),
		Order:   s.cfg.Order().String(),
	})
}

func (s *Server) handleHideReveal(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedRound(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := sess.HideReveal(); err != nil {
		writeRoundError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// shareRes is the brag text for a round.
type shareRes struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Score int    `json:"score"`
}

func (s *Server) shareFor(r *http.Request) (shareRes, error) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return shareRes{}, err
	}
	snap := sess.Snapshot()
	url := s.cfg.PublicURL
	return shareRes{
		Text:  game.ShareText(snap.Score, sess.Meta.Name, url),
		URL:   url,
		Score: snap.Score,
	}, nil
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	share, err := s.shareFor(r)
	if err != nil {
		writeRoundError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, share)
}

// ownedRound loads a round the caller is allowed to play.
func (s *Server) ownedRound(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusBadRequest, "round_id_required")
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeRoundError(w, err)
		return nil, false
	}
	if sess.Owner != s.ownerID(w, r) {
		writeError(w, http.StatusForbidden, "not_your_round")
		return nil, false
	}
	return sess, true
}

// writeRoundError maps store/session errors to responses.
func writeRoundError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrReset):
		writeError(w, http.StatusGone, "round_reset")
	default:
		log.Error().Err(err).Msg("round request failed")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// recordFinished persists a finished round once: history row, user stats
// for signed-in players and the daily result for daily rounds. Failures are
// logged; the player's response does not depend on them.
func (s *Server) recordFinished(ctx context.Context, me *authUser, sess *game.Session, snap game.Snapshot) {
	if !sess.MarkRecorded() {
		return
	}
	s.metrics.RoundsEnded.WithLabelValues(sess.Meta.Slug).Inc()
	s.metrics.RoundScore.Observe(float64(snap.Score))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin record round")
		return
	}
	defer func() { _ = tx.Rollback() }()

	var date any
	if sess.Meta.Date != "" {
		date = sess.Meta.Date
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `INSERT INTO rounds
		(id, owner, topic, daily_date, score, attempts, hits, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		sess.ID, sess.Owner, sess.Meta.Slug, date, snap.Score, snap.AttemptsUsed, snap.Hits,
		sess.StartedAt.UTC().Format(time.RFC3339), now); err != nil {
		log.Warn().Err(err).Str("roundId", sess.ID).Msg("insert round row")
		return
	}
	if me != nil && me.ID == sess.Owner {
		if err := bumpStats(ctx, tx, me.ID, snap.Score); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit record round")
		return
	}

	if sess.Meta.Date != "" {
		err := s.daily.InsertResult(ctx, daily.Result{
			Owner: sess.Owner, Date: sess.Meta.Date, Topic: sess.Meta.Slug,
			Score: snap.Score, Attempts: snap.AttemptsUsed, Hits: snap.Hits,
		})
		if errors.Is(err, daily.ErrAlreadyPlayed) {
			log.Debug().Str("owner", sess.Owner).Str("date", sess.Meta.Date).Msg("daily result already recorded")
		} else if err != nil {
			log.Warn().Err(err).Msg("insert daily result")
		}
	}
}
