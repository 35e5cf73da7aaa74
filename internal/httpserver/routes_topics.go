package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/the100/internal/daily"
	"github.com/robalobadob/the100/internal/topics"
)

// mountTopics registers the catalog endpoints.
func (s *Server) mountTopics(r chi.Router) {
	r.Get("/topics", s.handleTopics)
	r.Get("/topics/today", s.handleTopicToday)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"topics": s.loader.Catalog().Topics})
}

// todayRes names the daily topic for a date.
type todayRes struct {
	Date  string       `json:"date"`
	Topic topics.Topic `json:"topic"`
}

func (s *Server) handleTopicToday(w http.ResponseWriter, r *http.Request) {
	date, t, ok := s.topicOfTheDay()
	if !ok {
		writeError(w, http.StatusNotFound, "no_daily_topics")
		return
	}
	writeJSON(w, http.StatusOK, todayRes{Date: date, Topic: t})
}

// topicOfTheDay picks today's topic among the daily-eligible ones.
func (s *Server) topicOfTheDay() (string, topics.Topic, bool) {
	now := s.now()
	t, ok := daily.Pick(s.loader.Catalog().Daily(), now, s.cfg.DailySalt)
	return daily.DateKey(now), t, ok
}
