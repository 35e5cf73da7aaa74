// internal/httpserver/server.go
//
// HTTP server wiring for The 100 Game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics", "/topics".
//   - Round endpoints (optional auth): /round/new, /round/guess, /round/{id}/...
//   - Daily endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /rounds/mine.
//   - Recording finished rounds (history, user stats, daily results).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The reveal WebSocket is mounted outside the request timeout; it lives
//     as long as the round's reveal does.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/the100/internal/config"
	"github.com/robalobadob/the100/internal/daily"
	"github.com/robalobadob/the100/internal/game"
	"github.com/robalobadob/the100/internal/metrics"
	"github.com/robalobadob/the100/internal/reveal"
	"github.com/robalobadob/the100/internal/store"
	"github.com/robalobadob/the100/internal/topics"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config  *config.Config
	Store   store.Store
	DB      *sql.DB
	Loader  *topics.Loader
	Metrics *metrics.Metrics

	// Clock drives reveal timers; nil means wall-clock time.
	Clock reveal.Clock
	// Now returns the current time for daily selection; nil means time.Now.
	Now func() time.Time
}

// Server bundles router, in-memory round store, and DB handle.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	store   store.Store
	db      *sql.DB
	loader  *topics.Loader
	daily   *daily.Store
	metrics *metrics.Metrics
	clock   reveal.Clock
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     d.Config,
		store:   d.Store,
		db:      d.DB,
		loader:  d.Loader,
		daily:   daily.NewStore(d.DB),
		metrics: d.Metrics,
		clock:   d.Clock,
		now:     d.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)       // zerolog access log
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// Streaming routes: no handler timeout, no JSON default.
	s.r.With(s.withOptionalAuth()).Get("/round/{id}/reveal/ws", s.handleRevealWS)
	s.r.Get("/round/{id}/share.png", s.handleShareQR)
	s.r.Handle("/metrics", s.metrics.Handler())

	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout)) // bound handler time
		r.Use(jsonContentType)        // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"the100","endpoints":["/health","/topics","POST /round/new","POST /round/guess","POST /daily/new","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountTopics(r)

		// Round endpoints (optional auth: guests can play)
		s.mountRounds(r.With(s.withOptionalAuth()))

		// Daily topic (optional auth: guests can play; results persisted when finished)
		s.mountDaily(r.With(s.withOptionalAuth()))

		// Auth + profile/stats
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (used by the http.Server and by tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog logs one line per request through the global zerolog logger.
func accessLog(next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(next)
	return hlog.NewHandler(log.Logger)(h)
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"error":code} body used by every endpoint.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// sessionOptions builds per-round settings from config.
func (s *Server) sessionOptions() game.Options {
	return game.Options{
		Round: s.cfg.RoundConfig(),
		Delay: s.cfg.RevealDelay,
		Order: s.cfg.Order(),
		Clock: s.clock,
		OnReveal: func(reveal.Event) {
			s.metrics.RevealEvents.Inc()
		},
	}
}

// trackActive refreshes the active rounds gauge when the store can count.
func (s *Server) trackActive() {
	if c, ok := s.store.(interface{ Len() int }); ok {
		s.metrics.ActiveRounds.Set(float64(c.Len()))
	}
}
