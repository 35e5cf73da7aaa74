// internal/httpserver/routes_ws.go
//
// Streaming and share endpoints.
//   - GET /round/{id}/reveal/ws → WebSocket of reveal events for a round
//   - GET /round/{id}/share.png → QR code of the share text
//
// WebSocket protocol (JSON):
//   server → client: {"type":"snapshot"}, {"type":"reveal"}, {"type":"hidden"},
//                    {"type":"reset"}, {"type":"error"}
//   client → server: {"type":"reveal"} starts/restarts, {"type":"hide"} hides.
// Only the round's owner may send commands; anyone may watch.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/robalobadob/the100/internal/game"
	"github.com/robalobadob/the100/internal/reveal"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	qrSize       = 320 // mobile-friendly size
)

// wsMessage is every frame sent to the client.
type wsMessage struct {
	Type     string          `json:"type"`
	Event    *reveal.Event   `json:"event,omitempty"`
	Entry    *game.EntryView `json:"entry,omitempty"`
	Snapshot *game.Snapshot  `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// wsCommand is every frame read from the client.
type wsCommand struct {
	Type string `json:"type"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin || origin == "http://"+r.Host
		},
	}
}

func (s *Server) handleRevealWS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRoundError(w, err)
		return
	}
	owner := s.anonID(r)
	if me := currentUser(r); me != nil {
		owner = me.ID
	}
	isOwner := owner != "" && owner == sess.Owner

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, stop := sess.Subscribe()
	defer stop()

	replies := make(chan wsMessage, 4)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(done)
		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			select {
			case replies <- s.wsCommand(sess, isOwner, cmd):
			case <-quit:
				return
			}
		}
	}()

	snap := sess.Snapshot()
	if err := writeWS(conn, wsMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				_ = writeWS(conn, wsMessage{Type: "reset"})
				return
			}
			msg := wsMessage{Type: "reveal", Event: &ev}
			if e, ok := sess.Entry(ev.Rank); ok {
				msg.Entry = &e
			}
			if err := writeWS(conn, msg); err != nil {
				return
			}
		case msg := <-replies:
			if msg.Type == "" {
				continue
			}
			if err := writeWS(conn, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// wsCommand applies a client command and returns the reply frame, if any.
func (s *Server) wsCommand(sess *game.Session, isOwner bool, cmd wsCommand) wsMessage {
	if cmd.Type != "reveal" && cmd.Type != "hide" {
		return wsMessage{Type: "error", Error: "unknown_command"}
	}
	if !isOwner {
		return wsMessage{Type: "error", Error: "not_your_round"}
	}
	if cmd.Type == "reveal" {
		if _, err := sess.StartReveal(); err != nil {
			return wsMessage{Type: "error", Error: "round_reset"}
		}
		return wsMessage{}
	}
	if err := sess.HideReveal(); err != nil {
		return wsMessage{Type: "error", Error: "round_reset"}
	}
	snap := sess.Snapshot()
	return wsMessage{Type: "hidden", Snapshot: &snap}
}

func writeWS(conn *websocket.Conn, msg wsMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

// handleShareQR renders the share text as a PNG QR code.
func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	share, err := s.shareFor(r)
	if err != nil {
		writeRoundError(w, err)
		return
	}
	png, err := qrcode.Encode(share.Text, qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "qr_failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
