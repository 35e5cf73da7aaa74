package httpserver

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robalobadob/the100/internal/reveal"
)

func dialReveal(t *testing.T, e *testEnv, c *http.Client, id string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/round/" + id + "/reveal/ws"
	d := websocket.Dialer{Jar: c.Jar, HandshakeTimeout: 2 * time.Second}
	conn, res, err := d.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v (response %v)", u, err, res)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestRevealWebSocketStreamsEveryRank(t *testing.T) {
	clock := reveal.NewManualClock(testDay)
	e := newTestEnvWithClock(t, clock)
	c := e.player(t)
	id := e.newRound(t, c, "countries-population")
	conn := dialReveal(t, e, c, id)

	if msg := readMsg(t, conn); msg.Type != "snapshot" || msg.Snapshot == nil || msg.Snapshot.RoundID != id {
		t.Fatalf("first frame = %+v", msg)
	}
	if err := conn.WriteJSON(wsCommand{Type: "reveal"}); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for clock.Pending() < 100 {
		if time.Now().After(deadline) {
			t.Fatalf("reveal scheduled %d events, want 100", clock.Pending())
		}
		time.Sleep(time.Millisecond)
	}
	clock.Advance(time.Second)

	want := 100
	for i := 0; i < 100; i++ {
		msg := readMsg(t, conn)
		if msg.Type != "reveal" || msg.Event == nil {
			t.Fatalf("frame %d = %+v", i, msg)
		}
		if msg.Event.Rank != want || msg.Event.Step != i+1 || msg.Event.Total != 100 {
			t.Fatalf("frame %d event = %+v, want rank %d", i, msg.Event, want)
		}
		if msg.Entry == nil || msg.Entry.Label == "" {
			t.Fatalf("frame %d has no entry", i)
		}
		want--
	}
}

func TestRevealWebSocketWatcherCannotControl(t *testing.T) {
	e := newTestEnv(t)
	owner, watcher := e.player(t), e.player(t)
	id := e.newRound(t, owner, "countries-population")
	conn := dialReveal(t, e, watcher, id)
	readMsg(t, conn) // snapshot

	if err := conn.WriteJSON(wsCommand{Type: "reveal"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != "error" || msg.Error != "not_your_round" {
		t.Fatalf("watcher command reply = %+v", msg)
	}
}

func TestRevealWebSocketClosedOnReset(t *testing.T) {
	e := newTestEnv(t)
	c := e.player(t)
	id := e.newRound(t, c, "countries-population")
	conn := dialReveal(t, e, c, id)
	readMsg(t, conn) // snapshot

	e.newRound(t, c, "girl-names-us") // replaces and resets the watched round
	if msg := readMsg(t, conn); msg.Type != "reset" {
		t.Fatalf("frame after replace = %+v", msg)
	}
}

func TestRevealWebSocketUnknownRound(t *testing.T) {
	e := newTestEnv(t)
	u, _ := url.Parse("ws" + strings.TrimPrefix(e.ts.URL, "http") + "/round/missing/reveal/ws")
	_, res, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if res == nil || res.StatusCode != http.StatusNotFound {
		t.Fatalf("response = %v", res)
	}
}
