package daily

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/robalobadob/the100/internal/database"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := database.OpenAndMigrate(database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), db
}

func TestInsertResultOncePerDay(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	played, err := s.AlreadyPlayed(ctx, "anon1", "2026-05-01")
	if err != nil || played {
		t.Fatalf("AlreadyPlayed() = %v, %v", played, err)
	}
	r := Result{Owner: "anon1", Date: "2026-05-01", Topic: "countries-population", Score: 42, Attempts: 6, Hits: 3}
	if err := s.InsertResult(ctx, r); err != nil {
		t.Fatalf("InsertResult() error = %v", err)
	}
	if played, _ := s.AlreadyPlayed(ctx, "anon1", "2026-05-01"); !played {
		t.Fatal("AlreadyPlayed() = false after insert")
	}

	r.Score = 99
	if err := s.InsertResult(ctx, r); !errors.Is(err, ErrAlreadyPlayed) {
		t.Fatalf("second InsertResult() err = %v, want ErrAlreadyPlayed", err)
	}
	rows, _ := s.Leaderboard(ctx, "2026-05-01", 10)
	if len(rows) != 1 || rows[0].Score != 42 {
		t.Fatalf("first result should stand, got %+v", rows)
	}

	// A new day is a new chance.
	r.Date = "2026-05-02"
	if err := s.InsertResult(ctx, r); err != nil {
		t.Fatal(err)
	}
}

func TestLeaderboardOrder(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	if _, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1','ada','x','now')`); err != nil {
		t.Fatal(err)
	}

	for _, r := range []Result{
		{Owner: "anon1", Score: 10},
		{Owner: "u1", Score: 55},
		{Owner: "anon2", Score: 55},
		{Owner: "anon3", Score: 3},
	} {
		r.Date, r.Topic = "2026-05-01", "girl-names-us"
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	_ = s.InsertResult(ctx, Result{Owner: "anon9", Date: "2026-04-30", Topic: "x", Score: 500})

	rows, err := s.Leaderboard(ctx, "2026-05-01", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		owner, name string
		score       int
	}{{"u1", "ada", 55}, {"anon2", "guest", 55}, {"anon1", "guest", 10}}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i, w := range want {
		if rows[i].Owner != w.owner || rows[i].Name != w.name || rows[i].Score != w.score {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], w)
		}
	}
}
