package daily

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrAlreadyPlayed is returned when a player records a second result for a date.
var ErrAlreadyPlayed = errors.New("daily already played")

// Result is one finished daily round.
type Result struct {
	Owner    string `json:"owner"`
	Date     string `json:"date"`
	Topic    string `json:"topic"`
	Score    int    `json:"score"`
	Attempts int    `json:"attempts"`
	Hits     int    `json:"hits"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, owner, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE owner=? AND date=?",
		owner, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. UNIQUE(owner, date) keeps the first result only.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner, date, topic, score, attempts, hits)
		VALUES(?,?,?,?,?,?)`, r.Owner, r.Date, r.Topic, r.Score, r.Attempts, r.Hits,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyPlayed
	}
	return nil
}

type LBRow struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Hits  int    `json:"hits"`
}

// Leaderboard ranks a date's results by score, earliest finisher first on ties.
// Signed-in players are shown by username, guests as "guest".
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.owner, COALESCE(u.username, 'guest'), d.score, d.hits
		FROM daily_results d LEFT JOIN users u ON u.id = d.owner
		WHERE d.date=?
		ORDER BY d.score DESC, d.created_at ASC, d.id ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Owner, &r.Name, &r.Score, &r.Hits); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
