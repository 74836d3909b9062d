// Package store persists completed outcomes to SQLite and answers high-score queries
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/session"
	"github.com/lixenwraith/weegames/status"
	"github.com/lixenwraith/weegames/store/migrations"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store closed")

// DefaultHighScores is how many runs HighScores returns by default
const DefaultHighScores = 3

// Outcome is one persisted row
type Outcome struct {
	RunID    uuid.UUID
	PlayList string
	Index    int
	GameID   game.ID
	Outcome  game.Outcome
	Duration time.Duration
	Score    int // Run score after this outcome
	Lives    int
	Rate     float64
	At       time.Time
}

// HighScore is the best progress reached by one run
type HighScore struct {
	RunID uuid.UUID
	Score int
	At    time.Time
}

// Store is the SQLite-backed outcome log
type Store struct {
	db      *sql.DB
	closed  atomic.Bool
	written *atomic.Int64
	failed  *atomic.Int64
}

// Open opens path and applies migrations; ":memory:" gives a private database
func Open(ctx context.Context, path string, reg *status.Registry) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	reg = status.Or(reg)
	return &Store{
		db:      db,
		written: reg.Ints.Get(status.RecordsWritten),
		failed:  reg.Ints.Get(status.RecordsFailed),
	}, nil
}

// Close releases the database
func (s *Store) Close() error {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// Record implements session.Recorder with a synchronous insert
func (s *Store) Record(ctx context.Context, rec session.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	if rec.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	if !rec.Outcome.Result.Valid() {
		return fmt.Errorf("invalid result %d", rec.Outcome.Result)
	}
	if rec.At.IsZero() {
		rec.At = time.Now()
	}

	var score sql.NullInt64
	if rec.Outcome.HasScore {
		score = sql.NullInt64{Int64: int64(rec.Outcome.Score), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO outcomes (
	run_id,
	playlist,
	game_index,
	game_id,
	result,
	score,
	duration_ms,
	progress_score,
	lives,
	playback_rate,
	recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		rec.RunID.String(),
		rec.PlayList,
		rec.Index,
		string(rec.GameID),
		rec.Outcome.Result.String(),
		score,
		rec.Duration.Milliseconds(),
		rec.Progress.Score,
		rec.Progress.Lives,
		rec.Progress.PlaybackRate,
		rec.At.UTC().UnixMilli(),
	)
	if err != nil {
		s.failed.Add(1)
		return fmt.Errorf("record outcome: %w", err)
	}
	s.written.Add(1)
	return nil
}

// Outcomes lists a run's rows in play order
func (s *Store) Outcomes(ctx context.Context, runID uuid.UUID) ([]Outcome, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, playlist, game_index, game_id, result, score, duration_ms,
	progress_score, lives, playback_rate, recorded_at
FROM outcomes
WHERE run_id = ?
ORDER BY game_index, id
`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

// HighScores returns the n best runs of a play-list, newest first on ties
func (s *Store) HighScores(ctx context.Context, playList string, n int) ([]HighScore, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if n <= 0 {
		n = DefaultHighScores
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, MAX(progress_score) AS best, MAX(recorded_at) AS last
FROM outcomes
WHERE playlist = ?
GROUP BY run_id
ORDER BY best DESC, last DESC
LIMIT ?
`, playList, n)
	if err != nil {
		return nil, fmt.Errorf("high scores: %w", err)
	}
	defer rows.Close()

	var out []HighScore
	for rows.Next() {
		var (
			id   string
			hs   HighScore
			last int64
		)
		if err := rows.Scan(&id, &hs.Score, &last); err != nil {
			return nil, fmt.Errorf("scan high score: %w", err)
		}
		if hs.RunID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse run id: %w", err)
		}
		hs.At = time.UnixMilli(last).UTC()
		out = append(out, hs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate high scores: %w", err)
	}
	return out, nil
}

func scanOutcome(rows *sql.Rows) (Outcome, error) {
	var (
		o        Outcome
		runID    string
		gameID   string
		result   string
		score    sql.NullInt64
		duration int64
		at       int64
	)
	if err := rows.Scan(&runID, &o.PlayList, &o.Index, &gameID, &result, &score,
		&duration, &o.Score, &o.Lives, &o.Rate, &at); err != nil {
		return Outcome{}, fmt.Errorf("scan outcome: %w", err)
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		return Outcome{}, fmt.Errorf("parse run id: %w", err)
	}
	r, err := game.ParseResult(result)
	if err != nil {
		return Outcome{}, fmt.Errorf("parse result: %w", err)
	}

	o.RunID = id
	o.GameID = game.ID(gameID)
	o.Outcome = game.Outcome{Result: r, Score: int(score.Int64), HasScore: score.Valid}
	o.Duration = time.Duration(duration) * time.Millisecond
	o.At = time.UnixMilli(at).UTC()
	return o, nil
}
