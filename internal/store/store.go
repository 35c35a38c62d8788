// Package store handles SQLite persistence of the leaderboard.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for leaderboard entries.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: cannot create directory %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: cannot open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leaderboard (
			identity TEXT PRIMARY KEY,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_wpm ON leaderboard(wpm DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BestScore returns the stored entry for identity, or nil when there is none.
func (s *Store) BestScore(ctx context.Context, identity string) (*model.Score, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT identity, wpm, accuracy, duration_seconds, created_at
		 FROM leaderboard
		 WHERE identity = ?`, identity)
	score, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: cannot read best score: %w", err)
	}
	return &score, nil
}

// SubmitScore writes score as the entry for its identity. An existing entry is
// replaced only by a higher WPM; otherwise stats.ErrNotPersonalBest is returned
// and the stored row is left as is.
func (s *Store) SubmitScore(ctx context.Context, score model.Score) error {
	if score.Identity == "" {
		return fmt.Errorf("store: identity is empty")
	}
	createdAt := score.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO leaderboard (identity, wpm, accuracy, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(identity) DO UPDATE SET
			wpm = excluded.wpm,
			accuracy = excluded.accuracy,
			duration_seconds = excluded.duration_seconds,
			created_at = excluded.created_at
		 WHERE excluded.wpm > leaderboard.wpm`,
		score.Identity,
		score.WPM,
		score.Accuracy,
		score.DurationSeconds,
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: cannot save score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: cannot read save result: %w", err)
	}
	if n == 0 {
		return stats.ErrNotPersonalBest
	}
	return nil
}

// ListTop returns up to n entries ordered by WPM descending. Earlier entries
// win ties.
func (s *Store) ListTop(ctx context.Context, n int) ([]model.Score, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity, wpm, accuracy, duration_seconds, created_at
		 FROM leaderboard
		 ORDER BY wpm DESC, created_at ASC
		 LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("store: cannot query leaderboard: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var scores []model.Score
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("store: cannot scan row: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: row iteration error: %w", err)
	}
	return scores, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScore(row scanner) (model.Score, error) {
	var score model.Score
	var createdAt string
	if err := row.Scan(&score.Identity, &score.WPM, &score.Accuracy, &score.DurationSeconds, &createdAt); err != nil {
		return model.Score{}, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return model.Score{}, err
	}
	score.CreatedAt = parsed
	return score, nil
}
