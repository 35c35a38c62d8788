// Package model defines shared data structures.
package model

import "time"

// Config defines settings for a local typing test.
type Config struct {
	Duration     int
	Identity     string
	WordListPath string
	Lang         string
	Sound        bool
	Gate         string
	Top          int
	Seed         int64
}

// LeaderboardConfig selects the leaderboard backend.
type LeaderboardConfig struct {
	DBPath string
	URL    string
	Top    int
}

// Score is the single best leaderboard entry kept for an identity.
type Score struct {
	Identity        string    `json:"identity" validate:"required,max=128"`
	WPM             int       `json:"wpm" validate:"gte=0"`
	Accuracy        int       `json:"accuracy" validate:"gte=0,lte=100"`
	DurationSeconds int       `json:"duration_seconds" validate:"gt=0"`
	CreatedAt       time.Time `json:"created_at"`
}

// Result holds the metrics derived from a finished (or in-progress) run.
type Result struct {
	DurationSeconds int
	ElapsedSeconds  int
	Correct         int
	Wrong           int
	TypedChars      int
	Accuracy        int
	PracticeWPM     int
	RankedWPM       int
}

// Verdict is the outcome recorded for one word of the stream.
type Verdict int

// Verdict values. Every appended word starts Pending.
const (
	VerdictPending Verdict = iota
	VerdictCorrect
	VerdictWrong
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictWrong:
		return "wrong"
	default:
		return "pending"
	}
}
