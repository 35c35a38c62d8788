// Package engine implements the typing test state machine.
package engine

import (
	"time"

	"github.com/verte-zerg/typotester/internal/model"
)

// Phase is the lifecycle stage of a run.
type Phase int

// Run phases.
const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

const (
	// WindowSize is the number of words visible at once.
	WindowSize = 4
	// InitialWords is the stream length generated for every run.
	InitialWords = 200
	// ExtendBatch is the number of words appended when the lookahead runs out.
	ExtendBatch = 50
)

// RunState is the mutable state of one test attempt.
type RunState struct {
	DurationSeconds  int
	RemainingSeconds int
	Phase            Phase

	Words        []string
	Verdicts     []model.Verdict
	CurrentIndex int
	WindowStart  int
	Input        string

	Correct    int
	Wrong      int
	TypedChars int

	StartedAt time.Time
	EndedAt   time.Time
}

// CurrentWord returns the word being typed and whether it exists.
func (s *RunState) CurrentWord() (string, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Words) {
		return "", false
	}
	return s.Words[s.CurrentIndex], true
}

func (s RunState) clone() RunState {
	s.Words = append([]string(nil), s.Words...)
	s.Verdicts = append([]model.Verdict(nil), s.Verdicts...)
	return s
}
