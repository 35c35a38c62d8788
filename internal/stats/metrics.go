// Package stats derives typing test metrics and leaderboard eligibility.
package stats

import (
	"math"
	"time"

	"github.com/verte-zerg/typotester/internal/engine"
	"github.com/verte-zerg/typotester/internal/model"
)

// charsPerWord is the conventional word length used for WPM.
const charsPerWord = 5.0

// Accuracy returns the share of correct words as a rounded percentage.
func Accuracy(correct, wrong int) int {
	total := correct + wrong
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// ElapsedSeconds returns the run length in whole seconds, at least 1 once the
// run has started. A run that never started reports the configured duration.
func ElapsedSeconds(startedAt, endedAt time.Time, configuredSeconds int, now time.Time) int {
	switch {
	case !startedAt.IsZero() && !endedAt.IsZero():
		return atLeastOneSecond(endedAt.Sub(startedAt))
	case !startedAt.IsZero():
		return atLeastOneSecond(now.Sub(startedAt))
	default:
		return configuredSeconds
	}
}

// PracticeWPM normalizes typed characters by the actual elapsed time.
func PracticeWPM(typedChars, correct, elapsedSeconds int) int {
	return wpm(typedChars, correct, elapsedSeconds)
}

// RankedWPM normalizes typed characters by the configured duration, so stopping
// early never raises the score.
func RankedWPM(typedChars, correct, configuredSeconds int) int {
	return wpm(typedChars, correct, configuredSeconds)
}

// Summarize computes every metric for a run state.
func Summarize(s engine.RunState, now time.Time) model.Result {
	elapsed := ElapsedSeconds(s.StartedAt, s.EndedAt, s.DurationSeconds, now)
	return model.Result{
		DurationSeconds: s.DurationSeconds,
		ElapsedSeconds:  elapsed,
		Correct:         s.Correct,
		Wrong:           s.Wrong,
		TypedChars:      s.TypedChars,
		Accuracy:        Accuracy(s.Correct, s.Wrong),
		PracticeWPM:     PracticeWPM(s.TypedChars, s.Correct, elapsed),
		RankedWPM:       RankedWPM(s.TypedChars, s.Correct, s.DurationSeconds),
	}
}

func wpm(typedChars, correct, seconds int) int {
	if correct == 0 || seconds <= 0 {
		return 0
	}
	minutes := float64(seconds) / 60.0
	return int(math.Round((float64(typedChars) / charsPerWord) / minutes))
}

func atLeastOneSecond(d time.Duration) int {
	secs := int(math.Round(float64(d.Milliseconds()) / 1000.0))
	if secs < 1 {
		return 1
	}
	return secs
}
