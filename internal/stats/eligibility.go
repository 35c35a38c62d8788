package stats

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/typotester/internal/model"
)

const (
	// MinRankedSeconds is the shortest configured duration accepted on the leaderboard.
	MinRankedSeconds = 30
	// MinRankedAccuracy is the lowest accuracy accepted on the leaderboard.
	MinRankedAccuracy = 60
	// MinCompletion is the share of the configured duration a run must cover.
	MinCompletion = 0.8
)

// Reasons a result cannot be submitted.
var (
	ErrDurationTooShort = errors.New("leaderboard only accepts tests of 30s or longer")
	ErrAccuracyTooLow   = errors.New("accuracy must be at least 60%")
	ErrIncomplete       = errors.New("complete at least 80% of the test")
	ErrNotPersonalBest  = errors.New("score does not beat the stored best")
)

// CheckEligibility reports whether result may replace best on the leaderboard.
// best may be nil when the identity has no entry yet.
func CheckEligibility(result model.Result, best *model.Score) error {
	if result.DurationSeconds < MinRankedSeconds {
		return ErrDurationTooShort
	}
	if result.Accuracy < MinRankedAccuracy {
		return ErrAccuracyTooLow
	}
	if float64(result.ElapsedSeconds) < float64(result.DurationSeconds)*MinCompletion {
		return ErrIncomplete
	}
	if best != nil && result.RankedWPM <= best.WPM {
		return fmt.Errorf("%w: best is %d WPM", ErrNotPersonalBest, best.WPM)
	}
	return nil
}
