// Package leaderboard submits results to a leaderboard store.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/stats"
)

// DefaultTop is the number of entries shown on the leaderboard.
const DefaultTop = 20

// Store keeps the best score per identity.
type Store interface {
	BestScore(ctx context.Context, identity string) (*model.Score, error)
	SubmitScore(ctx context.Context, score model.Score) error
	ListTop(ctx context.Context, n int) ([]model.Score, error)
}

// Submit records result for identity when it is eligible and beats the stored
// best. Eligibility failures are returned as errors from the stats package.
func Submit(ctx context.Context, st Store, identity string, result model.Result, now time.Time) (model.Score, error) {
	if identity == "" {
		return model.Score{}, fmt.Errorf("no identity to submit for")
	}
	best, err := st.BestScore(ctx, identity)
	if err != nil {
		return model.Score{}, fmt.Errorf("failed to load best score: %w", err)
	}
	if err := stats.CheckEligibility(result, best); err != nil {
		return model.Score{}, err
	}
	score := model.Score{
		Identity:        identity,
		WPM:             result.RankedWPM,
		Accuracy:        result.Accuracy,
		DurationSeconds: result.DurationSeconds,
		CreatedAt:       now,
	}
	if err := st.SubmitScore(ctx, score); err != nil {
		if errors.Is(err, stats.ErrNotPersonalBest) {
			return model.Score{}, err
		}
		return model.Score{}, fmt.Errorf("failed to save score: %w", err)
	}
	return score, nil
}
