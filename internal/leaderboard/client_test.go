package leaderboard_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/typotester/internal/leaderboard"
	"github.com/verte-zerg/typotester/internal/leaderboard/api"
	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/stats"
	"github.com/verte-zerg/typotester/internal/store"
)

func startAPI(t *testing.T) string {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "leaderboard.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := api.New(st, log.New(io.Discard))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		_ = srv.App().Listener(ln)
	}()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = st.Close()
	})
	return fmt.Sprintf("http://%s", ln.Addr().String())
}

func TestClientRoundTrip(t *testing.T) {
	client := leaderboard.NewClient(startAPI(t))
	ctx := context.Background()

	best, err := client.BestScore(ctx, "alice")
	if err != nil {
		t.Fatalf("best score: %v", err)
	}
	if best != nil {
		t.Fatalf("expected no score yet, got %+v", best)
	}

	result := model.Result{DurationSeconds: 60, ElapsedSeconds: 60, Accuracy: 97, RankedWPM: 81}
	if _, err := leaderboard.Submit(ctx, client, "alice", result, time.Now()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	best, err = client.BestScore(ctx, "alice")
	if err != nil {
		t.Fatalf("best score: %v", err)
	}
	if best == nil || best.WPM != 81 || best.Accuracy != 97 {
		t.Fatalf("unexpected best score: %+v", best)
	}

	top, err := client.ListTop(ctx, 20)
	if err != nil {
		t.Fatalf("list top: %v", err)
	}
	if len(top) != 1 || top[0].Identity != "alice" {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}
}

func TestClientSurfacesConflict(t *testing.T) {
	client := leaderboard.NewClient(startAPI(t))
	ctx := context.Background()
	score := model.Score{Identity: "bob", WPM: 70, Accuracy: 90, DurationSeconds: 60}
	if err := client.SubmitScore(ctx, score); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := client.SubmitScore(ctx, score); !errors.Is(err, stats.ErrNotPersonalBest) {
		t.Fatalf("expected ErrNotPersonalBest for equal score, got %v", err)
	}
}
