package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typotester/internal/config"
	"github.com/verte-zerg/typotester/internal/leaderboard"
	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/stats"
)

var (
	boardDBPath string
	boardURL    string
	boardTop    int
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardDBPath, "db", config.DefaultDBPath(), "SQLite leaderboard path")
	cmd.Flags().StringVar(&boardURL, "leaderboard-url", "", "remote leaderboard API base URL (overrides --db)")
	cmd.Flags().IntVar(&boardTop, "top", leaderboard.DefaultTop, "number of entries")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &boardDBPath, fileCfg.Leaderboard.DB)
	applyStringConfig(cmd, "leaderboard-url", &boardURL, fileCfg.Leaderboard.URL)
	applyIntConfig(cmd, "top", &boardTop, fileCfg.Leaderboard.Top)
	if boardTop <= 0 {
		return fmt.Errorf("--top must be > 0")
	}

	lb, closeStore, err := openLeaderboard(model.LeaderboardConfig{DBPath: boardDBPath, URL: boardURL, Top: boardTop})
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	scores, err := lb.ListTop(ctx, boardTop)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if len(scores) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No scores yet.")
		return err
	}
	if err := stats.RenderLeaderboard(cmd.OutOrStdout(), scores); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
