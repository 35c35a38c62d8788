package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typotester/internal/config"
	"github.com/verte-zerg/typotester/internal/leaderboard/api"
	"github.com/verte-zerg/typotester/internal/store"
)

const defaultAPIListen = ":8080"

var (
	apiListen string
	apiDBPath string
	apiDebug  bool
)

func newAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the leaderboard over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runAPICmd,
	}
	cmd.Flags().StringVar(&apiListen, "listen", defaultAPIListen, "HTTP listen address")
	cmd.Flags().StringVar(&apiDBPath, "db", config.DefaultDBPath(), "SQLite leaderboard path")
	cmd.Flags().BoolVar(&apiDebug, "debug", false, "enable debug logging")
	return cmd
}

func runAPICmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "listen", &apiListen, fileCfg.API.Listen)
	applyStringConfig(cmd, "db", &apiDBPath, fileCfg.Leaderboard.DB)

	logger := newLogger(os.Stderr, apiDebug)
	st, err := store.Open(apiDBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "error", cerr)
		}
	}()

	srv := api.New(st, logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(apiListen)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("leaderboard API stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down...")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down API: %w", err)
	}
	return nil
}
