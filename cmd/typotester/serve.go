package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typotester/internal/config"
	"github.com/verte-zerg/typotester/internal/leaderboard"
	"github.com/verte-zerg/typotester/internal/sshserve"
	"github.com/verte-zerg/typotester/internal/store"
)

const (
	defaultSSHAddr     = ":23234"
	defaultIdleTimeout = 30
)

var (
	serveAddr        string
	serveHostKey     string
	serveIdleTimeout int
	serveDBPath      string
	serveDuration    int
	serveGate        string
	serveSound       bool
	serveWordList    string
	serveLang        string
	serveTop         int
	serveDebug       bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the typing test over SSH",
		Long: `Start an SSH server where every connection gets its own typing test.

All sessions share one leaderboard and play under their SSH user name.

Users can connect with:
  ssh localhost -p 23234`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "ssh", defaultSSHAddr, "SSH server address (host:port)")
	cmd.Flags().StringVar(&serveHostKey, "host-key", config.DefaultHostKeyPath(), "host key file (generated when missing)")
	cmd.Flags().IntVar(&serveIdleTimeout, "idle-timeout", defaultIdleTimeout, "idle timeout in minutes")
	cmd.Flags().StringVar(&serveDBPath, "db", config.DefaultDBPath(), "SQLite leaderboard path")
	cmd.Flags().IntVar(&serveDuration, "duration", defaultDuration, "default test duration in seconds")
	cmd.Flags().StringVar(&serveGate, "gate", defaultGate, "entry gate: free or confirm")
	cmd.Flags().BoolVar(&serveSound, "sound", false, "ring the terminal bell on keystrokes")
	cmd.Flags().StringVar(&serveWordList, "wordlist", "", "vocabulary file (.txt or .yaml)")
	cmd.Flags().StringVar(&serveLang, "lang", "", "vocabulary language filter (en keeps lowercase ASCII words)")
	cmd.Flags().IntVar(&serveTop, "top", leaderboard.DefaultTop, "leaderboard entries to show")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "ssh", &serveAddr, fileCfg.Serve.SSH)
	applyStringConfig(cmd, "host-key", &serveHostKey, fileCfg.Serve.HostKey)
	applyIntConfig(cmd, "idle-timeout", &serveIdleTimeout, fileCfg.Serve.IdleTimeout)
	applyStringConfig(cmd, "db", &serveDBPath, fileCfg.Leaderboard.DB)
	applyIntConfig(cmd, "duration", &serveDuration, fileCfg.Test.Duration)
	applyStringConfig(cmd, "gate", &serveGate, fileCfg.Test.Gate)
	applyBoolConfig(cmd, "sound", &serveSound, fileCfg.Test.Sound)
	applyStringConfig(cmd, "wordlist", &serveWordList, fileCfg.Test.WordList)
	applyStringConfig(cmd, "lang", &serveLang, fileCfg.Test.Lang)
	applyIntConfig(cmd, "top", &serveTop, fileCfg.Leaderboard.Top)
	if serveIdleTimeout <= 0 {
		return fmt.Errorf("--idle-timeout must be > 0")
	}
	if serveDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}

	logger := newLogger(os.Stderr, serveDebug)
	vocab, err := loadVocabulary(serveWordList, serveLang)
	if err != nil {
		return err
	}
	st, err := store.Open(serveDBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "error", cerr)
		}
	}()

	cfg := sshserve.DefaultConfig()
	cfg.Address = serveAddr
	cfg.HostKeyPath = serveHostKey
	cfg.IdleTimeout = time.Duration(serveIdleTimeout) * time.Minute
	cfg.Duration = serveDuration
	cfg.Gate = serveGate
	cfg.Prompt = entryPrompt
	cfg.Sound = serveSound
	cfg.Top = serveTop

	server, err := sshserve.New(cfg, st, vocab, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx)
}
