// Package main provides the CLI entrypoint for typotester.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typotester/internal/config"
	"github.com/verte-zerg/typotester/internal/engine"
	"github.com/verte-zerg/typotester/internal/gate"
	"github.com/verte-zerg/typotester/internal/generator"
	"github.com/verte-zerg/typotester/internal/leaderboard"
	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/store"
	"github.com/verte-zerg/typotester/internal/tui"
	"github.com/verte-zerg/typotester/internal/wordlist"
)

const (
	defaultDuration = 30
	defaultGate     = "free"
	entryPrompt     = "Confirm the entry fee to start?"
)

var (
	testDuration int
	testIdentity string
	testWordList string
	testLang     string
	testSound    bool
	testGate     string
	testTop      int
	testSeed     int64
	testDBPath   string
	testURL      string
	debugLog     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typotester",
		Short:         "Timed terminal typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().IntVar(&testDuration, "duration", defaultDuration, "test duration in seconds (15, 30, 60, 120)")
	rootCmd.Flags().StringVar(&testIdentity, "identity", "", "leaderboard identity (default: $USER)")
	rootCmd.Flags().StringVar(&testWordList, "wordlist", "", "vocabulary file (.txt or .yaml); embedded English list when empty")
	rootCmd.Flags().StringVar(&testLang, "lang", "", "vocabulary language filter (en keeps lowercase ASCII words)")
	rootCmd.Flags().BoolVar(&testSound, "sound", false, "ring the terminal bell on keystrokes")
	rootCmd.Flags().StringVar(&testGate, "gate", defaultGate, "entry gate: free or confirm")
	rootCmd.Flags().IntVar(&testTop, "top", leaderboard.DefaultTop, "leaderboard entries to show")
	rootCmd.Flags().Int64Var(&testSeed, "seed", 0, "word generator seed (0 seeds from the clock)")
	rootCmd.Flags().StringVar(&testDBPath, "db", config.DefaultDBPath(), "SQLite leaderboard path")
	rootCmd.Flags().StringVar(&testURL, "leaderboard-url", "", "remote leaderboard API base URL (overrides --db)")
	rootCmd.Flags().BoolVar(&debugLog, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAPICmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	applyStringConfig(cmd, "identity", &testIdentity, fileCfg.Test.Identity)
	applyStringConfig(cmd, "wordlist", &testWordList, fileCfg.Test.WordList)
	applyStringConfig(cmd, "lang", &testLang, fileCfg.Test.Lang)
	applyBoolConfig(cmd, "sound", &testSound, fileCfg.Test.Sound)
	applyStringConfig(cmd, "gate", &testGate, fileCfg.Test.Gate)
	applyIntConfig(cmd, "top", &testTop, fileCfg.Leaderboard.Top)
	applyStringConfig(cmd, "db", &testDBPath, fileCfg.Leaderboard.DB)
	applyStringConfig(cmd, "leaderboard-url", &testURL, fileCfg.Leaderboard.URL)

	cfg := model.Config{
		Duration:     testDuration,
		Identity:     resolveIdentity(testIdentity),
		WordListPath: testWordList,
		Lang:         testLang,
		Sound:        testSound,
		Gate:         testGate,
		Top:          testTop,
		Seed:         testSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if err := checkViewport(); err != nil {
		return err
	}

	vocab, err := loadVocabulary(cfg.WordListPath, cfg.Lang)
	if err != nil {
		return err
	}
	g, err := gate.Parse(cfg.Gate, entryPrompt)
	if err != nil {
		return err
	}

	logger, closeLog, err := openFileLogger(config.DefaultLogPath(), debugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	lb, closeStore, err := openLeaderboard(model.LeaderboardConfig{DBPath: testDBPath, URL: testURL, Top: cfg.Top})
	if err != nil {
		return err
	}
	defer closeStore()

	var gen *generator.Generator
	if cfg.Seed != 0 {
		gen = generator.NewWithSeed(vocab, cfg.Seed)
	} else {
		gen = generator.New(vocab)
	}
	eng := engine.New(gen, cfg.Duration)

	opts := tui.Options{Identity: cfg.Identity, Duration: cfg.Duration, Top: cfg.Top}
	if cfg.Sound {
		opts.Bell = os.Stderr
	}
	logger.Info("starting test", "identity", cfg.Identity, "duration", cfg.Duration, "words", vocab.Len())
	program := tea.NewProgram(tui.NewModel(eng, lb, g, logger, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func validateConfig(cfg model.Config) error {
	if !slices.Contains(tui.Durations, cfg.Duration) {
		return fmt.Errorf("--duration must be one of 15, 30, 60, 120")
	}
	if cfg.Top <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	if strings.TrimSpace(cfg.Identity) == "" {
		return fmt.Errorf("--identity must not be empty")
	}
	return nil
}

func resolveIdentity(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("USER")); v != "" {
		return v
	}
	return "player"
}

func checkViewport() error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("typotester needs an interactive terminal")
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("failed to read terminal size: %w", err)
	}
	if width < tui.MinWidth {
		return fmt.Errorf("terminal is %d columns wide; typotester needs at least %d", width, tui.MinWidth)
	}
	return nil
}

func loadVocabulary(path, lang string) (*wordlist.Vocabulary, error) {
	var (
		vocab *wordlist.Vocabulary
		err   error
	)
	if path == "" {
		vocab, err = wordlist.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded word list: %w", err)
		}
	} else {
		vocab, err = wordlist.LoadWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
		}
	}
	if lang == "" {
		return vocab, nil
	}
	filtered, err := vocab.Filter(wordlist.FilterForLang(lang))
	if err != nil {
		return nil, fmt.Errorf("no words left after %q filter: %w", lang, err)
	}
	return filtered, nil
}

// openLeaderboard prefers the remote API when a URL is configured.
func openLeaderboard(cfg model.LeaderboardConfig) (leaderboard.Store, func(), error) {
	if cfg.URL != "" {
		return leaderboard.NewClient(cfg.URL), func() {}, nil
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "typotester",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openFileLogger logs to a file since the TUI owns the terminal.
func openFileLogger(path string, debug bool) (*log.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return newLogger(f, debug), func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
