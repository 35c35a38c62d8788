// Package sshserve serves the typing test over SSH with Wish.
package sshserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/muesli/termenv"

	"github.com/verte-zerg/typotester/internal/engine"
	"github.com/verte-zerg/typotester/internal/gate"
	"github.com/verte-zerg/typotester/internal/generator"
	"github.com/verte-zerg/typotester/internal/leaderboard"
	"github.com/verte-zerg/typotester/internal/tui"
	"github.com/verte-zerg/typotester/internal/wordlist"
)

// Config holds the SSH server settings.
type Config struct {
	// Address is the host:port to listen on.
	Address     string
	HostKeyPath string
	IdleTimeout time.Duration

	Duration int
	Gate     string
	Prompt   string
	Sound    bool
	Top      int
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Duration:    30,
		Gate:        "free",
		Top:         leaderboard.DefaultTop,
	}
}

// Server runs one typing test per SSH session against a shared leaderboard.
type Server struct {
	config Config
	server *ssh.Server
	store  leaderboard.Store
	vocab  *wordlist.Vocabulary
	logger *log.Logger
}

// New builds a Wish server. store may be nil to run without a leaderboard.
func New(cfg Config, st leaderboard.Store, vocab *wordlist.Vocabulary, logger *log.Logger) (*Server, error) {
	if vocab == nil {
		return nil, fmt.Errorf("no vocabulary configured")
	}
	if cfg.HostKeyPath == "" {
		return nil, fmt.Errorf("no host key path configured")
	}
	if _, err := gate.Parse(cfg.Gate, cfg.Prompt); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.HostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create host key directory: %w", err)
	}

	srv := &Server{
		config: cfg,
		store:  st,
		vocab:  vocab,
		logger: logger,
	}
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.MiddlewareWithProgramHandler(srv.programHandler, termenv.Ascii),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// programHandler builds the program for one session. The renderer and the
// keystroke bell share a SyncWriter over the session.
func (s *Server) programHandler(sess ssh.Session) *tea.Program {
	if _, _, ok := sess.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil
	}
	out := tui.NewSyncWriter(sess)
	m, err := s.newSessionModel(sess.User(), out)
	if err != nil {
		s.logger.Error("failed to create session", "user", sess.User(), "error", err)
		return nil
	}
	opts := append(bubbletea.MakeOptions(sess), tea.WithOutput(out), tea.WithAltScreen())
	return tea.NewProgram(m, opts...)
}

// newSessionModel gives each session its own engine and gate over the shared store.
func (s *Server) newSessionModel(user string, bell io.Writer) (*tui.Model, error) {
	g, err := gate.Parse(s.config.Gate, s.config.Prompt)
	if err != nil {
		return nil, err
	}
	eng := engine.New(generator.New(s.vocab), s.config.Duration)
	opts := tui.Options{
		Identity: user,
		Duration: s.config.Duration,
		Top:      s.config.Top,
	}
	if s.config.Sound && bell != nil {
		opts.Bell = bell
	}
	return tui.NewModel(eng, s.store, g, s.logger.With("user", user), opts), nil
}

func (s *Server) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", sess.RemoteAddr().String())
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops accepting sessions and waits up to ten seconds for open ones.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Address
}
