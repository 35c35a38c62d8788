package sshserve

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/typotester/internal/tui"
	"github.com/verte-zerg/typotester/internal/wordlist"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	vocab, err := wordlist.New([]string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "keys", "host_ed25519")
	srv, err := New(cfg, nil, vocab, log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestNewCreatesHostKey(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	if _, err := os.Stat(srv.config.HostKeyPath); err != nil {
		t.Fatalf("expected host key to be generated: %v", err)
	}
}

func TestNewRejectsUnknownGate(t *testing.T) {
	vocab, err := wordlist.New([]string{"alpha"})
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Gate = "wallet"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host")
	if _, err := New(cfg, nil, vocab, log.New(io.Discard)); err == nil {
		t.Fatalf("expected error for unknown gate")
	}
}

func TestSessionModelsAreIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gate = "confirm"
	cfg.Prompt = "Pay?"
	srv := newTestServer(t, cfg)

	a, err := srv.newSessionModel("alice", nil)
	if err != nil {
		t.Fatalf("session a: %v", err)
	}
	b, err := srv.newSessionModel("bob", nil)
	if err != nil {
		t.Fatalf("session b: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct models per session")
	}
	if a.Identity() != "alice" || b.Identity() != "bob" {
		t.Fatalf("unexpected identities %q and %q", a.Identity(), b.Identity())
	}
}

func TestSessionBellGoesThroughSharedOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sound = true
	srv := newTestServer(t, cfg)

	var session bytes.Buffer
	m, err := srv.newSessionModel("alice", tui.NewSyncWriter(&session))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd == nil {
		t.Fatalf("expected bell command with sound enabled")
	}
	cmd()
	if session.String() != "\a" {
		t.Fatalf("expected bell on the session output, got %q", session.String())
	}
}
