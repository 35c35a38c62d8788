package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typotester/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Accuracy", "Correct"}
	rows := [][]string{
		{"a", "97.50%", "12"},
		{"<space>", "8.00%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestShortIdentity(t *testing.T) {
	if got := ShortIdentity("alice"); got != "alice" {
		t.Fatalf("short identity changed: %q", got)
	}
	addr := "0x52908400098527886E0F7030069857D2E4169EE7"
	if got := ShortIdentity(addr); got != "0x5290…9EE7" {
		t.Fatalf("unexpected abbreviation: %q", got)
	}
}

func TestRenderLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	scores := []model.Score{
		{Identity: "alice", WPM: 91, Accuracy: 97, DurationSeconds: 60, CreatedAt: time.Unix(0, 0)},
		{Identity: "bob", WPM: 64, Accuracy: 88, DurationSeconds: 30, CreatedAt: time.Unix(0, 0)},
	}
	if err := RenderLeaderboard(&buf, scores); err != nil {
		t.Fatalf("render leaderboard: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "#1") || !strings.Contains(lines[1], "alice") || !strings.Contains(lines[1], "91") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
}

func TestRenderLeaderboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, nil); err != nil {
		t.Fatalf("render leaderboard: %v", err)
	}
	if !strings.Contains(buf.String(), "No scores") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}
