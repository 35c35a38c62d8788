package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg drives the countdown of one run. Ticks from an earlier run are
// dropped by comparing run ids.
type tickMsg struct {
	run int
	at  time.Time
}

func tickCmd(run int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{run: run, at: t}
	})
}
