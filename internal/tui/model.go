// Package tui provides the Bubble Tea typing test interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/typotester/internal/engine"
	"github.com/verte-zerg/typotester/internal/gate"
	"github.com/verte-zerg/typotester/internal/leaderboard"
	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/stats"
)

// MinWidth is the narrowest terminal the test runs in.
const MinWidth = 40

// Durations are the selectable test lengths in seconds.
var Durations = []int{15, 30, 60, 120}

const (
	storeTimeout = 10 * time.Second
	entryTimeout = 2 * time.Minute
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	panelStyle       = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Options configures a Model.
type Options struct {
	Identity string
	Duration int
	Top      int
	// Bell receives a BEL byte on keystrokes when set.
	Bell io.Writer
}

type entryMsg struct {
	ok  bool
	err error
}

type leaderboardMsg struct {
	scores []model.Score
	best   *model.Score
	err    error
}

type savedMsg struct {
	score model.Score
	err   error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine *engine.Engine
	store  leaderboard.Store
	gate   gate.Gate
	logger *log.Logger
	opts   Options
	now    func() time.Time

	width  int
	height int

	input textinput.Model
	board table.Model

	run        int
	requesting bool
	answered   bool
	status     string
	statusErr  bool

	result model.Result
	saved  bool
	saving bool

	scores []model.Score
	best   *model.Score
}

// NewModel constructs a typing TUI model. store may be nil to disable the leaderboard.
func NewModel(eng *engine.Engine, st leaderboard.Store, g gate.Gate, logger *log.Logger, opts Options) *Model {
	if opts.Top <= 0 {
		opts.Top = leaderboard.DefaultTop
	}
	if g == nil {
		g = gate.Free{}
	}
	ti := textinput.New()
	ti.Placeholder = "Type and press space"
	ti.Prompt = "› "
	ti.CharLimit = 64

	board := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Identity", Width: 12},
			{Title: "WPM", Width: 4},
		}),
		table.WithHeight(10),
	)

	m := &Model{
		engine: eng,
		store:  st,
		gate:   g,
		logger: logger,
		opts:   opts,
		now:    time.Now,
		input:  ti,
		board:  board,
	}
	if opts.Duration > 0 {
		eng.SetDuration(opts.Duration)
	}
	return m
}

// Identity returns the identity the model plays and submits as.
func (m *Model) Identity() string {
	return m.opts.Identity
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadLeaderboard()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case entryMsg:
		return m, m.handleEntry(msg)
	case leaderboardMsg:
		m.handleLeaderboard(msg)
		return m, nil
	case savedMsg:
		return m, m.handleSaved(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.engine.Stop() {
			m.logger.Debug("run interrupted")
		}
		return m, tea.Quit
	}
	if c, ok := m.gate.(*gate.Confirm); ok && m.requesting {
		if m.answered {
			return m, nil
		}
		switch msg.String() {
		case "y", "Y":
			m.answered = c.Answer(true)
		case "n", "N", "esc":
			m.answered = c.Answer(false)
		}
		return m, nil
	}
	switch m.engine.Phase() {
	case engine.PhaseRunning:
		return m, m.handleTypingKey(msg)
	case engine.PhaseFinished:
		switch msg.String() {
		case "r":
			m.restart()
			return m, nil
		case "s":
			return m, m.saveScore()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	default:
		switch msg.String() {
		case "left", "h":
			m.cycleDuration(-1)
		case "right", "l":
			m.cycleDuration(1)
		case "enter":
			return m, m.requestEntry()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}
}

func (m *Model) handleTypingKey(msg tea.KeyMsg) tea.Cmd {
	var keys []engine.Key
	switch msg.Type {
	case tea.KeyEsc:
		if m.engine.Stop() {
			m.finish("stopped")
		}
		return nil
	case tea.KeySpace:
		keys = append(keys, engine.SpaceKey())
	case tea.KeyBackspace, tea.KeyDelete:
		keys = append(keys, engine.BackspaceKey())
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			keys = append(keys, engine.RuneKey(r))
		}
	default:
		return nil
	}
	sound := false
	for _, key := range keys {
		res := m.engine.HandleKey(key)
		sound = sound || res.PlaySound
		if res.Extended {
			m.logger.Debug("word stream extended", "words", len(m.engine.State().Words))
		}
	}
	m.syncInput()
	if sound {
		return m.ringBell()
	}
	return nil
}

func (m *Model) ringBell() tea.Cmd {
	if m.opts.Bell == nil {
		return nil
	}
	w := m.opts.Bell
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}

func (m *Model) cycleDuration(step int) {
	current := m.engine.State().DurationSeconds
	idx := 0
	for i, d := range Durations {
		if d == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(Durations)) % len(Durations)
	m.engine.SetDuration(Durations[idx])
}

func (m *Model) requestEntry() tea.Cmd {
	if m.requesting {
		return nil
	}
	m.requesting = true
	m.answered = false
	m.setStatus("", false)
	g := m.gate
	identity := m.opts.Identity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), entryTimeout)
		defer cancel()
		ok, err := g.RequestEntry(ctx, identity)
		return entryMsg{ok: ok, err: err}
	}
}

func (m *Model) handleEntry(msg entryMsg) tea.Cmd {
	m.requesting = false
	m.answered = false
	if msg.err != nil {
		m.logger.Warn("entry request failed", "identity", m.opts.Identity, "error", msg.err)
		m.setStatus(fmt.Sprintf("Entry failed: %v", msg.err), true)
		return nil
	}
	if !msg.ok {
		m.setStatus("Entry declined", true)
		return nil
	}
	if !m.engine.Start(m.engine.State().DurationSeconds) {
		return nil
	}
	m.run++
	m.saved = false
	m.result = model.Result{}
	m.input.SetValue("")
	m.input.Focus()
	m.logger.Info("run started", "identity", m.opts.Identity, "duration", m.engine.State().DurationSeconds)
	return tickCmd(m.run)
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.run != m.run || m.engine.Phase() != engine.PhaseRunning {
		return nil
	}
	if m.engine.Tick() {
		m.finish("timeout")
		return nil
	}
	return tickCmd(m.run)
}

func (m *Model) finish(reason string) {
	m.input.Blur()
	m.syncInput()
	m.result = stats.Summarize(m.engine.State(), m.now())
	m.logger.Info("run finished",
		"reason", reason,
		"correct", m.result.Correct,
		"wrong", m.result.Wrong,
		"accuracy", m.result.Accuracy,
		"wpm", m.result.PracticeWPM,
		"ranked_wpm", m.result.RankedWPM,
	)
}

func (m *Model) restart() {
	m.engine.Restart()
	m.result = model.Result{}
	m.saved = false
	m.input.SetValue("")
	m.setStatus("", false)
}

func (m *Model) saveScore() tea.Cmd {
	if m.store == nil || m.saved || m.saving {
		return nil
	}
	m.saving = true
	st := m.store
	identity := m.opts.Identity
	result := m.result
	now := m.now()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		score, err := leaderboard.Submit(ctx, st, identity, result, now)
		return savedMsg{score: score, err: err}
	}
}

func (m *Model) handleSaved(msg savedMsg) tea.Cmd {
	m.saving = false
	switch {
	case msg.err == nil:
		m.saved = true
		m.setStatus(fmt.Sprintf("Saved %d WPM to the leaderboard", msg.score.WPM), false)
		m.logger.Info("score saved", "identity", msg.score.Identity, "wpm", msg.score.WPM)
		return m.loadLeaderboard()
	case errors.Is(msg.err, stats.ErrNotPersonalBest):
		m.saved = true
		m.setStatus(msg.err.Error(), true)
	case isEligibilityErr(msg.err):
		m.setStatus(msg.err.Error(), true)
	default:
		m.logger.Error("failed to save score", "error", msg.err)
		m.setStatus("Could not save score", true)
	}
	return nil
}

func isEligibilityErr(err error) bool {
	return errors.Is(err, stats.ErrDurationTooShort) ||
		errors.Is(err, stats.ErrAccuracyTooLow) ||
		errors.Is(err, stats.ErrIncomplete)
}

func (m *Model) loadLeaderboard() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	identity := m.opts.Identity
	top := m.opts.Top
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		scores, err := st.ListTop(ctx, top)
		if err != nil {
			return leaderboardMsg{err: err}
		}
		var best *model.Score
		if identity != "" {
			best, err = st.BestScore(ctx, identity)
		}
		return leaderboardMsg{scores: scores, best: best, err: err}
	}
}

func (m *Model) handleLeaderboard(msg leaderboardMsg) {
	if msg.err != nil {
		m.logger.Warn("failed to load leaderboard", "error", msg.err)
		return
	}
	m.scores = msg.scores
	m.best = msg.best
	rows := make([]table.Row, 0, len(msg.scores))
	for i, s := range msg.scores {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			stats.ShortIdentity(s.Identity),
			fmt.Sprintf("%d", s.WPM),
		})
	}
	m.board.SetRows(rows)
}

func (m *Model) syncInput() {
	m.input.SetValue(m.engine.Input())
	m.input.CursorEnd()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width > 0 && m.width < MinWidth {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			"typotester needs a wider terminal.\nResize to at least 40 columns.")
	}
	state := m.engine.State()
	contentWidth := 48
	if m.width > 0 {
		contentWidth = max(MinWidth-4, min(60, m.width-24))
	}

	sections := []string{titleStyle.Render("TypoTester")}
	if state.Phase == engine.PhaseIdle {
		sections = append(sections, m.renderIdle(state))
	}
	words := wrapStyledRunes(buildWindowRunes(state.Visible(), state.Input), contentWidth)
	sections = append(sections, lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(words))
	m.input.Width = contentWidth - 4
	sections = append(sections, m.input.View())
	sections = append(sections, fmt.Sprintf("⏱ %ds", state.RemainingSeconds))
	if state.Phase == engine.PhaseFinished {
		sections = append(sections, m.renderResult())
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	main := lipgloss.JoinVertical(lipgloss.Left, sections...)

	body := main
	if m.store != nil {
		panel := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Leaderboard"), m.board.View()))
		body = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", panel)
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	top := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	return top + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) renderIdle(state engine.RunState) string {
	if m.requesting {
		if c, ok := m.gate.(*gate.Confirm); ok {
			return statusStyle.Render(c.Prompt + " [y/n]")
		}
		return statusStyle.Render("Requesting entry...")
	}
	return statusStyle.Render(fmt.Sprintf("‹ %ds ›  enter to play", state.DurationSeconds))
}

func (m *Model) renderResult() string {
	r := m.result
	lines := []string{
		fmt.Sprintf("Correct: %d", r.Correct),
		fmt.Sprintf("Wrong: %d", r.Wrong),
		fmt.Sprintf("WPM: %d", r.PracticeWPM),
		fmt.Sprintf("Accuracy: %d%%", r.Accuracy),
		fmt.Sprintf("Ranked WPM: %d", r.RankedWPM),
	}
	actions := "r restart · q quit"
	if m.store != nil && !m.saved {
		actions = "r restart · s save to leaderboard · q quit"
	}
	lines = append(lines, footerStyle.Render(actions))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.opts.Identity != "" {
		segments = append(segments, m.opts.Identity)
	}
	if m.best != nil {
		segments = append(segments, fmt.Sprintf("Best %d WPM · %d%%", m.best.WPM, m.best.Accuracy))
		for i, s := range m.scores {
			if s.Identity == m.best.Identity {
				segments = append(segments, fmt.Sprintf("Rank #%d", i+1))
				break
			}
		}
	}
	if m.engine.Phase() == engine.PhaseRunning {
		segments = append(segments, "esc stop")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
