package engine

import (
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typotester/internal/model"
)

// WordSource supplies words for the stream.
type WordSource interface {
	Generate(n int) []string
	Extend(stream []string, verdicts []model.Verdict, n int) ([]string, []model.Verdict)
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine drives a RunState through idle, running and finished. It is not safe
// for concurrent use; callers serialize ticks and keystrokes.
type Engine struct {
	source WordSource
	now    func() time.Time
	state  RunState
}

// New returns an idle engine with a fresh word stream.
func New(source WordSource, durationSeconds int, opts ...Option) *Engine {
	e := &Engine{source: source, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.reset(durationSeconds)
	return e
}

// State returns a copy of the current run state.
func (e *Engine) State() RunState {
	return e.state.clone()
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

// Input returns the uncommitted input buffer.
func (e *Engine) Input() string {
	return e.state.Input
}

// SetInput replaces the input buffer while running. Spaces are not allowed in
// the buffer; words are committed through HandleKey.
func (e *Engine) SetInput(s string) bool {
	if e.state.Phase != PhaseRunning || strings.ContainsRune(s, ' ') {
		return false
	}
	e.state.Input = s
	return true
}

// SetDuration changes the configured duration while idle.
func (e *Engine) SetDuration(seconds int) bool {
	if e.state.Phase != PhaseIdle || seconds <= 0 {
		return false
	}
	e.state.DurationSeconds = seconds
	e.state.RemainingSeconds = seconds
	return true
}

// Start begins a run from idle or finished. It returns false when the engine
// is already running or the duration is not positive.
func (e *Engine) Start(durationSeconds int) bool {
	if e.state.Phase == PhaseRunning || durationSeconds <= 0 {
		return false
	}
	e.reset(durationSeconds)
	e.state.Phase = PhaseRunning
	e.state.StartedAt = e.now()
	return true
}

// Restart discards the current run and returns to idle with a new stream.
func (e *Engine) Restart() {
	e.reset(e.state.DurationSeconds)
}

// Tick advances the countdown by one second. It reports whether this tick
// finished the run.
func (e *Engine) Tick() bool {
	if e.state.Phase != PhaseRunning {
		return false
	}
	if e.state.RemainingSeconds > 0 {
		e.state.RemainingSeconds--
	}
	if e.state.RemainingSeconds == 0 {
		e.finish()
		return true
	}
	return false
}

// Stop ends a running test early. Remaining seconds are kept.
func (e *Engine) Stop() bool {
	if e.state.Phase != PhaseRunning {
		return false
	}
	e.finish()
	return true
}

// HandleKey applies a keystroke to the running test.
func (e *Engine) HandleKey(key Key) KeyResult {
	if e.state.Phase != PhaseRunning {
		return KeyResult{}
	}
	switch key.Type {
	case KeyRune:
		if !unicode.IsPrint(key.Rune) {
			return KeyResult{}
		}
		e.state.Input += string(key.Rune)
		return KeyResult{PlaySound: true}
	case KeyBackspace:
		if e.state.Input != "" {
			runes := []rune(e.state.Input)
			e.state.Input = string(runes[:len(runes)-1])
		}
		return KeyResult{}
	case KeySpace:
		return e.submitWord()
	default:
		return KeyResult{}
	}
}

func (e *Engine) submitWord() KeyResult {
	s := &e.state
	typed := strings.TrimSpace(s.Input)
	if typed == "" {
		return KeyResult{}
	}
	actual, ok := s.CurrentWord()
	if !ok {
		return KeyResult{}
	}

	result := KeyResult{Committed: true, Index: s.CurrentIndex}
	if typed == actual {
		s.Verdicts[s.CurrentIndex] = model.VerdictCorrect
		s.Correct++
		s.TypedChars += len(actual) + 1
		result.Verdict = model.VerdictCorrect
	} else {
		s.Verdicts[s.CurrentIndex] = model.VerdictWrong
		s.Wrong++
		result.Verdict = model.VerdictWrong
	}
	s.Input = ""
	s.CurrentIndex++
	if s.CurrentIndex%WindowSize == 0 {
		s.WindowStart = s.CurrentIndex
	}
	if s.CurrentIndex >= len(s.Words)-1 {
		s.Words, s.Verdicts = e.source.Extend(s.Words, s.Verdicts, ExtendBatch)
		result.Extended = true
	}
	return result
}

func (e *Engine) finish() {
	e.state.Phase = PhaseFinished
	e.state.EndedAt = e.now()
}

func (e *Engine) reset(durationSeconds int) {
	words := e.source.Generate(InitialWords)
	e.state = RunState{
		DurationSeconds:  durationSeconds,
		RemainingSeconds: durationSeconds,
		Phase:            PhaseIdle,
		Words:            words,
		Verdicts:         make([]model.Verdict, len(words)),
	}
}
