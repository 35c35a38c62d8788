package engine

import (
	"testing"
	"time"

	"github.com/verte-zerg/typotester/internal/model"
)

// cycleSource repeats a fixed word sequence so streams are predictable.
type cycleSource struct {
	words []string
	next  int
}

func (c *cycleSource) Generate(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = c.words[c.next%len(c.words)]
		c.next++
	}
	return out
}

func (c *cycleSource) Extend(stream []string, verdicts []model.Verdict, n int) ([]string, []model.Verdict) {
	more := c.Generate(n)
	stream = append(stream, more...)
	for range more {
		verdicts = append(verdicts, model.VerdictPending)
	}
	return stream, verdicts
}

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestEngine(t *testing.T, duration int, words ...string) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	if len(words) == 0 {
		words = []string{"cat", "dog"}
	}
	e := New(&cycleSource{words: words}, duration, WithClock(clock.now))
	return e, clock
}

func typeWord(e *Engine, word string) KeyResult {
	for _, r := range word {
		e.HandleKey(RuneKey(r))
	}
	return e.HandleKey(SpaceKey())
}

func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()
	s := e.State()
	if s.Correct+s.Wrong != s.CurrentIndex {
		t.Fatalf("correct+wrong = %d, current index = %d", s.Correct+s.Wrong, s.CurrentIndex)
	}
	if s.WindowStart%WindowSize != 0 || s.WindowStart > s.CurrentIndex {
		t.Fatalf("bad window start %d for index %d", s.WindowStart, s.CurrentIndex)
	}
	if len(s.Words) != len(s.Verdicts) {
		t.Fatalf("stream has %d words but %d verdicts", len(s.Words), len(s.Verdicts))
	}
	if s.CurrentIndex >= len(s.Words) {
		t.Fatalf("current index %d past stream end %d", s.CurrentIndex, len(s.Words))
	}
}

func TestNewIsIdleWithFreshStream(t *testing.T) {
	e, _ := newTestEngine(t, 60)
	s := e.State()
	if s.Phase != PhaseIdle {
		t.Fatalf("expected idle, got %v", s.Phase)
	}
	if len(s.Words) != InitialWords || len(s.Verdicts) != InitialWords {
		t.Fatalf("expected %d words and verdicts, got %d/%d", InitialWords, len(s.Words), len(s.Verdicts))
	}
	for i, v := range s.Verdicts {
		if v != model.VerdictPending {
			t.Fatalf("verdict %d not pending", i)
		}
	}
	if s.RemainingSeconds != 60 {
		t.Fatalf("expected remaining 60, got %d", s.RemainingSeconds)
	}
}

func TestStartTransitions(t *testing.T) {
	e, clock := newTestEngine(t, 60)
	if e.Start(0) {
		t.Fatalf("expected start with zero duration to fail")
	}
	if !e.Start(30) {
		t.Fatalf("expected start from idle")
	}
	s := e.State()
	if s.Phase != PhaseRunning || s.DurationSeconds != 30 || s.RemainingSeconds != 30 {
		t.Fatalf("unexpected state after start: %+v", s.Phase)
	}
	if !s.StartedAt.Equal(clock.t) || !s.EndedAt.IsZero() {
		t.Fatalf("unexpected timestamps: %v %v", s.StartedAt, s.EndedAt)
	}
	if e.Start(30) {
		t.Fatalf("expected start while running to fail")
	}
	e.Stop()
	if !e.Start(15) {
		t.Fatalf("expected start from finished")
	}
	if e.State().Correct != 0 || e.State().CurrentIndex != 0 {
		t.Fatalf("expected counters reset on start")
	}
}

func TestScenarioVerdicts(t *testing.T) {
	e, _ := newTestEngine(t, 60, "cat", "dog")
	e.Start(60)

	typeWord(e, "cat")
	typeWord(e, "dog")
	res := typeWord(e, "xog")
	if !res.Committed || res.Verdict != model.VerdictWrong || res.Index != 2 {
		t.Fatalf("unexpected result for wrong word: %+v", res)
	}

	s := e.State()
	want := []model.Verdict{model.VerdictCorrect, model.VerdictCorrect, model.VerdictWrong}
	for i, v := range want {
		if s.Verdicts[i] != v {
			t.Fatalf("verdict %d = %v, want %v", i, s.Verdicts[i], v)
		}
	}
	if s.Correct != 2 || s.Wrong != 1 {
		t.Fatalf("expected 2 correct / 1 wrong, got %d/%d", s.Correct, s.Wrong)
	}
	if s.TypedChars != 8 {
		t.Fatalf("expected 8 typed chars, got %d", s.TypedChars)
	}
	if s.Verdicts[3] != model.VerdictPending {
		t.Fatalf("expected next verdict pending")
	}
	checkInvariants(t, e)
}

func TestSpaceWithEmptyInputIsSuppressed(t *testing.T) {
	e, _ := newTestEngine(t, 60)
	e.Start(60)
	for i := 0; i < 3; i++ {
		if res := e.HandleKey(SpaceKey()); res.Committed {
			t.Fatalf("space on empty buffer committed a word")
		}
	}
	s := e.State()
	if s.CurrentIndex != 0 || s.Verdicts[0] != model.VerdictPending {
		t.Fatalf("empty space changed state: index=%d verdict=%v", s.CurrentIndex, s.Verdicts[0])
	}
}

func TestExactMatchOnly(t *testing.T) {
	e, _ := newTestEngine(t, 60, "cat")
	e.Start(60)
	if res := typeWord(e, "cats"); res.Verdict != model.VerdictWrong {
		t.Fatalf("trailing characters should be wrong")
	}
	if res := typeWord(e, "Cat"); res.Verdict != model.VerdictWrong {
		t.Fatalf("matching is case-sensitive")
	}
	if e.State().TypedChars != 0 {
		t.Fatalf("wrong words must not count typed chars")
	}
}

func TestBackspaceEditsBuffer(t *testing.T) {
	e, _ := newTestEngine(t, 60, "cat")
	e.Start(60)
	for _, r := range "cax" {
		e.HandleKey(RuneKey(r))
	}
	e.HandleKey(BackspaceKey())
	e.HandleKey(RuneKey('t'))
	if e.Input() != "cat" {
		t.Fatalf("expected buffer cat, got %q", e.Input())
	}
	if res := e.HandleKey(SpaceKey()); res.Verdict != model.VerdictCorrect {
		t.Fatalf("expected corrected word to be correct")
	}
}

func TestRuneKeySignalsSound(t *testing.T) {
	e, _ := newTestEngine(t, 60)
	if res := e.HandleKey(RuneKey('a')); res.PlaySound {
		t.Fatalf("idle engine must ignore keys")
	}
	if e.Input() != "" {
		t.Fatalf("idle engine must not buffer input")
	}
	e.Start(60)
	if res := e.HandleKey(RuneKey('a')); !res.PlaySound {
		t.Fatalf("expected sound signal for printable key")
	}
	if res := e.HandleKey(RuneKey('\x07')); res.PlaySound {
		t.Fatalf("expected no sound for control rune")
	}
	if res := e.HandleKey(SpaceKey()); res.PlaySound {
		t.Fatalf("space should not signal sound")
	}
}

func TestWindowSlidesAtBoundaries(t *testing.T) {
	e, _ := newTestEngine(t, 60, "cat")
	e.Start(60)
	for i := 1; i <= 9; i++ {
		typeWord(e, "cat")
		s := e.State()
		want := (i / WindowSize) * WindowSize
		if s.WindowStart != want {
			t.Fatalf("after %d words window start = %d, want %d", i, s.WindowStart, want)
		}
		checkInvariants(t, e)
	}
}

func TestStreamExtendsOnLastWord(t *testing.T) {
	e, _ := newTestEngine(t, 60, "cat")
	e.Start(60)
	for i := 0; i < InitialWords-2; i++ {
		typeWord(e, "cat")
	}
	if got := len(e.State().Words); got != InitialWords {
		t.Fatalf("stream grew early: %d", got)
	}
	res := typeWord(e, "cat")
	if !res.Extended {
		t.Fatalf("expected extension when reaching the last word")
	}
	s := e.State()
	if s.CurrentIndex != InitialWords-1 {
		t.Fatalf("expected index %d, got %d", InitialWords-1, s.CurrentIndex)
	}
	if len(s.Words) != InitialWords+ExtendBatch || len(s.Verdicts) != InitialWords+ExtendBatch {
		t.Fatalf("expected %d entries, got %d/%d", InitialWords+ExtendBatch, len(s.Words), len(s.Verdicts))
	}
	for i := InitialWords; i < len(s.Verdicts); i++ {
		if s.Verdicts[i] != model.VerdictPending {
			t.Fatalf("new verdict %d not pending", i)
		}
	}
	for i := 0; i < 120; i++ {
		typeWord(e, "cat")
		checkInvariants(t, e)
	}
}

func TestTickCountdownAndIdempotence(t *testing.T) {
	e, clock := newTestEngine(t, 60)
	if e.Tick() {
		t.Fatalf("tick while idle must be a no-op")
	}
	if e.State().RemainingSeconds != 60 {
		t.Fatalf("idle tick changed remaining seconds")
	}
	e.Start(3)
	clock.advance(time.Second)
	if e.Tick() {
		t.Fatalf("run finished too early")
	}
	clock.advance(time.Second)
	e.Tick()
	clock.advance(time.Second)
	if !e.Tick() {
		t.Fatalf("expected run to finish on last tick")
	}
	s := e.State()
	if s.Phase != PhaseFinished || s.RemainingSeconds != 0 {
		t.Fatalf("unexpected state after timeout: %v %d", s.Phase, s.RemainingSeconds)
	}
	endedAt := s.EndedAt
	clock.advance(5 * time.Second)
	e.Tick()
	e.Stop()
	after := e.State()
	if after.RemainingSeconds != 0 || !after.EndedAt.Equal(endedAt) {
		t.Fatalf("finished run changed: remaining=%d ended=%v", after.RemainingSeconds, after.EndedAt)
	}
	if res := e.HandleKey(RuneKey('x')); res.PlaySound || e.Input() != "" {
		t.Fatalf("finished engine must ignore keys")
	}
}

func TestStopKeepsRemaining(t *testing.T) {
	e, clock := newTestEngine(t, 60)
	e.Start(60)
	e.Tick()
	e.Tick()
	clock.advance(2 * time.Second)
	if !e.Stop() {
		t.Fatalf("expected stop to succeed while running")
	}
	s := e.State()
	if s.Phase != PhaseFinished || s.RemainingSeconds != 58 {
		t.Fatalf("unexpected state after stop: %v %d", s.Phase, s.RemainingSeconds)
	}
	if !s.EndedAt.Equal(clock.t) {
		t.Fatalf("expected end time frozen at stop")
	}
}

func TestRestartReturnsToIdle(t *testing.T) {
	e, _ := newTestEngine(t, 30)
	e.Start(30)
	typeWord(e, "cat")
	e.Stop()
	e.Restart()
	s := e.State()
	if s.Phase != PhaseIdle || s.CurrentIndex != 0 || s.Correct != 0 {
		t.Fatalf("restart did not reset state")
	}
	if !s.StartedAt.IsZero() || !s.EndedAt.IsZero() {
		t.Fatalf("restart did not clear timestamps")
	}
	if s.DurationSeconds != 30 || s.RemainingSeconds != 30 {
		t.Fatalf("restart should keep the configured duration")
	}
}

func TestSetDurationOnlyWhileIdle(t *testing.T) {
	e, _ := newTestEngine(t, 60)
	if !e.SetDuration(15) || e.State().RemainingSeconds != 15 {
		t.Fatalf("expected idle duration change")
	}
	e.Start(15)
	if e.SetDuration(120) {
		t.Fatalf("duration must not change while running")
	}
}

func TestStateIsACopy(t *testing.T) {
	e, _ := newTestEngine(t, 60, "cat")
	e.Start(60)
	s := e.State()
	s.Words[0] = "zzz"
	s.Verdicts[0] = model.VerdictWrong
	if res := typeWord(e, "cat"); res.Verdict != model.VerdictCorrect {
		t.Fatalf("engine state was mutated through a snapshot")
	}
}

func TestSetInputOnlyWhileRunning(t *testing.T) {
	e, _ := newTestEngine(t, 30, "cat")
	if e.SetInput("ca") {
		t.Fatalf("expected SetInput to be rejected while idle")
	}
	e.Start(30)
	if !e.SetInput("ca") {
		t.Fatalf("expected SetInput to succeed while running")
	}
	if e.SetInput("c a") {
		t.Fatalf("expected input with a space to be rejected")
	}
	if got := e.Input(); got != "ca" {
		t.Fatalf("expected input %q, got %q", "ca", got)
	}
	e.HandleKey(RuneKey('t'))
	res := e.HandleKey(SpaceKey())
	if !res.Committed || res.Verdict != model.VerdictCorrect {
		t.Fatalf("expected correct commit, got %+v", res)
	}
}
