package engine

import "github.com/verte-zerg/typotester/internal/model"

// WindowWord is one visible word with its verdict.
type WindowWord struct {
	Index   int
	Word    string
	Verdict model.Verdict
	Active  bool
}

// Window returns words[start:start+size] clipped to the stream, paired with
// their verdicts. The word at current is marked active.
func Window(words []string, verdicts []model.Verdict, start, current, size int) []WindowWord {
	if start < 0 || size <= 0 || start >= len(words) {
		return nil
	}
	end := start + size
	if end > len(words) {
		end = len(words)
	}
	out := make([]WindowWord, 0, end-start)
	for i := start; i < end; i++ {
		verdict := model.VerdictPending
		if i < len(verdicts) {
			verdict = verdicts[i]
		}
		out = append(out, WindowWord{
			Index:   i,
			Word:    words[i],
			Verdict: verdict,
			Active:  i == current,
		})
	}
	return out
}

// Visible returns the window for the state's current position.
func (s *RunState) Visible() []WindowWord {
	return Window(s.Words, s.Verdicts, s.WindowStart, s.CurrentIndex, WindowSize)
}
