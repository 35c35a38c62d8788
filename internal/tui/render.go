package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typotester/internal/engine"
	"github.com/verte-zerg/typotester/internal/model"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func buildWindowRunes(words []engine.WindowWord, input string) []styledRune {
	inputRunes := []rune(input)
	out := make([]styledRune, 0, len(words)*8)
	for i, w := range words {
		if i > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		if w.Active {
			out = append(out, buildActiveRunes([]rune(w.Word), inputRunes)...)
			continue
		}
		style := verdictStyle(w.Verdict)
		for _, r := range w.Word {
			out = append(out, styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)})
		}
	}
	return out
}

// buildActiveRunes styles the word being typed: matching prefix, mismatches,
// the untyped rest with the cursor on the next rune, and overflow input.
func buildActiveRunes(target, input []rune) []styledRune {
	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		style := currentWordStyle
		if i < len(input) {
			if input[i] == r {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		}
		if i == len(input) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)})
	}
	for _, r := range input[min(len(input), len(target)):] {
		out = append(out, styledRune{s: overflowStyle.Render(string(r)), width: runewidth.RuneWidth(r)})
	}
	return out
}

func verdictStyle(v model.Verdict) lipgloss.Style {
	switch v {
	case model.VerdictCorrect:
		return correctStyle
	case model.VerdictWrong:
		return incorrectStyle
	default:
		return pendingStyle
	}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
