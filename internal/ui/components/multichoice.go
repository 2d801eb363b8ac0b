package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/ui/theme"
)

// AnswerList renders the answers of one step. Cursor is the highlighted row
// while the learner picks; Chosen is the submitted row, or -1.
type AnswerList struct {
	Options       []string
	Cursor        int
	Chosen        int
	ChosenCorrect bool
}

// NewAnswerList creates a list with the cursor on the first option.
func NewAnswerList(options []string) AnswerList {
	return AnswerList{Options: options, Chosen: -1}
}

// Move shifts the cursor by delta, clamped to the options.
func (a *AnswerList) Move(delta int) {
	a.Cursor += delta
	if a.Cursor < 0 {
		a.Cursor = 0
	}
	if a.Cursor > len(a.Options)-1 {
		a.Cursor = len(a.Options) - 1
	}
}

// View renders the list, numbered from 1.
func (a AnswerList) View() string {
	var b strings.Builder
	for i, opt := range a.Options {
		prefix := "  "
		if i == a.Cursor && a.Chosen < 0 {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == a.Chosen && a.ChosenCorrect:
			style = theme.Correct
			line += "  ✓"
		case i == a.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case a.Chosen >= 0:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == a.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
