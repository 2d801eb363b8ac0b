package tutor

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/session"
	"github.com/abhisek/goat/internal/ui/components"
	"github.com/abhisek/goat/internal/ui/theme"
)

func (s *Screen) loadingView() string {
	if s.mode == session.ModeSolution {
		return s.loadingLine("Working out a solution...")
	}
	return s.loadingLine("Reading your homework...")
}

func (s *Screen) generatingView() string {
	label := "your question"
	if it, ok := s.sess.Selected(); ok {
		label = it.DisplayTitle()
	}
	return s.loadingLine(fmt.Sprintf("Building the steps for %s...", label))
}

func (s *Screen) selectKey(msg tea.KeyMsg) tea.Cmd {
	n := len(s.sess.Items())
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < n-1 {
			s.cursor++
		}
	case "enter":
		return s.dispatch(session.SelectItem{Index: s.cursor})
	case "esc":
		return s.dispatch(session.Back{})
	}
	return nil
}

func (s *Screen) selectView(width int) string {
	cw := components.ContentWidth(width)
	var rows []string
	rows = append(rows, theme.Title.Width(cw).Render("Which question do you want to practise?"))

	for i, it := range s.sess.Items() {
		rows = append(rows, s.itemRow(it, i == s.cursor, cw))
	}
	if msg := s.inlineError(cw); msg != "" {
		rows = append(rows, msg)
	}
	return strings.Join(rows, "\n")
}

func (s *Screen) itemRow(it content.Item, selected bool, cw int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(it.DisplayTitle())
	lines := []string{title}

	if p, ok := it.Pack(); ok {
		labels := make([]string, len(p.SubQuestions))
		for i, q := range p.SubQuestions {
			labels[i] = q.Label
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("Contains %d parts: %s", len(p.SubQuestions), strings.Join(labels, ", "))))
	} else if q, ok := it.Question(); ok {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(q.Text))
	}

	action := "Play this question"
	actionStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan)
	if s.sess.IsCompleted(it) {
		action = "✓ Play Again"
		actionStyle = theme.Done
	}
	lines = append(lines, actionStyle.Render(action))

	border := theme.Border
	if selected {
		border = theme.ArcadeYellow
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (s *Screen) gameKey(msg tea.KeyMsg) tea.Cmd {
	g := s.sess.Game()
	if g == nil {
		return nil
	}
	step, ok := g.Current()
	if !ok {
		return nil
	}
	s.answers.Options = answerTexts(step)

	key := msg.String()
	switch key {
	case "up", "k":
		s.answers.Move(-1)
	case "down", "j":
		s.answers.Move(1)
	case "enter":
		return s.dispatch(session.SubmitAnswer{Index: s.answers.Cursor})
	case "esc":
		return s.dispatch(session.Back{})
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(step.Answers) {
			s.answers.Cursor = n - 1
			return s.dispatch(session.SubmitAnswer{Index: n - 1})
		}
	}
	return nil
}

func answerTexts(step content.Step) []string {
	out := make([]string, len(step.Answers))
	for i, a := range step.Answers {
		out[i] = a.Text
	}
	return out
}

func (s *Screen) gameView(width int) string {
	g := s.sess.Game()
	if g == nil {
		return ""
	}
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, components.NewProgressBar(g.Progress(), cw).View())

	if q, ok := g.Question(); ok && q.Text != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Width(cw).
			Render(q.Text))
	}

	step, ok := g.Current()
	if !ok {
		return strings.Join(sections, "\n\n")
	}
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Step %d of %d", g.StepIndex()+1, g.StepCount())))
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(cw).
		Render(step.Question))

	list := s.answers
	list.Options = answerTexts(step)
	list.Chosen = g.Selected()
	list.ChosenCorrect = g.SelectedCorrect()
	sections = append(sections, list.View())

	if fb := g.Feedback(); fb != "" {
		sections = append(sections, theme.Incorrect.Width(cw).Render(fb))
	} else if list.Chosen >= 0 && list.ChosenCorrect {
		sections = append(sections, theme.Correct.Render("Correct!"))
	}

	if solved := g.SolvedSteps(); len(solved) > 0 {
		sections = append(sections, solvedPath(solved, cw))
	}
	return strings.Join(sections, "\n\n")
}

func solvedPath(steps []string, cw int) string {
	var b strings.Builder
	for i, st := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, st)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Padding(0, 1).
		Render(b.String())
}

func (s *Screen) completeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		return s.dispatch(session.Continue{})
	case "h":
		return s.dispatch(session.GoHome{})
	}
	return nil
}

func (s *Screen) completeView(width int) string {
	cw := components.ContentWidth(width)
	res := s.sess.LastResult()
	if res == nil {
		return ""
	}
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("★ SOLVED! ★"),
	}
	if res.KeySkill != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Text).Render(
			"Key skill: "+lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(res.KeySkill)))
	}
	if len(res.SolvedSteps) > 0 {
		sections = append(sections, solvedPath(res.SolvedSteps, cw))
	}

	if it, ok := s.sess.Selected(); ok {
		var qs []string
		for _, q := range it.Questions() {
			if q.Text != "" {
				qs = append(qs, q.Text)
			}
		}
		if len(qs) > 0 {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(cw).
				Render(strings.Join(qs, "\n")))
		}
	}
	sections = append(sections, components.ArcadeButton("CONTINUE", true, 20))
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(sections, "\n\n"))
}

func (s *Screen) solutionKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		s.solution.ScrollUp(1)
	case "down", "j":
		s.solution.ScrollDown(1)
	case "pgup":
		s.solution.PageUp()
	case "pgdown", "space":
		s.solution.PageDown()
	case "esc", "h":
		return s.dispatch(session.GoHome{})
	}
	return nil
}

func (s *Screen) solutionView(width int) string {
	cw := components.ContentWidth(width)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw + 2).
		Render(s.solution.View())
}
