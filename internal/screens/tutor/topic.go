package tutor

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/session"
	"github.com/abhisek/goat/internal/ui/components"
	"github.com/abhisek/goat/internal/ui/theme"
)

func (s *Screen) intakeKey(msg tea.KeyMsg) tea.Cmd {
	if s.sess.Busy() != session.BusyNone {
		if msg.String() == "esc" {
			return s.dispatch(session.Back{})
		}
		return nil
	}
	switch msg.String() {
	case "enter":
		return s.dispatch(session.SubmitPainPoint{Text: s.intake.Value()})
	case "esc":
		return s.dispatch(session.Back{})
	}
	var cmd tea.Cmd
	s.intake, cmd = s.intake.Update(msg)
	return cmd
}

func (s *Screen) intakeView(width int) string {
	cw := components.ContentWidth(width)
	sections := []string{
		theme.Title.Width(cw).Render("What would you like to master?"),
		theme.Subtitle.Width(cw).Render("Describe the topic or the part that keeps tripping you up."),
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeCyan).
			Width(cw - 2).
			Render(s.intake.View()),
	}
	if s.sess.Busy() == session.BusyCurriculum {
		sections = append(sections, s.loadingLine("Building your learning path..."))
	}
	if msg := s.inlineError(cw); msg != "" {
		sections = append(sections, msg)
	}
	return strings.Join(sections, "\n\n")
}

func (s *Screen) curriculumKey(msg tea.KeyMsg) tea.Cmd {
	c := s.sess.Curriculum()
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(c)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(c) {
			return s.dispatch(session.SelectObjective{ID: c[s.cursor].ID})
		}
	case "esc":
		return s.dispatch(session.Back{})
	}
	return nil
}

func (s *Screen) curriculumView(width int) string {
	cw := components.ContentWidth(width)
	c := s.sess.Curriculum()
	mastered := s.sess.Mastered()

	done := 0
	for _, o := range c {
		if mastered.Has(o.ID) {
			done++
		}
	}

	sections := []string{
		theme.Title.Width(cw).Render(s.sess.PainPoint()),
		theme.Subtitle.Width(cw).Render(fmt.Sprintf("%d of %d mastered", done, len(c))),
	}

	var rows []string
	for i, o := range c {
		mark := "○"
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if mastered.Has(o.ID) {
			mark = "✓"
			style = theme.Done
		}
		prefix := "  "
		if i == s.cursor {
			prefix = "▸ "
			style = style.Bold(true)
			if !mastered.Has(o.ID) {
				style = theme.Selected
			}
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", prefix, mark, o.Title)))
	}
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(0, 1).
		Render(strings.Join(rows, "\n")))

	if s.sess.Busy() == session.BusyQuiz {
		sections = append(sections, s.loadingLine("Preparing your mastery quiz..."))
	}
	if n := s.sess.Notice(); n != "" {
		sections = append(sections, theme.Notice.Width(cw).Render(n))
	}
	if msg := s.inlineError(cw); msg != "" {
		sections = append(sections, msg)
	}
	return strings.Join(sections, "\n\n")
}

func (s *Screen) lessonKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		return s.dispatch(session.BackToCurriculum{})
	}
	if s.sess.Busy() != session.BusyNone {
		return nil
	}
	if s.sess.Lesson() == nil {
		if msg.String() == "r" || msg.String() == "enter" {
			return s.dispatch(session.RetryLesson{})
		}
		return nil
	}
	if msg.String() == "enter" {
		return s.dispatch(session.SubmitLessonAnswer{Answer: s.answer.Value()})
	}
	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(msg)
	return cmd
}

func (s *Screen) lessonView(width int) string {
	cw := components.ContentWidth(width)
	if s.sess.Busy() == session.BusyLesson {
		return s.loadingLine("Preparing your lesson...")
	}

	l := s.sess.Lesson()
	if l == nil {
		sections := []string{}
		if msg := s.inlineError(cw); msg != "" {
			sections = append(sections, msg)
		}
		sections = append(sections, theme.Hint.Render("Press r to try again, Esc to go back."))
		return strings.Join(sections, "\n\n")
	}

	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(l.Lesson),
	}
	if v := renderVisual(s.sess.Visual(), cw); v != "" {
		sections = append(sections, v)
	}
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ArcadeYellow).
		Width(cw-2).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("Challenge")+"\n"+s.sess.Challenge()))

	if fb := s.sess.Feedback(); fb != "" {
		sections = append(sections, theme.Incorrect.Width(cw).Render(fb))
	}
	if s.sess.Busy() == session.BusyEvaluation {
		sections = append(sections, s.loadingLine("Checking your answer..."))
	} else {
		sections = append(sections, s.answer.View())
	}
	if msg := s.inlineError(cw); msg != "" {
		sections = append(sections, msg)
	}
	return strings.Join(sections, "\n\n")
}
