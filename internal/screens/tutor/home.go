package tutor

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/generation"
	"github.com/abhisek/goat/internal/session"
	"github.com/abhisek/goat/internal/ui/components"
	"github.com/abhisek/goat/internal/ui/theme"
)

const homeTitleFull = ` ██████╗  ██████╗  █████╗ ████████╗
██╔════╝ ██╔═══██╗██╔══██╗╚══██╔══╝
██║  ███╗██║   ██║███████║   ██║
██║   ██║██║   ██║██╔══██║   ██║
╚██████╔╝╚██████╔╝██║  ██║   ██║
 ╚═════╝  ╚═════╝ ╚═╝  ╚═╝   ╚═╝`

const homeTitleCompact = "G · O · A · T"

// submitHomework reads the home input and hands it to the session. A photo
// that cannot be read is reported next to the input.
func (s *Screen) submitHomework(mode session.Mode) tea.Cmd {
	hw, err := generation.ParseInput(s.input.Value())
	if err != nil {
		s.inputErr = err.Error()
		return nil
	}
	s.inputErr = ""
	s.mode = mode
	return s.dispatch(session.SubmitHomework{Homework: hw, Mode: mode})
}

func (s *Screen) homeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "down", "enter":
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return cmd
	case "esc":
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *Screen) homeView(width, height int) string {
	compact := height < 22 || width < 100
	cw := components.ContentWidth(width)

	titleStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	title := homeTitleFull
	if compact {
		title = homeTitleCompact
	}
	sections := []string{
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(titleStyle.Render(title)),
	}

	if n := s.sess.Notice(); n != "" {
		sections = append(sections, theme.Notice.Width(cw).Align(lipgloss.Center).Render(n))
	}

	prompt := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Your homework")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Padding(0, 1).
		Render(prompt + "\n" + s.input.View())
	sections = append(sections, box)

	errMsg := s.inputErr
	if errMsg == "" {
		errMsg = s.sess.ErrorMessage()
	}
	if errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Width(cw).
			Align(lipgloss.Center).
			Render(errMsg))
	}

	sections = append(sections, s.menu.View(cw))
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
