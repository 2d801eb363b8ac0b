package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/ui/theme"
)

const (
	maxContentWidth = 60
	minContentWidth = 20
)

// ContentWidth is the inner width every section of a cabinet screen is drawn
// at, so their borders line up. It leaves room for the cabinet border and
// padding.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// CabinetFrame centres content inside a double border filling width x height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard is a padded, rounded card cw columns wide.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)
}

// ArcadeButton is a bordered label; the selected one lights up yellow.
func ArcadeButton(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())
	if !selected {
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
	return style.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		BorderForeground(theme.ArcadeYellow).
		Render("▸ " + label)
}

// ArcadeMenu stacks labels as ArcadeButtons, centred in cw columns.
func ArcadeMenu(labels []string, selected, cw int) string {
	bw := min(max(cw-16, 12), 26)
	buttons := make([]string, len(labels))
	for i, label := range labels {
		buttons[i] = ArcadeButton(label, i == selected, bw)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, buttons...))
}
