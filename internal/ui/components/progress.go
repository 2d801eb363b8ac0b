package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/ui/theme"
)

// ProgressBar is a block meter with the percentage on its right.
type ProgressBar struct {
	// Percent is in [0, 100]; values outside are clamped.
	Percent float64
	Width   int
}

func NewProgressBar(percent float64, width int) ProgressBar {
	return ProgressBar{Percent: percent, Width: width}
}

func (p ProgressBar) View() string {
	pct := min(max(p.Percent, 0), 100)
	label := fmt.Sprintf(" %3d%%", int(pct))

	barWidth := max(p.Width-lipgloss.Width(label), 4)
	filled := int(float64(barWidth) * pct / 100)

	return lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
