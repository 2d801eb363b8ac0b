// Package theme holds the arcade-cabinet palette and the shared styles.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Cabinet colours.
var (
	Primary   = lipgloss.Color("#A855F7")
	Secondary = lipgloss.Color("#2DD4BF")
	Accent    = lipgloss.Color("#FB923C")
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#FB7185")

	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#0B1120")
	BgCard  = lipgloss.Color("#1E293B")
	Border  = lipgloss.Color("#334155")

	// Marquee lights.
	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

var (
	Title    = lipgloss.NewStyle().Foreground(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Notice   = lipgloss.NewStyle().Foreground(ArcadeCyan).Bold(true)
)

// Answer and list row states.
var (
	Selected  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Done      = lipgloss.NewStyle().Foreground(Success)
)

var ButtonActive = lipgloss.NewStyle().
	Background(Primary).
	Foreground(Text).
	Bold(true).
	Padding(0, 2)
