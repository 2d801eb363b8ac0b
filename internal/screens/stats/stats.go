package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/router"
	"github.com/abhisek/goat/internal/screen"
	"github.com/abhisek/goat/internal/store"
	"github.com/abhisek/goat/internal/ui/components"
	"github.com/abhisek/goat/internal/ui/layout"
	"github.com/abhisek/goat/internal/ui/theme"
)

// recentLimit is how many recent events the screen lists.
const recentLimit = 50

type statsLoadedMsg struct {
	Metrics analytics.Metrics
	Recent  []store.AnalyticsEvent
	Err     error
}

// StatsScreen shows usage metrics and the most recent tracked events.
type StatsScreen struct {
	eventRepo store.EventRepo
	metrics   analytics.Metrics
	recent    []store.AnalyticsEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a new StatsScreen.
func New(eventRepo store.EventRepo) *StatsScreen {
	return &StatsScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *StatsScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()

		m, err := analytics.Load(ctx, repo)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		recent, err := repo.QueryAnalyticsEvents(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return statsLoadedMsg{Metrics: m}
		}
		return statsLoadedMsg{Metrics: m, Recent: recent}
	}
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.metrics = msg.Metrics
			s.recent = msg.Recent
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.recent)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading stats...")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, metricsCard(s.metrics, cw)))
	b.WriteString("\n\n")

	if len(s.recent) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("No events yet. Go solve some homework!")))
		return b.String()
	}

	// Leave room for the metrics card above.
	rows := max(height-16, 3)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	for i := start; i < len(s.recent) && i < start+rows; i++ {
		ev := s.recent[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-22s", prefix, ev.Timestamp.Local().Format("Jan 02 15:04:05"), ev.Name)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			props := string(ev.Properties)
			if props == "" {
				props = "{}"
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+props)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func metricsCard(m analytics.Metrics, cw int) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)

	row := func(name string, v any) string {
		return label.Render(fmt.Sprintf("%-20s", name)) + value.Render(fmt.Sprint(v))
	}
	lines := []string{
		row("Sessions", m.SessionStarts),
		row("Games started", m.GameStarts),
		row("Games completed", m.GamesCompleted),
		row("Solutions", m.SolutionRequests),
		row("Photo uploads", m.ImageUploads),
		row("Typed homework", m.TextInputs),
		row("Topics started", m.TopicsStarted),
		row("Objectives mastered", m.ObjectivesMastered),
		row("Avg session", formatSeconds(m.AvgSessionTimeSeconds)),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func formatSeconds(secs float64) string {
	total := int(secs + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
