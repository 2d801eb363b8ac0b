package tutor

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/net/html"

	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/ui/theme"
)

// chartConfig is the part of a Chart.js config the terminal can show.
type chartConfig struct {
	Type string `json:"type"`
	Data struct {
		Labels   []any `json:"labels"`
		Datasets []struct {
			Label string `json:"label"`
			Data  []any  `json:"data"`
		} `json:"datasets"`
	} `json:"data"`
	Options struct {
		Plugins struct {
			Title struct {
				Text any `json:"text"`
			} `json:"title"`
		} `json:"plugins"`
	} `json:"options"`
}

// renderVisual draws a lesson visual as terminal text. Formulas and HTML are
// shown as text and charts as a table. Anything unreadable renders nothing.
func renderVisual(v *content.VisualSpec, cw int) string {
	if v == nil || len(v.Data) == 0 {
		return ""
	}

	var body string
	switch v.Type {
	case content.VisualLatex:
		var d struct {
			Latex string `json:"latex"`
		}
		if json.Unmarshal(v.Data, &d) != nil {
			return ""
		}
		body = lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(d.Latex)
	case content.VisualHTML:
		var d struct {
			HTML string `json:"html"`
		}
		if json.Unmarshal(v.Data, &d) != nil {
			return ""
		}
		body = htmlText(d.HTML)
	case content.VisualChart:
		var c chartConfig
		if json.Unmarshal(v.Data, &c) != nil {
			return ""
		}
		body = chartTable(c)
	}
	if strings.TrimSpace(body) == "" {
		return ""
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Padding(0, 1).
		Render(body)
}

// htmlText returns the text content of an HTML fragment.
func htmlText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or a malformed tail; either way the text so far is it.
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				b.WriteString("\n")
			}
		}
	}
}

func chartTable(c chartConfig) string {
	var lines []string
	if t, ok := c.Options.Plugins.Title.Text.(string); ok && t != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(t))
	} else if c.Type != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(c.Type+" chart"))
	}
	if len(c.Data.Labels) == 0 || len(c.Data.Datasets) == 0 {
		return strings.Join(lines, "\n")
	}

	labelWidth := 0
	for _, l := range c.Data.Labels {
		labelWidth = max(labelWidth, len(fmt.Sprint(l)))
	}

	header := strings.Repeat(" ", labelWidth)
	for _, ds := range c.Data.Datasets {
		header += "  " + ds.Label
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(header))

	for i, l := range c.Data.Labels {
		row := fmt.Sprintf("%-*s", labelWidth, fmt.Sprint(l))
		for _, ds := range c.Data.Datasets {
			val := ""
			if i < len(ds.Data) {
				val = fmt.Sprint(ds.Data[i])
			}
			row += fmt.Sprintf("  %*s", len(ds.Label), val)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}
