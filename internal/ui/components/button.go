package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/goat/internal/ui/theme"
)

// Button is a single focused action, pressed with enter or space.
type Button struct {
	Label   string
	OnPress func() tea.Cmd
}

func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, OnPress: onPress}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || b.OnPress == nil {
		return b, nil
	}
	switch key.String() {
	case "enter", "space":
		return b, b.OnPress()
	}
	return b, nil
}

func (b Button) View() string {
	return theme.ButtonActive.Render("▸ " + b.Label)
}
