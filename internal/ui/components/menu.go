package components

import (
	tea "charm.land/bubbletea/v2"
)

// MenuItem is one entry of an arcade menu.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu is a vertical arcade menu. Navigation wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items ...MenuItem) Menu {
	return Menu{Items: items}
}

// Labels returns the item labels in display order.
func (m Menu) Labels() []string {
	labels := make([]string, len(m.Items))
	for i, it := range m.Items {
		labels[i] = it.Label
	}
	return labels
}

// Update moves the selection on up/down and runs the selected action on
// enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	n := len(m.Items)
	if !ok || n == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.Selected = (m.Selected - 1 + n) % n
	case "down", "j":
		m.Selected = (m.Selected + 1) % n
	case "enter":
		if act := m.Items[m.Selected].Action; act != nil {
			return m, act()
		}
	}
	return m, nil
}

// View renders the menu as centred arcade buttons within cw columns.
func (m Menu) View(cw int) string {
	return ArcadeMenu(m.Labels(), m.Selected, cw)
}
