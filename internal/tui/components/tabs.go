package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

// RenderTabs renders the tab bar with the active tab highlighted.
func RenderTabs(theme themes.Theme, names []string, active int) string {
	tabs := make([]string, 0, len(names))
	for i, name := range names {
		label := strings.ToUpper(name[:1]) + name[1:]
		if i == active {
			tabs = append(tabs, theme.ActiveTab.Render(label))
			continue
		}
		tabs = append(tabs, theme.Tab.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
