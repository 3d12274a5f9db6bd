package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/tui/components"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).Render("🦞 HyperClaw "),
		components.RenderTabs(m.theme, screen.Names, m.tab),
	)

	sections := []string{header, "", m.renderBody()}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, "", status)
	}
	sections = append(sections, "", m.help.View(m.keymap))

	return lipgloss.NewStyle().MaxWidth(max(m.width, 40)).Render(strings.Join(sections, "\n"))
}

func (m Model) renderBody() string {
	s := m.screens
	switch {
	case s.overview != nil:
		return components.RenderOverview(m.theme, s.overview.Snapshot())
	case s.strategy != nil:
		return components.RenderStrategy(m.theme, s.strategy.Snapshot(), s.strategy.CanToggleAutoTrading())
	case s.trade != nil:
		st := s.trade.Snapshot()
		reason := common.UserMessage(gate.CheckTrade(st.Wallet), "")
		return lipgloss.JoinVertical(lipgloss.Left,
			components.RenderWallet(m.theme, st.Wallet),
			m.orderForm.View(s.trade.CanTrade(), reason),
			components.RenderOrders(m.theme, st.Orders, s.trade.LastOrderID()),
		)
	case s.review != nil:
		return m.deck.View(s.review.Session(), s.review.Tags(), s.review.NewFills())
	case s.me != nil:
		address := ""
		if m.config.Signer != nil {
			address = m.config.Signer.Address()
		}
		return components.RenderMe(m.theme, s.me.Snapshot(), address, s.me.CanApproveAgent())
	}
	return m.theme.StatusPending.Render("Loading...")
}

// renderStatus shows the screen's busy or error state, then the last
// notice.
func (m Model) renderStatus() string {
	active := m.screens.current()
	var lines []string
	if active != nil {
		if active.Busy() {
			lines = append(lines, m.theme.StatusPending.Render("Working..."))
		}
		if msg := active.Err(); msg != "" && msg != m.notice {
			lines = append(lines, m.theme.StatusError.Render("✗ "+msg))
		}
	}
	if m.notice != "" {
		if m.noticeErr {
			lines = append(lines, m.theme.StatusError.Render("✗ "+m.notice))
		} else {
			lines = append(lines, m.theme.StatusSuccess.Render("✓ "+m.notice))
		}
	}
	return strings.Join(lines, "\n")
}
