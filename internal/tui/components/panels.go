package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

// RenderWallet summarizes a wallet session.
func RenderWallet(theme themes.Theme, w model.WalletSession) string {
	if !w.Connected {
		return theme.StatusWarning.Render("Wallet not connected")
	}
	lines := []string{
		"Wallet   " + theme.Code.Render(shortAddress(w.Address)),
	}
	if w.AgentApproved {
		lines = append(lines, "Agent    "+theme.StatusSuccess.Render("approved")+" "+theme.Subtitle.Render(w.AgentPubKey))
	} else {
		lines = append(lines, "Agent    "+theme.StatusWarning.Render("not approved"))
	}
	return strings.Join(lines, "\n")
}

// RenderOverview renders the dashboard.
func RenderOverview(theme themes.Theme, st screen.OverviewState) string {
	acct := st.Account.State
	account := []string{
		theme.Bold.Render("Account"),
		fmt.Sprintf("Equity    %s", acct.Equity.StringFixed(2)),
		fmt.Sprintf("Open PnL  %s", theme.PnL(acct.OpenPnL)),
		fmt.Sprintf("Leverage  %sx", acct.Leverage.String()),
		fmt.Sprintf("Bias      %s", st.Account.Bias),
	}

	strategy := []string{
		theme.Bold.Render("Strategy"),
		fmt.Sprintf("Runtime   %s", st.Status.RuntimeStatus),
		fmt.Sprintf("Auto      %s", onOff(theme, st.Status.AutoTrading)),
		fmt.Sprintf("Signal    %s", orDash(st.Status.LastSignal)),
	}
	if st.Status.LastError != "" {
		strategy = append(strategy, theme.StatusError.Render("Error     "+st.Status.LastError))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			theme.RoundedBox.Render(strings.Join(account, "\n")),
			theme.RoundedBox.Render(strings.Join(strategy, "\n")),
		),
		theme.RoundedBox.Render(RenderWallet(theme, st.Wallet)),
	)
}

// RenderStrategy renders the strategy page. canToggle reflects the
// auto-trading gate.
func RenderStrategy(theme themes.Theme, st screen.StrategyState, canToggle bool) string {
	var biases []string
	for _, b := range model.Biases {
		if b == st.Status.Bias {
			biases = append(biases, theme.Selected.Render(" "+string(b)+" "))
			continue
		}
		biases = append(biases, theme.Normal.Render(" "+string(b)+" "))
	}

	toggle := onOff(theme, st.Status.AutoTrading)
	if !canToggle {
		toggle += "  " + theme.DisabledStyle.Render("approve the agent to enable")
	}

	status := []string{
		theme.Bold.Render("Strategy"),
		"Bias      " + strings.Join(biases, " "),
		"Auto      " + toggle,
		"Runtime   " + st.Status.RuntimeStatus,
		"Signal    " + orDash(st.Status.LastSignal),
	}
	if st.Status.LastError != "" {
		status = append(status, theme.StatusError.Render("Error     "+st.Status.LastError))
	}
	status = append(status, "", theme.Subtitle.Render("l/s/h: long/short/hybrid  a: toggle auto-trading"))

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.RoundedBox.Render(strings.Join(status, "\n")),
		RenderDerives(theme, st.Derives),
	)
}

// RenderDerives renders the derived strategy analytics.
func RenderDerives(theme themes.Theme, derives []model.StrategyDerive) string {
	if len(derives) == 0 {
		return theme.RoundedBox.Render(theme.StatusPending.Render("No derived strategies yet"))
	}
	lines := []string{theme.Bold.Render("Derived strategies")}
	for _, d := range derives {
		lines = append(lines,
			fmt.Sprintf("%s  %s", theme.Bold.Render(d.Name), theme.Subtitle.Render("from "+d.BaseStrategy)),
			fmt.Sprintf("  win %.0f%%  pnl ratio %.2f  when %s", d.WinRate*100, d.PnLRatio, d.Condition),
			"  "+d.Recommendation,
		)
	}
	return theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

// RenderOrders renders the recent order list.
func RenderOrders(theme themes.Theme, orders []model.Order, lastID int64) string {
	if len(orders) == 0 {
		return theme.RoundedBox.Render(theme.StatusPending.Render("No orders yet"))
	}
	lines := []string{theme.Bold.Render("Recent orders")}
	for _, o := range orders {
		line := fmt.Sprintf("#%-5d %-6s %-4s %-6s %s @ %s  %s  %s",
			o.ID, o.Symbol, o.Side, o.OrderType, o.Size.String(), o.EntryPrice.String(), o.Execution, o.Status)
		if o.ID == lastID {
			line = theme.StatusSuccess.Render(line)
		}
		lines = append(lines, line)
	}
	return theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

// RenderMe renders the wallet page. signerAddress is the configured
// signing wallet, empty when none is configured.
func RenderMe(theme themes.Theme, st screen.MeState, signerAddress string, canApprove bool) string {
	lines := []string{theme.Bold.Render("Wallet session"), RenderWallet(theme, st.Wallet), ""}

	if signerAddress == "" {
		lines = append(lines, theme.StatusWarning.Render("No signing wallet configured"))
	} else {
		lines = append(lines, "Signer   "+theme.Code.Render(shortAddress(signerAddress)))
	}

	lines = append(lines, "")
	actions := "w: bind wallet"
	if canApprove {
		actions += "  a: approve agent"
	} else {
		actions += "  " + theme.DisabledStyle.Render("a: approve agent")
	}
	lines = append(lines, theme.Subtitle.Render(actions))

	return theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func onOff(theme themes.Theme, on bool) string {
	if on {
		return theme.StatusSuccess.Render("on")
	}
	return theme.StatusPending.Render("off")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
