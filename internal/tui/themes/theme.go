// Package themes defines the console's visual styles.
package themes

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	Code          lipgloss.Style
	RoundedBox    lipgloss.Style
	ActiveCard    lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	DisabledStyle lipgloss.Style
	Box           lipgloss.Style
	Profit        lipgloss.Color
	Loss          lipgloss.Color
	Secondary     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = build(palette{
	primary:    "#f97316",
	secondary:  "#fdba74",
	success:    "#10b981",
	warning:    "#f59e0b",
	errColor:   "#ef4444",
	info:       "#3b82f6",
	foreground: "#fafafa",
	subtle:     "#a3a3a3",
	border:     "#404040",
	muted:      "#737373",
	code:       "#262626",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:    "#fab387",
	secondary:  "#f5c2e7",
	success:    "#a6e3a1",
	warning:    "#f9e2af",
	errColor:   "#f38ba8",
	info:       "#89dceb",
	foreground: "#cdd6f4",
	subtle:     "#a6adc8",
	border:     "#45475a",
	muted:      "#6c7086",
	code:       "#313244",
})

type palette struct {
	primary    string
	secondary  string
	success    string
	warning    string
	errColor   string
	info       string
	foreground string
	subtle     string
	border     string
	muted      string
	code       string
}

func build(p palette) Theme {
	return Theme{
		Primary:    lipgloss.Color(p.primary),
		Secondary:  lipgloss.Color(p.secondary),
		Success:    lipgloss.Color(p.success),
		Profit:     lipgloss.Color(p.success),
		Warning:    lipgloss.Color(p.warning),
		Error:      lipgloss.Color(p.errColor),
		Loss:       lipgloss.Color(p.errColor),
		Info:       lipgloss.Color(p.info),
		Foreground: lipgloss.Color(p.foreground),
		Border:     lipgloss.Color(p.border),
		Muted:      lipgloss.Color(p.muted),

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.foreground)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.foreground)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.foreground)),
		Italic: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(p.foreground)),
		Code: lipgloss.NewStyle().
			Background(lipgloss.Color(p.code)).
			Foreground(lipgloss.Color(p.foreground)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.code)).
			Bold(true),
		DisabledStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Strikethrough(true),

		// Component styles
		Box: lipgloss.NewStyle().
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		ActiveCard: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(p.primary)).
			Padding(1, 2),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.primary)).
			Bold(true).
			Underline(true).
			Padding(0, 2),

		// Status styles
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Italic(true),
	}
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// PnL renders a signed amount in the profit or loss color.
func (t Theme) PnL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsNegative() {
		return lipgloss.NewStyle().Foreground(t.Loss).Render(s)
	}
	return lipgloss.NewStyle().Foreground(t.Profit).Render("+" + s)
}
