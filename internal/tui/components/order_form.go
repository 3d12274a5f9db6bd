package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

// Order ticket fields in display order.
const (
	FieldSymbol = iota
	FieldSide
	FieldType
	FieldExecution
	FieldSize
	FieldEntry
	FieldStopLoss
	FieldTakeProfit
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Symbol",
	"Side",
	"Type",
	"Execution",
	"Size",
	"Entry",
	"Stop loss",
	"Take profit",
}

// OrderFormModel is the editable order ticket.
type OrderFormModel struct {
	theme   themes.Theme
	inputs  []textinput.Model
	focus   int
	editing bool
}

// NewOrderFormModel creates a ticket prefilled with defaults.
func NewOrderFormModel(theme themes.Theme, defaults screen.OrderForm) OrderFormModel {
	values := [fieldCount]string{
		defaults.Symbol,
		defaults.Side,
		defaults.OrderType,
		defaults.Execution,
		defaults.Size,
		defaults.EntryPrice,
		defaults.StopLoss,
		defaults.TakeProfit,
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 32
		in.SetValue(values[i])
		inputs[i] = in
	}

	return OrderFormModel{
		theme:  theme,
		inputs: inputs,
	}
}

// Update handles ticket editing. Enter submits the ticket, Esc leaves it.
func (m OrderFormModel) Update(msg tea.Msg) (OrderFormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.editing {
		return m, nil
	}

	switch key.String() {
	case "enter":
		form := m.Values()
		m.Blur()
		return m, func() tea.Msg { return OrderSubmitMsg{Form: form} }
	case "esc":
		m.Blur()
		return m, func() tea.Msg { return OrderEditDoneMsg{} }
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// Focus starts editing at the first field.
func (m *OrderFormModel) Focus() tea.Cmd {
	m.editing = true
	return m.setFocus(m.focus)
}

// Blur stops editing.
func (m *OrderFormModel) Blur() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// Editing reports whether keystrokes belong to the ticket.
func (m OrderFormModel) Editing() bool {
	return m.editing
}

// Focused returns the index of the focused field.
func (m OrderFormModel) Focused() int {
	return m.focus
}

func (m *OrderFormModel) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// SetValue replaces the value of field i.
func (m *OrderFormModel) SetValue(i int, value string) {
	if i >= 0 && i < fieldCount {
		m.inputs[i].SetValue(value)
	}
}

// Values returns the raw ticket.
func (m OrderFormModel) Values() screen.OrderForm {
	return screen.OrderForm{
		Symbol:     m.inputs[FieldSymbol].Value(),
		Side:       m.inputs[FieldSide].Value(),
		OrderType:  m.inputs[FieldType].Value(),
		Execution:  m.inputs[FieldExecution].Value(),
		Size:       m.inputs[FieldSize].Value(),
		EntryPrice: m.inputs[FieldEntry].Value(),
		StopLoss:   m.inputs[FieldStopLoss].Value(),
		TakeProfit: m.inputs[FieldTakeProfit].Value(),
	}
}

// View renders the ticket. A disabled ticket is shown with reason.
func (m OrderFormModel) View(enabled bool, reason string) string {
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Order ticket"))
	b.WriteString("\n")

	for i, in := range m.inputs {
		label := fmt.Sprintf("%-12s", fieldLabels[i])
		if m.editing && i == m.focus {
			label = m.theme.Selected.Render(label)
		}
		fmt.Fprintf(&b, "%s %s\n", label, in.View())
	}

	b.WriteString("\n")
	switch {
	case !enabled:
		b.WriteString(m.theme.StatusWarning.Render(reason))
	case m.editing:
		b.WriteString(m.theme.Subtitle.Render("tab: next field  enter: place order  esc: done"))
	default:
		b.WriteString(m.theme.Subtitle.Render("e: edit ticket  enter: place order"))
	}

	return m.theme.RoundedBox.Render(b.String())
}
