package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hyperclaw/internal/screen"
	tuitest "github.com/Veraticus/hyperclaw/internal/tui/testing"
	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

func TestOrderFormModel_Defaults(t *testing.T) {
	form := NewOrderFormModel(themes.Default, screen.DefaultOrderForm())
	assert.Equal(t, screen.DefaultOrderForm(), form.Values())
	assert.False(t, form.Editing())
}

func TestOrderFormModel_Navigation(t *testing.T) {
	form := NewOrderFormModel(themes.Default, screen.DefaultOrderForm())
	form.Focus()
	require.True(t, form.Editing())
	assert.Equal(t, FieldSymbol, form.Focused())

	tests := []struct {
		name string
		keys []string
		want int
	}{
		{name: "tab moves forward", keys: []string{"tab"}, want: FieldSide},
		{name: "down moves forward", keys: []string{"down", "down"}, want: FieldExecution},
		{name: "shift+tab moves back", keys: []string{"shift+tab"}, want: FieldExecution - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				switch k {
				case "tab":
					form, _ = form.Update(tuitest.KeyTab())
				case "shift+tab":
					form, _ = form.Update(tuitest.KeyShiftTab())
				case "down":
					form, _ = form.Update(keyDown())
				}
			}
			assert.Equal(t, tt.want, form.Focused())
		})
	}
}

func TestOrderFormModel_TypeAndSubmit(t *testing.T) {
	form := NewOrderFormModel(themes.Default, screen.DefaultOrderForm())
	form.SetValue(FieldSymbol, "")
	form.Focus()

	for _, msg := range tuitest.TypeText("eth") {
		form, _ = form.Update(msg)
	}

	form, cmd := form.Update(tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.False(t, form.Editing())

	msg, ok := cmd().(OrderSubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "eth", msg.Form.Symbol)
	assert.Equal(t, "0.002", msg.Form.Size)

	req, err := msg.Form.Request()
	require.NoError(t, err)
	assert.Equal(t, "ETH", req.Symbol)
}

func TestOrderFormModel_Escape(t *testing.T) {
	form := NewOrderFormModel(themes.Default, screen.DefaultOrderForm())
	form.Focus()

	form, cmd := form.Update(tuitest.KeyEsc())
	assert.False(t, form.Editing())
	require.NotNil(t, cmd)
	assert.Equal(t, OrderEditDoneMsg{}, cmd())
}

func TestOrderFormModel_View(t *testing.T) {
	form := NewOrderFormModel(themes.Default, screen.DefaultOrderForm())

	disabled := tuitest.StripANSI(form.View(false, "approve the trading agent first"))
	assert.Contains(t, disabled, "approve the trading agent first")
	assert.Contains(t, disabled, "Stop loss")

	enabled := tuitest.StripANSI(form.View(true, ""))
	assert.Contains(t, enabled, "e: edit ticket")
	assert.Contains(t, enabled, "100800")
}
