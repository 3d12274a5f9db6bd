package testing

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "good", StripANSI("\x1b[1;32mgood\x1b[0m"))
}

func TestContainsInOrder(t *testing.T) {
	assert.True(t, ContainsInOrder("a b c", "a", "c"))
	assert.False(t, ContainsInOrder("a b c", "c", "a"))
}

func TestRunCmd(t *testing.T) {
	type ping struct{}

	assert.Nil(t, RunCmd(nil, time.Second))
	assert.Equal(t, ping{}, RunCmd(func() tea.Msg { return ping{} }, time.Second))
	assert.Equal(t, ping{}, RunCmd(tea.Batch(
		func() tea.Msg { return nil },
		func() tea.Msg { return ping{} },
	), time.Second))
	assert.Nil(t, RunCmd(func() tea.Msg { select {} }, 10*time.Millisecond))
}

func TestDrag(t *testing.T) {
	msgs := Drag(10, 30, 5)
	assert.Len(t, msgs, 2)
	assert.Equal(t, 40, msgs[1].(tea.MouseMsg).X)
}
