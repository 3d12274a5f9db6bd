package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	h := NewInterruptHandler(nil, nil)
	assert.NotNil(t, h.writer)
	assert.False(t, h.WasInterrupted())
}

func TestInterrupt_CancelsOnce(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out, func() int { return 3 })
	ctx := h.HandleInterrupts(context.Background())

	h.interrupt()
	h.interrupt()

	select {
	case <-ctx.Done():
	default:
		t.Fatal("context should be cancelled after an interrupt")
	}
	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, strings.Count(out.String(), "Review interrupted!"))
	assert.Contains(t, out.String(), "3 verdicts were already submitted")
	assert.Contains(t, out.String(), "Resume with: hyperclaw review")
}

func TestInterrupt_NothingReviewed(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out, func() int { return 0 })
	_ = h.HandleInterrupts(context.Background())

	h.interrupt()
	assert.NotContains(t, out.String(), "already submitted")
}

func TestInterrupt_ParentCancelIsNotAnInterrupt(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out, nil)
	parent, cancel := context.WithCancel(context.Background())
	ctx := h.HandleInterrupts(parent)

	cancel()
	<-ctx.Done()
	assert.False(t, h.WasInterrupted())
	assert.Empty(t, out.String())
}
