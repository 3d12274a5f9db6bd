package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a review on SIGINT/SIGTERM and tells the user
// what was kept.
type InterruptHandler struct {
	writer      io.Writer
	cancel      context.CancelFunc
	reviewed    func() int
	mu          sync.Mutex
	interrupted bool
}

// NewInterruptHandler creates a handler writing to w (stdout when nil).
// reviewed, if set, reports how many verdicts were already submitted.
func NewInterruptHandler(w io.Writer, reviewed func() int) *InterruptHandler {
	if w == nil {
		w = os.Stdout
	}
	return &InterruptHandler{writer: w, reviewed: reviewed}
}

// HandleInterrupts returns a context cancelled on the first interrupt
// signal. Signal handling stops once ctx is done.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.interrupt()
		case <-ctx.Done():
		}
	}()

	return ctx
}

// interrupt shows the message once and cancels the review.
func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return
	}
	h.interrupted = true

	msg := "\n\n" + FormatWarning("Review interrupted!")
	if h.reviewed != nil {
		if n := h.reviewed(); n > 0 {
			msg += "\n" + FormatInfo(fmt.Sprintf("%d verdicts were already submitted and are kept.", n))
		}
	}
	msg += "\n" + FormatInfo("Resume with: hyperclaw review") + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		slog.Warn("Failed to write interrupt message", "error", err)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// WasInterrupted returns true if the review was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
