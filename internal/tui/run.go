// Package tui implements the interactive console: one tab per page, each
// backed by a screen whose sync engine runs only while the tab is shown.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/hyperclaw/internal/common"
)

// Console is a configured TUI program.
type Console struct {
	program *tea.Program
	screens *screens
}

// New creates a console. The backend and wallet cache are required.
func New(ctx context.Context, opts ...Option) (*Console, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Backend == nil {
		return nil, fmt.Errorf("%w: backend is required", common.ErrMissingConfig)
	}
	if cfg.Wallet == nil {
		return nil, fmt.Errorf("%w: wallet session cache is required", common.ErrMissingConfig)
	}

	m := newModel(ctx, cfg)

	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}
	if cfg.MouseSupport {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	return &Console{
		program: tea.NewProgram(m, programOpts...),
		screens: m.screens,
	}, nil
}

// Run blocks until the user quits or ctx is cancelled. The mounted screen
// is stopped before Run returns.
func (c *Console) Run() error {
	defer c.screens.unmount()

	if _, err := c.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run console: %w", err)
	}
	return nil
}

// Trigger refreshes the visible screen. It makes the console a push
// target.
func (c *Console) Trigger() {
	c.screens.Trigger()
}
