// Package testutil provides fixtures for tests that drive a console
// against an in-memory backend.
//
// Example:
//
//	backend := testutil.NewBackendBuilder(t).
//		WithSession(testutil.SessionApproved).
//		WithFills(testutil.Fills(3, 2, 1)...).
//		Build()
package testutil

import (
	"testing"

	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
)

// Builder seeds a MockBackend.
type Builder interface {
	// WithSession sets the wallet session the backend reports.
	WithSession(stage SessionStage) Builder

	// WithFills sets the fills, newest first.
	WithFills(fills ...model.Fill) Builder

	// WithStatus sets the strategy status.
	WithStatus(status model.StrategyStatus) Builder

	// WithDerives sets the derived strategies.
	WithDerives(derives ...model.StrategyDerive) Builder

	// Build returns the seeded backend.
	Build() *service.MockBackend
}

type backendBuilder struct {
	t       *testing.T
	status  *model.StrategyStatus
	fills   []model.Fill
	derives []model.StrategyDerive
	stage   SessionStage
}

// NewBackendBuilder creates a builder for the given test.
func NewBackendBuilder(t *testing.T) Builder {
	t.Helper()
	return &backendBuilder{t: t}
}

func (b *backendBuilder) WithSession(stage SessionStage) Builder {
	b.stage = stage
	return b
}

func (b *backendBuilder) WithFills(fills ...model.Fill) Builder {
	b.fills = append(b.fills, fills...)
	return b
}

func (b *backendBuilder) WithStatus(status model.StrategyStatus) Builder {
	b.status = &status
	return b
}

func (b *backendBuilder) WithDerives(derives ...model.StrategyDerive) Builder {
	b.derives = append(b.derives, derives...)
	return b
}

func (b *backendBuilder) Build() *service.MockBackend {
	b.t.Helper()
	backend := service.NewMockBackend()
	backend.SetSession(b.stage.Session())
	if len(b.fills) > 0 {
		backend.SetFills(b.fills)
	}
	if b.status != nil {
		backend.SetStatus(*b.status)
	}
	if len(b.derives) > 0 {
		backend.SetDerives(b.derives)
	}
	return backend
}
