package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/model"
)

func TestSessionStage(t *testing.T) {
	tests := []struct {
		name       string
		stage      SessionStage
		canApprove bool
		canTrade   bool
	}{
		{name: "unbound", stage: SessionUnbound},
		{name: "connected", stage: SessionConnected, canApprove: true},
		{name: "approved", stage: SessionApproved, canApprove: true, canTrade: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.stage.Session()
			assert.Equal(t, tt.canApprove, gate.CanApproveAgent(s))
			assert.Equal(t, tt.canTrade, gate.CanTrade(s))
		})
	}
}

func TestFills(t *testing.T) {
	fills := Fills(3, 2)
	require.Len(t, fills, 2)

	assert.Equal(t, int64(3), fills[0].ID)
	assert.True(t, fills[0].IsProfitable())
	assert.Equal(t, model.SideSell, fills[1].Side)
	assert.False(t, fills[1].IsProfitable())
	assert.True(t, fills[0].CreatedAt.After(fills[1].CreatedAt))
}

func TestBackendBuilder(t *testing.T) {
	backend := NewBackendBuilder(t).
		WithSession(SessionApproved).
		WithFills(Fills(2, 1)...).
		WithStatus(model.StrategyStatus{Bias: model.BiasShort}).
		WithDerives(model.StrategyDerive{Name: "dip-buyer"}).
		Build()
	ctx := context.Background()

	s, err := backend.WalletSession(ctx)
	require.NoError(t, err)
	assert.True(t, s.AgentApproved)

	fills, err := backend.Fills(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, fills, 2)

	status, err := backend.StrategyStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.BiasShort, status.Bias)

	derives, err := backend.StrategyDerives(ctx)
	require.NoError(t, err)
	assert.Len(t, derives, 1)
}
