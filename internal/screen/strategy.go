package screen

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/syncer"
)

// StrategyState is the strategy page snapshot.
type StrategyState struct {
	Derives []model.StrategyDerive
	Wallet  model.WalletSession
	Status  model.StrategyStatus
}

// Strategy shows the strategy runtime and controls bias and auto-trading.
type Strategy struct {
	*syncer.Engine[StrategyState]
	backend service.StrategyBackend
}

// NewStrategy creates the strategy screen.
func NewStrategy(backend service.Backend, wallet *session.Cache, interval time.Duration) *Strategy {
	load := func(ctx context.Context) (StrategyState, error) {
		var st StrategyState
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			st.Status, err = backend.StrategyStatus(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			st.Derives, err = backend.StrategyDerives(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			st.Wallet, err = wallet.Get(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return StrategyState{}, err
		}
		return st, nil
	}

	initial := StrategyState{Status: model.DefaultStrategyStatus()}
	return &Strategy{
		Engine:  syncer.New(NameStrategy, load, initial, syncer.WithInterval(interval)),
		backend: backend,
	}
}

// CanToggleAutoTrading reports whether the toggle control is enabled for
// the current snapshot. Switching off is always possible.
func (s *Strategy) CanToggleAutoTrading() bool {
	st := s.Snapshot()
	return st.Status.AutoTrading || gate.CanToggleAutoTrading(st.Wallet)
}

// SetBias changes the strategy bias.
func (s *Strategy) SetBias(ctx context.Context, bias model.Bias) error {
	return s.Mutate(ctx, ActionSetBias, func(ctx context.Context) error {
		parsed, err := model.ParseBias(string(bias))
		if err != nil {
			return common.ValidationError(err.Error())
		}
		return s.backend.SetBias(ctx, parsed)
	})
}

// ToggleAutoTrading flips auto-trading relative to the current snapshot.
// Enabling requires an approved agent.
func (s *Strategy) ToggleAutoTrading(ctx context.Context) error {
	st := s.Snapshot()
	target := !st.Status.AutoTrading
	return s.Mutate(ctx, ActionToggle, func(ctx context.Context) error {
		if err := gate.CheckAutoTrading(st.Wallet, target); err != nil {
			return err
		}
		return s.backend.SetAutoTrading(ctx, target)
	})
}
