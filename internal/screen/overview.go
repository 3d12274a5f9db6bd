package screen

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/syncer"
)

// OverviewState is the dashboard snapshot.
type OverviewState struct {
	Account model.AccountSnapshot
	Wallet  model.WalletSession
	Status  model.StrategyStatus
}

// Overview is the read-only dashboard.
type Overview struct {
	*syncer.Engine[OverviewState]
}

// NewOverview creates the dashboard screen.
func NewOverview(backend service.Backend, wallet *session.Cache, interval time.Duration) *Overview {
	load := func(ctx context.Context) (OverviewState, error) {
		var st OverviewState
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			st.Account, err = backend.AccountState(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			st.Status, err = backend.StrategyStatus(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			st.Wallet, err = wallet.Get(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return OverviewState{}, err
		}
		return st, nil
	}

	initial := OverviewState{Status: model.DefaultStrategyStatus()}
	return &Overview{Engine: syncer.New(NameOverview, load, initial, syncer.WithInterval(interval))}
}
