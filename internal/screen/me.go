package screen

import (
	"context"
	"time"

	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/signer"
	"github.com/Veraticus/hyperclaw/internal/syncer"
)

// MeState is the wallet page snapshot.
type MeState struct {
	Wallet model.WalletSession
}

// Me binds the wallet and approves the trading agent.
type Me struct {
	*syncer.Engine[MeState]
	wallet *session.Cache
}

// NewMe creates the wallet screen.
func NewMe(wallet *session.Cache, interval time.Duration) *Me {
	load := func(ctx context.Context) (MeState, error) {
		s, err := wallet.Get(ctx)
		if err != nil {
			return MeState{}, err
		}
		return MeState{Wallet: s}, nil
	}
	return &Me{
		Engine: syncer.New(NameMe, load, MeState{}, syncer.WithInterval(interval)),
		wallet: wallet,
	}
}

// CanApproveAgent reports whether the approve control is enabled.
func (m *Me) CanApproveAgent() bool {
	return gate.CanApproveAgent(m.Snapshot().Wallet)
}

// BindWallet signs the bind message with s and connects the session.
func (m *Me) BindWallet(ctx context.Context, s signer.Signer) error {
	return m.Mutate(ctx, ActionBind, func(ctx context.Context) error {
		return m.wallet.Bind(ctx, s)
	})
}

// ApproveAgent authorizes the trading agent.
func (m *Me) ApproveAgent(ctx context.Context) error {
	return m.Mutate(ctx, ActionApprove, func(ctx context.Context) error {
		_, err := m.wallet.ApproveAgent(ctx)
		return err
	})
}
