package gate

import (
	"testing"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name       string
		session    model.WalletSession
		canTrade   bool
		canToggle  bool
		canApprove bool
	}{
		{
			name:    "unbound",
			session: model.WalletSession{},
		},
		{
			name:    "disconnected but approved flag set",
			session: model.WalletSession{Address: "0x1234567890", AgentApproved: true},
		},
		{
			name:    "stale approval without connection",
			session: model.WalletSession{AgentApproved: true},
		},
		{
			name:       "connected without agent",
			session:    model.WalletSession{Address: "0x1234567890", Connected: true},
			canApprove: true,
		},
		{
			name:       "connected and approved",
			session:    model.WalletSession{Address: "0x1234567890", Connected: true, AgentApproved: true},
			canTrade:   true,
			canToggle:  true,
			canApprove: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canTrade, CanTrade(tt.session))
			assert.Equal(t, tt.canToggle, CanToggleAutoTrading(tt.session))
			assert.Equal(t, tt.canApprove, CanApproveAgent(tt.session))

			if tt.canTrade {
				assert.NoError(t, CheckTrade(tt.session))
			} else {
				assert.ErrorIs(t, CheckTrade(tt.session), common.ErrNotPermitted)
			}

			if tt.canToggle {
				assert.NoError(t, CheckAutoTrading(tt.session, true))
			} else {
				assert.ErrorIs(t, CheckAutoTrading(tt.session, true), common.ErrNotPermitted)
			}
		})
	}
}

func TestCheckTradeReasons(t *testing.T) {
	err := CheckTrade(model.WalletSession{})
	require.Error(t, err)
	assert.Equal(t, ReasonNotConnected, common.UserMessage(err, "order failed"))

	err = CheckTrade(model.WalletSession{Connected: true, Address: "0x1234567890"})
	require.Error(t, err)
	assert.Equal(t, ReasonAgentRequired, common.UserMessage(err, "order failed"))
}

func TestCheckAutoTrading(t *testing.T) {
	unapproved := model.WalletSession{Connected: true, Address: "0x1234567890"}

	assert.ErrorIs(t, CheckAutoTrading(unapproved, true), common.ErrNotPermitted)
	assert.NoError(t, CheckAutoTrading(unapproved, false), "disabling is always allowed")
	assert.NoError(t, CheckAutoTrading(model.WalletSession{}, false))
}

func TestCheckApproveAgent(t *testing.T) {
	assert.ErrorIs(t, CheckApproveAgent(model.WalletSession{}), common.ErrNotPermitted)
	assert.NoError(t, CheckApproveAgent(model.WalletSession{Connected: true, Address: "0x1234567890"}))
}

func TestCheckBindWallet(t *testing.T) {
	assert.False(t, CanBindWallet("  "))
	assert.True(t, CanBindWallet("0xabc"))
	assert.ErrorIs(t, CheckBindWallet(""), common.ErrValidation)
	assert.NoError(t, CheckBindWallet("0xabc"))
}
