package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/hyperclaw/internal/model"
)

// Address is the wallet every fixture session is bound to.
const Address = "0x1234567890abcdef1234567890abcdef12345678"

// SessionStage is a point in the wallet lifecycle.
type SessionStage int

// Wallet lifecycle stages.
const (
	SessionUnbound SessionStage = iota
	SessionConnected
	SessionApproved
)

// Session returns the wallet session for the stage.
func (s SessionStage) Session() model.WalletSession {
	switch s {
	case SessionConnected:
		return model.WalletSession{Address: Address, Connected: true}
	case SessionApproved:
		return model.WalletSession{
			Address:       Address,
			AgentPubKey:   "agent_12345678",
			Connected:     true,
			AgentApproved: true,
		}
	default:
		return model.WalletSession{}
	}
}

// FillTime is the creation time of fixture fill 1. Each higher id is one
// minute later.
var FillTime = time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)

// Fill returns a deterministic fill. Even ids are losing sells, odd ids
// profitable buys.
func Fill(id int64) model.Fill {
	f := model.Fill{
		ID:          id,
		Symbol:      "BTC",
		Side:        model.SideBuy,
		Status:      "filled",
		Price:       decimal.NewFromInt(100000 + id),
		Size:        decimal.RequireFromString("0.002"),
		RealizedPnL: decimal.RequireFromString("12.5"),
		CreatedAt:   FillTime.Add(time.Duration(id-1) * time.Minute),
	}
	if id%2 == 0 {
		f.Symbol = "ETH"
		f.Side = model.SideSell
		f.RealizedPnL = decimal.RequireFromString("-3")
	}
	return f
}

// Fills returns Fill(id) for each id, in the order given.
func Fills(ids ...int64) []model.Fill {
	fills := make([]model.Fill, 0, len(ids))
	for _, id := range ids {
		fills = append(fills, Fill(id))
	}
	return fills
}
