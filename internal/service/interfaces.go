// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/hyperclaw/internal/model"
)

// FillReader lists historical fills, newest first.
type FillReader interface {
	Fills(ctx context.Context, limit int) ([]model.Fill, error)
}

// ReviewSubmitter dispatches a review verdict.
type ReviewSubmitter interface {
	SubmitReview(ctx context.Context, verdict model.ReviewVerdict) error
}

// AccountReader reads the account/strategy snapshot.
type AccountReader interface {
	AccountState(ctx context.Context) (model.AccountSnapshot, error)
}

// WalletBackend covers the wallet session endpoints.
type WalletBackend interface {
	WalletSession(ctx context.Context) (model.WalletSession, error)
	ConnectWallet(ctx context.Context, req model.BindRequest) error
	ApproveAgent(ctx context.Context) (string, error)
}

// StrategyBackend covers the strategy status and control endpoints.
type StrategyBackend interface {
	StrategyStatus(ctx context.Context) (model.StrategyStatus, error)
	StrategyDerives(ctx context.Context) ([]model.StrategyDerive, error)
	SetAutoTrading(ctx context.Context, enabled bool) error
	SetBias(ctx context.Context, bias model.Bias) error
}

// OrderBackend covers order placement and listing.
type OrderBackend interface {
	PlaceOrder(ctx context.Context, req model.OrderRequest) (int64, error)
	Orders(ctx context.Context, limit int) ([]model.Order, error)
}

// Backend defines the contract for the remote trading service. It is the
// only source of truth; the client keeps no persistent state of its own.
type Backend interface {
	FillReader
	ReviewSubmitter
	AccountReader
	WalletBackend
	StrategyBackend
	OrderBackend
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ReviewStats summarizes one review session.
type ReviewStats struct {
	Total    int
	Good     int
	Bad      int
	Failed   int
	Duration time.Duration
}

// Reviewed returns the number of committed verdicts.
func (s ReviewStats) Reviewed() int {
	return s.Good + s.Bad
}
