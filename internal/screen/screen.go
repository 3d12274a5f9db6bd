// Package screen holds the per-page state of the console. Each screen owns a
// sync engine over its own snapshot type and exposes the page's actions as
// busy-gated mutations.
package screen

import (
	"context"
	"time"
)

// Default refresh cadences.
const (
	DefaultOverviewInterval = 4 * time.Second
	DefaultStrategyInterval = 4 * time.Second
	DefaultTradeInterval    = 4 * time.Second
	DefaultReviewInterval   = 5 * time.Second
	// DefaultMeInterval loads the wallet page once on mount.
	DefaultMeInterval = 0
)

// Screen names, used in logs and metrics.
const (
	NameOverview = "overview"
	NameStrategy = "strategy"
	NameTrade    = "trade"
	NameReview   = "review"
	NameMe       = "me"
)

// Names lists the screens in tab order.
var Names = []string{NameOverview, NameStrategy, NameTrade, NameReview, NameMe}

// Action names double as the fallback message prefix ("<action> failed").
const (
	ActionBind    = "bind"
	ActionApprove = "approve"
	ActionSetBias = "set bias"
	ActionToggle  = "toggle"
	ActionOrder   = "order"
	ActionReview  = "review"
)

// Mountable is the lifecycle shared by every screen.
type Mountable interface {
	Name() string
	Interval() time.Duration
	Start(ctx context.Context)
	Trigger()
	Stop()
	Err() string
	Busy() bool
}
