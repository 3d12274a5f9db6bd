// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a fill or order.
type Side string

// Side constants.
const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// ParseSide normalizes a side string. Both "buy"/"sell" and
// "long"/"short" spellings are accepted.
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "long", "b":
		return SideBuy, true
	case "sell", "short", "s":
		return SideSell, true
	default:
		return "", false
	}
}

// IsBuy reports whether the side has buy semantics. Backends are not
// consistent about casing, so the comparison is case-insensitive.
func (s Side) IsBuy() bool {
	parsed, ok := ParseSide(string(s))
	return ok && parsed == SideBuy
}

// Fill is an immutable historical trade record produced by the backend.
type Fill struct {
	CreatedAt   time.Time       `json:"createdAt"`
	Symbol      string          `json:"symbol"`
	Side        Side            `json:"side"`
	Status      string          `json:"status"`
	Price       decimal.Decimal `json:"price"`
	Size        decimal.Decimal `json:"size"`
	RealizedPnL decimal.Decimal `json:"realizedPnl"`
	ID          int64           `json:"id"`
}

// IsProfitable reports whether the fill realized a non-negative result.
func (f Fill) IsProfitable() bool {
	return !f.RealizedPnL.IsNegative()
}

// Notional returns price times size.
func (f Fill) Notional() decimal.Decimal {
	return f.Price.Mul(f.Size)
}
