package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountState is the account summary returned with the strategy bias.
type AccountState struct {
	UpdatedAt time.Time       `json:"updatedAt"`
	Equity    decimal.Decimal `json:"equity"`
	Leverage  decimal.Decimal `json:"leverage"`
	OpenPnL   decimal.Decimal `json:"openPnl"`
}

// AccountSnapshot is the combined account/strategy state.
type AccountSnapshot struct {
	Bias  Bias         `json:"bias"`
	State AccountState `json:"state"`
}
