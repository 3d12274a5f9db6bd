package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExecutionMode selects simulated or real execution.
type ExecutionMode string

// Execution modes.
const (
	ExecutionPaper ExecutionMode = "paper"
	ExecutionLive  ExecutionMode = "live"
)

// ParseExecutionMode normalizes an execution mode; empty means paper.
func ParseExecutionMode(s string) (ExecutionMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paper":
		return ExecutionPaper, true
	case "live":
		return ExecutionLive, true
	default:
		return "", false
	}
}

// OrderType is the order's execution style.
type OrderType string

// Order types.
const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// Order is an order as reported by the backend.
type Order struct {
	CreatedAt  time.Time       `json:"createdAt"`
	Symbol     string          `json:"symbol"`
	Side       Side            `json:"side"`
	OrderType  OrderType       `json:"orderType"`
	Status     string          `json:"status"`
	Execution  ExecutionMode   `json:"execution"`
	Size       decimal.Decimal `json:"size"`
	EntryPrice decimal.Decimal `json:"entryPrice"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	TakeProfit decimal.Decimal `json:"takeProfit"`
	ID         int64           `json:"id"`
}

// OrderRequest is the place-order body. Stop-loss and take-profit are part
// of the same request as the parent order.
type OrderRequest struct {
	Symbol     string          `json:"symbol"`
	Side       Side            `json:"side"`
	OrderType  OrderType       `json:"orderType"`
	Execution  ExecutionMode   `json:"execution"`
	ClientTag  string          `json:"clientTag"`
	Size       decimal.Decimal `json:"size"`
	EntryPrice decimal.Decimal `json:"entryPrice"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	TakeProfit decimal.Decimal `json:"takeProfit"`
}

// NewClientTag returns a fresh tag for an order request.
func NewClientTag() string {
	return "hc-" + uuid.NewString()
}
