package model

import (
	"fmt"
	"strings"
	"time"
)

// Bias is the strategy's directional stance.
type Bias string

// Bias constants.
const (
	BiasLong   Bias = "Long"
	BiasShort  Bias = "Short"
	BiasHybrid Bias = "Hybrid"
)

// Biases lists every bias in display order.
var Biases = []Bias{BiasLong, BiasShort, BiasHybrid}

// ParseBias accepts any casing of a known bias.
func ParseBias(s string) (Bias, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return BiasLong, nil
	case "short":
		return BiasShort, nil
	case "hybrid":
		return BiasHybrid, nil
	default:
		return "", fmt.Errorf("bias must be Long, Short, or Hybrid, got %q", s)
	}
}

// StrategyStatus is the runtime snapshot of the automated strategy.
type StrategyStatus struct {
	UpdatedAt     time.Time `json:"updatedAt"`
	Bias          Bias      `json:"bias"`
	RuntimeStatus string    `json:"runtimeStatus"`
	LastSignal    string    `json:"lastSignal"`
	LastError     string    `json:"lastError"`
	AutoTrading   bool      `json:"autoTrading"`
}

// DefaultStrategyStatus is shown before the first successful load.
func DefaultStrategyStatus() StrategyStatus {
	return StrategyStatus{
		Bias:          BiasHybrid,
		RuntimeStatus: "idle",
	}
}

// StrategyDerive is a read-only analytic record derived from a base strategy.
type StrategyDerive struct {
	Name           string  `json:"name"`
	BaseStrategy   string  `json:"baseStrategy"`
	Condition      string  `json:"condition"`
	Recommendation string  `json:"recommendation"`
	WinRate        float64 `json:"winRate"`
	PnLRatio       float64 `json:"pnlRatio"`
}
