package model

import "time"

// WalletSession is the backend's view of the bound wallet. The zero value
// is an unbound session.
type WalletSession struct {
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	Address       string     `json:"address"`
	AgentPubKey   string     `json:"agentPubKey,omitempty"`
	Connected     bool       `json:"connected"`
	AgentApproved bool       `json:"agentApproved"`
}

// IsBound reports whether a wallet address has been bound.
func (w WalletSession) IsBound() bool {
	return w.Connected && w.Address != ""
}

// Equal compares the fields that matter to gating and display.
func (w WalletSession) Equal(other WalletSession) bool {
	if w.Address != other.Address ||
		w.AgentPubKey != other.AgentPubKey ||
		w.Connected != other.Connected ||
		w.AgentApproved != other.AgentApproved {
		return false
	}
	switch {
	case w.UpdatedAt == nil && other.UpdatedAt == nil:
		return true
	case w.UpdatedAt == nil || other.UpdatedAt == nil:
		return false
	default:
		return w.UpdatedAt.Equal(*other.UpdatedAt)
	}
}

// BindRequest is the body sent to establish a wallet session.
type BindRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
	Message   string `json:"message"`
}
