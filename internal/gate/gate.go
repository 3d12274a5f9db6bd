// Package gate derives which trading actions the current wallet session
// permits. Every function is a pure predicate over the session it is given;
// callers re-evaluate on each snapshot instead of caching results.
package gate

import (
	"strings"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/model"
)

// Reasons shown when an action is refused.
const (
	ReasonNotConnected  = "connect a wallet first"
	ReasonAgentRequired = "approve the trading agent first"
	ReasonNoSigner      = "no wallet address available to sign with"
)

// CanTrade reports whether orders may be placed.
func CanTrade(s model.WalletSession) bool {
	return s.Connected && s.AgentApproved
}

// CanToggleAutoTrading reports whether auto-trading may be switched on.
// agentApproved is only meaningful on a connected session.
func CanToggleAutoTrading(s model.WalletSession) bool {
	return s.Connected && s.AgentApproved
}

// CanApproveAgent reports whether an agent approval may be requested.
func CanApproveAgent(s model.WalletSession) bool {
	return s.Connected
}

// CanBindWallet reports whether a signer can produce a bind signature.
func CanBindWallet(signerAddress string) bool {
	return strings.TrimSpace(signerAddress) != ""
}

// CheckTrade returns a not-permitted error unless CanTrade holds.
func CheckTrade(s model.WalletSession) error {
	switch {
	case !s.Connected:
		return common.NotPermittedError(ReasonNotConnected)
	case !s.AgentApproved:
		return common.NotPermittedError(ReasonAgentRequired)
	}
	return nil
}

// CheckAutoTrading validates a toggle towards enable. Switching off is
// always allowed.
func CheckAutoTrading(s model.WalletSession, enable bool) error {
	if !enable {
		return nil
	}
	return CheckTrade(s)
}

// CheckApproveAgent returns a not-permitted error unless the session is
// connected.
func CheckApproveAgent(s model.WalletSession) error {
	if !CanApproveAgent(s) {
		return common.NotPermittedError(ReasonNotConnected)
	}
	return nil
}

// CheckBindWallet returns a validation error when no signer address is
// available.
func CheckBindWallet(signerAddress string) error {
	if !CanBindWallet(signerAddress) {
		return common.ValidationError(ReasonNotConnected)
	}
	return nil
}
