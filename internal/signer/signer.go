// Package signer produces the wallet signature that binds a session.
package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Veraticus/hyperclaw/internal/common"
)

// ErrNoKey is returned when neither a key nor a signature is configured.
var ErrNoKey = errors.New("no wallet key configured")

// Signer signs the session bind message for one wallet address.
type Signer interface {
	Address() string
	SignMessage(ctx context.Context, message string) (string, error)
}

// BindMessage is the message signed to bind a session at t.
func BindMessage(t time.Time) string {
	return fmt.Sprintf("HyperClaw login nonce %d", t.UnixMilli())
}

// LocalKeySigner signs with an in-memory secp256k1 key using personal_sign
// (EIP-191) hashing.
type LocalKeySigner struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewLocalKeySigner parses a hex private key, with or without 0x prefix.
func NewLocalKeySigner(privateKeyHex string) (*LocalKeySigner, error) {
	pk := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if pk == "" {
		return nil, ErrNoKey
	}
	key, err := crypto.HexToECDSA(pk)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet private key: %w", common.ErrInvalidConfig, err)
	}
	return &LocalKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, nil
}

// Address returns the checksummed address of the key.
func (s *LocalKeySigner) Address() string {
	return s.address
}

// SignMessage returns a 0x-hex signature with V in {27, 28}.
func (s *LocalKeySigner) SignMessage(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// StaticSigner returns a signature produced elsewhere. It ignores the
// message it is asked to sign, so the matching message must be configured
// alongside the signature.
type StaticSigner struct {
	address   string
	signature string
	message   string
}

// NewStaticSigner creates a signer that always answers with signature.
func NewStaticSigner(address, signature, message string) *StaticSigner {
	return &StaticSigner{
		address:   strings.TrimSpace(address),
		signature: strings.TrimSpace(signature),
		message:   message,
	}
}

// Address returns the configured address.
func (s *StaticSigner) Address() string {
	return s.address
}

// Message returns the message the signature was produced for, or "".
func (s *StaticSigner) Message() string {
	return s.message
}

// SignMessage returns the configured signature.
func (s *StaticSigner) SignMessage(_ context.Context, _ string) (string, error) {
	if s.signature == "" {
		return "", common.ValidationError("signature is required")
	}
	return s.signature, nil
}

// MessageProvider is implemented by signers bound to a fixed message.
type MessageProvider interface {
	Message() string
}

// FromConfig picks a signer: a local key when one is set, otherwise a
// static signature. It returns ErrNoKey when neither is available.
func FromConfig(privateKey, address, signature, message string) (Signer, error) {
	if strings.TrimSpace(privateKey) != "" {
		s, err := NewLocalKeySigner(privateKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	if strings.TrimSpace(address) != "" {
		return NewStaticSigner(address, signature, message), nil
	}
	return nil, ErrNoKey
}

// Recover returns the address that produced sig over message. It is used to
// check a configured static signature before sending it.
func Recover(message, sig string) (string, error) {
	raw, err := hexutil.Decode(sig)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) != crypto.SignatureLength {
		return "", fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(raw))
	}
	if raw[crypto.RecoveryIDOffset] >= 27 {
		raw[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), raw)
	if err != nil {
		return "", fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
