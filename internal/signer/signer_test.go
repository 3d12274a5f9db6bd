package signer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hyperclaw/internal/common"
)

// Well-known test key (hardhat account #0).
const (
	testKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestBindMessage(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "HyperClaw login nonce 1700000000123", BindMessage(at))
}

func TestLocalKeySigner(t *testing.T) {
	s, err := NewLocalKeySigner(testKey)
	require.NoError(t, err)
	assert.Equal(t, testAddress, s.Address())

	msg := BindMessage(time.UnixMilli(1))
	sig, err := s.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sig, "0x"))

	raw, err := hexutil.Decode(sig)
	require.NoError(t, err)
	require.Len(t, raw, 65)
	assert.Contains(t, []byte{27, 28}, raw[64])

	recovered, err := Recover(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, testAddress, recovered)

	other, err := Recover("another message", sig)
	require.NoError(t, err)
	assert.NotEqual(t, testAddress, other)
}

func TestNewLocalKeySigner_Invalid(t *testing.T) {
	_, err := NewLocalKeySigner("")
	require.ErrorIs(t, err, ErrNoKey)

	_, err = NewLocalKeySigner("0xnothex")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestStaticSigner(t *testing.T) {
	s := NewStaticSigner(" 0xabc0123456 ", "0xsig", "HyperClaw login nonce 5")
	assert.Equal(t, "0xabc0123456", s.Address())
	assert.Equal(t, "HyperClaw login nonce 5", s.Message())

	sig, err := s.SignMessage(context.Background(), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "0xsig", sig)

	_, err = NewStaticSigner("0xabc0123456", "", "").SignMessage(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		wantErr    error
		name       string
		privateKey string
		address    string
		wantAddr   string
	}{
		{name: "local key wins", privateKey: testKey, address: "0xother", wantAddr: testAddress},
		{name: "static address", address: "0xabc0123456", wantAddr: "0xabc0123456"},
		{name: "nothing configured", wantErr: ErrNoKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromConfig(tt.privateKey, tt.address, "0xsig", "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, s.Address())
		})
	}
}
