package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Veraticus/hyperclaw/internal/api"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/signer"
	"github.com/Veraticus/hyperclaw/internal/tui"
)

// newClient builds the backend client from the resolved settings.
func newClient() (*api.Client, error) {
	return api.New(settings.API.BaseURL,
		api.WithToken(settings.API.Token),
		api.WithTimeout(settings.API.Timeout),
		api.WithUserAgent("hyperclaw/"+version),
	)
}

// newSigner returns the configured wallet signer, or nil when none is
// configured.
func newSigner() (signer.Signer, error) {
	s, err := signer.FromConfig(
		settings.Wallet.PrivateKey,
		settings.Wallet.Address,
		settings.Wallet.Signature,
		settings.Wallet.Message,
	)
	if errors.Is(err, signer.ErrNoKey) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet signer: %w", err)
	}
	return s, nil
}

func newWalletCache(backend service.WalletBackend) *session.Cache {
	return session.New(backend, session.WithTTL(settings.Session.TTL))
}

func orderDefaults() screen.OrderForm {
	d := settings.Order
	return screen.OrderForm{
		Symbol:     d.Symbol,
		Side:       d.Side,
		OrderType:  d.Type,
		Execution:  d.Execution,
		Size:       d.Size,
		EntryPrice: d.EntryPrice,
		StopLoss:   d.StopLoss,
		TakeProfit: d.TakeProfit,
	}
}

func intervals() tui.Intervals {
	return tui.Intervals{
		Overview: settings.Sync.Overview,
		Strategy: settings.Sync.Strategy,
		Trade:    settings.Sync.Trade,
		Review:   settings.Sync.Review,
		Me:       settings.Sync.Me,
	}
}

// pushHeader authenticates the push handshake the same way as API calls.
func pushHeader() http.Header {
	h := http.Header{}
	if settings.API.Token != "" {
		h.Set("Authorization", "Bearer "+settings.API.Token)
	}
	return h
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
