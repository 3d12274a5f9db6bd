// Package push listens on the backend's websocket and turns every message
// into an early refresh of the registered screens. Polling stays active,
// so the last load to resolve still wins.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/metrics"
	"github.com/Veraticus/hyperclaw/internal/service"
)

// DefaultReadTimeout is well above the backend's 3s heartbeat.
const DefaultReadTimeout = 30 * time.Second

// Target is refreshed on every push message.
type Target interface {
	Trigger()
}

// Message is one push frame.
type Message struct {
	Type string `json:"type"`
	At   string `json:"at"`
}

// Option configures a Listener.
type Option func(*Listener)

// WithRetry sets the reconnect backoff.
func WithRetry(opts service.RetryOptions) Option {
	return func(l *Listener) {
		l.retry = opts
	}
}

// WithReadTimeout sets how long a silent connection is kept.
func WithReadTimeout(d time.Duration) Option {
	return func(l *Listener) {
		l.readTimeout = d
	}
}

// WithHeader adds headers to the websocket handshake.
func WithHeader(h http.Header) Option {
	return func(l *Listener) {
		l.header = h
	}
}

// Listener maintains the push connection.
type Listener struct {
	dialer      *websocket.Dialer
	header      http.Header
	url         string
	targets     []Target
	retry       service.RetryOptions
	readTimeout time.Duration
	mu          sync.Mutex
}

// NewListener creates a listener for url.
func NewListener(url string, opts ...Option) (*Listener, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		return nil, fmt.Errorf("%w: push url must start with ws:// or wss://, got %q", common.ErrInvalidConfig, url)
	}
	l := &Listener{
		url:         url,
		dialer:      websocket.DefaultDialer,
		readTimeout: DefaultReadTimeout,
		retry: service.RetryOptions{
			MaxAttempts:  -1,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     30 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Register adds targets to refresh.
func (l *Listener) Register(targets ...Target) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.targets = append(l.targets, targets...)
}

// Run connects and reconnects until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	for {
		var conn *websocket.Conn
		err := common.WithRetry(ctx, func() error {
			c, _, err := l.dialer.DialContext(ctx, l.url, l.header)
			if err != nil {
				return err
			}
			conn = c
			return nil
		}, l.retry)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("push connect: %w", err)
		}

		slog.Debug("Push channel connected", "url", l.url)
		err = l.read(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		slog.Debug("Push channel dropped, reconnecting", "error", err)
	}
}

func (l *Listener) read(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(l.readTimeout)); err != nil {
			return err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("Ignoring unreadable push frame", "error", err)
		}
		metrics.ObservePush()
		l.fire()
	}
}

func (l *Listener) fire() {
	l.mu.Lock()
	targets := append([]Target(nil), l.targets...)
	l.mu.Unlock()
	for _, t := range targets {
		t.Trigger()
	}
}
