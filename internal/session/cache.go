// Package session holds the process-wide wallet session. Every screen reads
// the session through one Cache, and every wallet mutation invalidates it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/signer"
)

// DefaultTTL is shorter than every polling interval, so each screen refresh
// observes a session at most one refresh old.
const DefaultTTL = 2 * time.Second

const flightKey = "wallet-session"

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long a fetched session is served without refetching.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Cache is the single source of the wallet session.
type Cache struct {
	fetchedAt   time.Time
	backend     service.WalletBackend
	now         func() time.Time
	group       singleflight.Group
	subscribers []func(model.WalletSession)
	session     model.WalletSession
	generation  uint64
	ttl         time.Duration
	mu          sync.RWMutex
	valid       bool
}

// New creates an empty cache in front of backend.
func New(backend service.WalletBackend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the session, fetching it when the cached copy is stale.
// Concurrent callers share one fetch.
func (c *Cache) Get(ctx context.Context) (model.WalletSession, error) {
	c.mu.RLock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		s := c.session
		c.mu.RUnlock()
		return s, nil
	}
	gen := c.generation
	c.mu.RUnlock()

	// Callers after an Invalidate never join a fetch that started before it.
	key := fmt.Sprintf("%s-%d", flightKey, gen)
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, gen)
	})
	if err != nil {
		return model.WalletSession{}, err
	}
	return v.(model.WalletSession), nil
}

// fetch loads the session for generation gen. A result that lands after an
// Invalidate may predate the mutation, so it is returned to its callers but
// never stored or published.
func (c *Cache) fetch(ctx context.Context, gen uint64) (model.WalletSession, error) {
	s, err := c.backend.WalletSession(ctx)
	if err != nil {
		return model.WalletSession{}, err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		slog.Debug("Discarding wallet session fetched before invalidation", "generation", gen)
		return s, nil
	}
	changed := !s.Equal(c.session)
	c.session = s
	c.valid = true
	c.fetchedAt = c.now()
	subs := append([]func(model.WalletSession){}, c.subscribers...)
	c.mu.Unlock()

	if changed {
		slog.Debug("Wallet session changed",
			"connected", s.Connected,
			"agent_approved", s.AgentApproved)
		for _, fn := range subs {
			fn(s)
		}
	}
	return s, nil
}

// Invalidate forces the next Get to fetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.generation++
}

// Peek returns the last known session without I/O.
func (c *Cache) Peek() model.WalletSession {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Subscribe registers fn to run whenever a fetched session differs from
// the previous one.
func (c *Cache) Subscribe(fn func(model.WalletSession)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Bind signs the bind message with s and establishes a session for its
// address.
func (c *Cache) Bind(ctx context.Context, s signer.Signer) error {
	if s == nil {
		return gate.CheckBindWallet("")
	}
	if err := gate.CheckBindWallet(s.Address()); err != nil {
		return err
	}

	message := signer.BindMessage(c.now())
	if mp, ok := s.(signer.MessageProvider); ok && mp.Message() != "" {
		message = mp.Message()
	}

	sig, err := s.SignMessage(ctx, message)
	if err != nil {
		return fmt.Errorf("sign bind message: %w", err)
	}

	req := model.BindRequest{
		Address:   s.Address(),
		Signature: sig,
		Message:   message,
	}
	if err := c.backend.ConnectWallet(ctx, req); err != nil {
		return err
	}
	c.Invalidate()
	slog.Info("Wallet bound", "address", req.Address)
	return nil
}

// ApproveAgent authorizes the trading agent. The session must be connected.
func (c *Cache) ApproveAgent(ctx context.Context) (string, error) {
	s, err := c.Get(ctx)
	if err != nil {
		return "", err
	}
	if err := gate.CheckApproveAgent(s); err != nil {
		return "", err
	}

	key, err := c.backend.ApproveAgent(ctx)
	if err != nil {
		return "", err
	}
	c.Invalidate()
	slog.Info("Trading agent approved", "address", s.Address, "agent", key)
	return key, nil
}
