package tui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/hyperclaw/internal/screen"
)

// screens mounts one page at a time. A screen is rebuilt on every mount,
// so a page that is navigated away from starts over when it returns.
type screens struct {
	active   screen.Mountable
	overview *screen.Overview
	strategy *screen.Strategy
	trade    *screen.Trade
	review   *screen.Review
	me       *screen.Me
	changes  chan string
	cfg      Config
	mu       sync.Mutex
}

func newScreens(cfg Config) *screens {
	return &screens{
		cfg:     cfg,
		changes: make(chan string, 8),
	}
}

// mount stops the active screen and starts a fresh instance of name.
func (s *screens) mount(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.active.Stop()
		slog.Debug("Unmounted screen", "screen", s.active.Name())
	}
	s.overview, s.strategy, s.trade, s.review, s.me = nil, nil, nil, nil, nil

	cfg := s.cfg
	notify := func() { s.notify(name) }

	switch name {
	case screen.NameStrategy:
		s.strategy = screen.NewStrategy(cfg.Backend, cfg.Wallet, cfg.Intervals.Strategy)
		s.strategy.OnChange(func(screen.StrategyState) { notify() })
		s.active = s.strategy
	case screen.NameTrade:
		s.trade = screen.NewTrade(cfg.Backend, cfg.Wallet, cfg.Intervals.Trade, cfg.OrderLimit)
		s.trade.OnChange(func(screen.TradeState) { notify() })
		s.active = s.trade
	case screen.NameReview:
		s.review = screen.NewReview(cfg.Backend, cfg.Intervals.Review, cfg.ReviewLimit,
			screen.WithTags(cfg.Tags),
			screen.WithSwipeThreshold(cfg.SwipeThreshold))
		s.review.OnChange(func(screen.ReviewState) { notify() })
		s.active = s.review
	case screen.NameMe:
		s.me = screen.NewMe(cfg.Wallet, cfg.Intervals.Me)
		s.me.OnChange(func(screen.MeState) { notify() })
		s.active = s.me
	default:
		s.overview = screen.NewOverview(cfg.Backend, cfg.Wallet, cfg.Intervals.Overview)
		s.overview.OnChange(func(screen.OverviewState) { notify() })
		s.active = s.overview
	}

	s.active.Start(ctx)
	slog.Debug("Mounted screen", "screen", s.active.Name(), "interval", s.active.Interval())
}

// unmount stops the active screen.
func (s *screens) unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Stop()
	}
}

// Trigger refreshes the mounted screen. It lets the push listener target
// whichever page is visible.
func (s *screens) Trigger() {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active != nil {
		active.Trigger()
	}
}

func (s *screens) current() screen.Mountable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *screens) notify(name string) {
	select {
	case s.changes <- name:
	default:
	}
}
