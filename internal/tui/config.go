package tui

import (
	"time"

	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/signer"
	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

// Intervals holds the refresh cadence of each screen.
type Intervals struct {
	Overview time.Duration
	Strategy time.Duration
	Trade    time.Duration
	Review   time.Duration
	Me       time.Duration
}

// DefaultIntervals returns the standard cadences.
func DefaultIntervals() Intervals {
	return Intervals{
		Overview: screen.DefaultOverviewInterval,
		Strategy: screen.DefaultStrategyInterval,
		Trade:    screen.DefaultTradeInterval,
		Review:   screen.DefaultReviewInterval,
		Me:       screen.DefaultMeInterval,
	}
}

// Config holds TUI configuration.
type Config struct {
	Backend        service.Backend
	Wallet         *session.Cache
	Signer         signer.Signer
	Theme          themes.Theme
	OrderDefaults  screen.OrderForm
	InitialTab     string
	Tags           []string
	Intervals      Intervals
	SwipeThreshold float64
	ReviewLimit    int
	OrderLimit     int
	Width          int
	Height         int
	MouseSupport   bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		OrderDefaults:  screen.DefaultOrderForm(),
		InitialTab:     screen.NameOverview,
		Intervals:      DefaultIntervals(),
		SwipeThreshold: 20,
		ReviewLimit:    20,
		OrderLimit:     20,
		Width:          80,
		Height:         24,
		MouseSupport:   true,
	}
}

// WithBackend sets the remote backend.
func WithBackend(backend service.Backend) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithWallet sets the shared wallet session cache.
func WithWallet(wallet *session.Cache) Option {
	return func(c *Config) {
		c.Wallet = wallet
	}
}

// WithSigner sets the signer used to bind the wallet.
func WithSigner(s signer.Signer) Option {
	return func(c *Config) {
		c.Signer = s
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithInitialTab selects the tab shown first.
func WithInitialTab(name string) Option {
	return func(c *Config) {
		c.InitialTab = name
	}
}

// WithIntervals sets the screen refresh cadences.
func WithIntervals(i Intervals) Option {
	return func(c *Config) {
		c.Intervals = i
	}
}

// WithReview configures the review deck.
func WithReview(tags []string, limit int, threshold float64) Option {
	return func(c *Config) {
		c.Tags = tags
		if limit > 0 {
			c.ReviewLimit = limit
		}
		if threshold > 0 {
			c.SwipeThreshold = threshold
		}
	}
}

// WithOrders sets the order list size and the ticket defaults.
func WithOrders(limit int, defaults screen.OrderForm) Option {
	return func(c *Config) {
		if limit > 0 {
			c.OrderLimit = limit
		}
		c.OrderDefaults = defaults
	}
}

// WithMouse toggles mouse gestures.
func WithMouse(enabled bool) Option {
	return func(c *Config) {
		c.MouseSupport = enabled
	}
}
