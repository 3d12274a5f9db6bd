// Package config resolves console settings from flags, the config file and
// the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/hyperclaw/internal/common"
)

const (
	// EnvPrefix prefixes every environment override (HYPERCLAW_API_BASE_URL).
	EnvPrefix = "HYPERCLAW"
	// DefaultBaseURL is the local backend.
	DefaultBaseURL = "http://localhost:8080"
)

// DefaultReviewTags are the quick tags offered on review cards.
var DefaultReviewTags = []string{
	"low-volume rally",
	"support breakout",
	"chased the top",
	"counter-trend dip buy",
}

// Settings is the resolved console configuration.
type Settings struct {
	Logging LoggingSettings
	API     APISettings
	Wallet  WalletSettings
	Order   OrderDefaults
	Metrics MetricsSettings
	Review  ReviewSettings
	Sync    SyncSettings
	Session SessionSettings
	Orders  OrdersSettings
}

// LoggingSettings configures slog output.
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// APISettings locates the backend.
type APISettings struct {
	BaseURL string
	Token   string
	WSURL   string
	Timeout time.Duration
}

// SyncSettings holds the per-screen refresh cadence. Zero loads once.
type SyncSettings struct {
	Overview time.Duration
	Strategy time.Duration
	Trade    time.Duration
	Review   time.Duration
	Me       time.Duration
}

// SessionSettings configures the wallet session cache.
type SessionSettings struct {
	TTL time.Duration
}

// ReviewSettings configures the review deck.
type ReviewSettings struct {
	Tags  []string
	Limit int
	// SwipeThreshold is the drag distance, in terminal columns, that
	// commits a verdict.
	SwipeThreshold float64
}

// OrdersSettings configures the order list.
type OrdersSettings struct {
	Limit int
}

// OrderDefaults prefill the order ticket.
type OrderDefaults struct {
	Symbol     string
	Side       string
	Type       string
	Execution  string
	Size       string
	EntryPrice string
	StopLoss   string
	TakeProfit string
}

// WalletSettings select the signer used to bind a session.
type WalletSettings struct {
	PrivateKey string
	Address    string
	Signature  string
	Message    string
}

// MetricsSettings configures the /metrics listener. Empty disables it.
type MetricsSettings struct {
	Addr string
}

// BindEnv makes every key overridable from HYPERCLAW_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "~/.local/state/hyperclaw/hyperclaw.log")

	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.ws_url", "")

	v.SetDefault("sync.overview_interval", 4*time.Second)
	v.SetDefault("sync.strategy_interval", 4*time.Second)
	v.SetDefault("sync.trade_interval", 4*time.Second)
	v.SetDefault("sync.review_interval", 5*time.Second)
	v.SetDefault("sync.me_interval", time.Duration(0))

	v.SetDefault("session.ttl", 2*time.Second)

	v.SetDefault("review.limit", 20)
	v.SetDefault("review.swipe_threshold", 20.0)
	v.SetDefault("review.tags", DefaultReviewTags)

	v.SetDefault("orders.limit", 20)

	v.SetDefault("order.symbol", "BTC")
	v.SetDefault("order.side", "Buy")
	v.SetDefault("order.type", "market")
	v.SetDefault("order.execution", "paper")
	v.SetDefault("order.size", "0.002")
	v.SetDefault("order.entry_price", "100000")
	v.SetDefault("order.stop_loss", "99500")
	v.SetDefault("order.take_profit", "100800")

	v.SetDefault("metrics.addr", "")
}

// Load resolves settings from v. Precedence:
// 1. Viper (flags, config file, HYPERCLAW_ env vars)
// 2. Direct environment variables (API_BASE, WALLET_PRIVATE_KEY)
// 3. Defaults
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
		API: APISettings{
			BaseURL: v.GetString("api.base_url"),
			Token:   v.GetString("api.token"),
			WSURL:   v.GetString("api.ws_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Sync: SyncSettings{
			Overview: v.GetDuration("sync.overview_interval"),
			Strategy: v.GetDuration("sync.strategy_interval"),
			Trade:    v.GetDuration("sync.trade_interval"),
			Review:   v.GetDuration("sync.review_interval"),
			Me:       v.GetDuration("sync.me_interval"),
		},
		Session: SessionSettings{
			TTL: v.GetDuration("session.ttl"),
		},
		Review: ReviewSettings{
			Limit:          v.GetInt("review.limit"),
			SwipeThreshold: v.GetFloat64("review.swipe_threshold"),
			Tags:           cleanTags(v.GetStringSlice("review.tags")),
		},
		Orders: OrdersSettings{
			Limit: v.GetInt("orders.limit"),
		},
		Order: OrderDefaults{
			Symbol:     v.GetString("order.symbol"),
			Side:       v.GetString("order.side"),
			Type:       v.GetString("order.type"),
			Execution:  v.GetString("order.execution"),
			Size:       v.GetString("order.size"),
			EntryPrice: v.GetString("order.entry_price"),
			StopLoss:   v.GetString("order.stop_loss"),
			TakeProfit: v.GetString("order.take_profit"),
		},
		Wallet: WalletSettings{
			PrivateKey: v.GetString("wallet.private_key"),
			Address:    v.GetString("wallet.address"),
			Signature:  v.GetString("wallet.signature"),
			Message:    v.GetString("wallet.message"),
		},
		Metrics: MetricsSettings{
			Addr: v.GetString("metrics.addr"),
		},
	}

	if s.API.BaseURL == "" || s.API.BaseURL == DefaultBaseURL {
		if env := os.Getenv("API_BASE"); env != "" {
			s.API.BaseURL = env
		}
	}
	if s.Wallet.PrivateKey == "" {
		s.Wallet.PrivateKey = os.Getenv("WALLET_PRIVATE_KEY")
	}
	if len(s.Review.Tags) == 0 {
		s.Review.Tags = append([]string(nil), DefaultReviewTags...)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	u, err := url.ParseRequestURI(strings.TrimSpace(s.API.BaseURL))
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", common.ErrInvalidConfig, s.API.BaseURL)
	}
	if s.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}

	intervals := map[string]time.Duration{
		"sync.overview_interval": s.Sync.Overview,
		"sync.strategy_interval": s.Sync.Strategy,
		"sync.trade_interval":    s.Sync.Trade,
		"sync.review_interval":   s.Sync.Review,
		"sync.me_interval":       s.Sync.Me,
	}
	for key, d := range intervals {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, key)
		}
	}

	if s.Session.TTL < 0 {
		return fmt.Errorf("%w: session.ttl must not be negative", common.ErrInvalidConfig)
	}
	if s.Review.SwipeThreshold <= 0 {
		return fmt.Errorf("%w: review.swipe_threshold must be positive", common.ErrInvalidConfig)
	}
	if s.Review.Limit <= 0 || s.Orders.Limit <= 0 {
		return fmt.Errorf("%w: review.limit and orders.limit must be positive", common.ErrInvalidConfig)
	}
	if len(s.Review.Tags) > 9 {
		return fmt.Errorf("%w: at most 9 review tags are supported, got %d", common.ErrInvalidConfig, len(s.Review.Tags))
	}
	return nil
}

// ExpandPath resolves a leading ~ to the home directory and expands
// $VARS in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
