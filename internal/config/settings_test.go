package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hyperclaw/internal/common"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE", "")
	t.Setenv("WALLET_PRIVATE_KEY", "")

	s, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, s.API.BaseURL)
	assert.Equal(t, 15*time.Second, s.API.Timeout)
	assert.Equal(t, 4*time.Second, s.Sync.Overview)
	assert.Equal(t, 4*time.Second, s.Sync.Strategy)
	assert.Equal(t, 4*time.Second, s.Sync.Trade)
	assert.Equal(t, 5*time.Second, s.Sync.Review)
	assert.Equal(t, time.Duration(0), s.Sync.Me)
	assert.Equal(t, 2*time.Second, s.Session.TTL)
	assert.InDelta(t, 20.0, s.Review.SwipeThreshold, 1e-9)
	assert.Equal(t, 20, s.Review.Limit)
	assert.Equal(t, DefaultReviewTags, s.Review.Tags)
	assert.Equal(t, "BTC", s.Order.Symbol)
	assert.Equal(t, "99500", s.Order.StopLoss)
	assert.Equal(t, "paper", s.Order.Execution)
	assert.Empty(t, s.Metrics.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HYPERCLAW_API_BASE_URL", "https://api.example.com")
	t.Setenv("HYPERCLAW_SYNC_REVIEW_INTERVAL", "10s")
	t.Setenv("HYPERCLAW_REVIEW_SWIPE_THRESHOLD", "80")

	s, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", s.API.BaseURL)
	assert.Equal(t, 10*time.Second, s.Sync.Review)
	assert.InDelta(t, 80.0, s.Review.SwipeThreshold, 1e-9)
}

func TestLoad_DirectEnvFallback(t *testing.T) {
	t.Setenv("API_BASE", "http://backend:8080")
	t.Setenv("WALLET_PRIVATE_KEY", "0xabc")

	s, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8080", s.API.BaseURL)
	assert.Equal(t, "0xabc", s.Wallet.PrivateKey)

	v := newViper()
	v.Set("api.base_url", "http://configured:9000")
	s, err = Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://configured:9000", s.API.BaseURL, "explicit setting wins over API_BASE")
}

func TestLoad_Tags(t *testing.T) {
	v := newViper()
	v.Set("review.tags", []string{" breakout ", "", "breakout", "fade"})

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"breakout", "fade"}, s.Review.Tags)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "relative base url", key: "api.base_url", value: "localhost"},
		{name: "zero timeout", key: "api.timeout", value: "0s"},
		{name: "negative interval", key: "sync.trade_interval", value: "-1s"},
		{name: "negative ttl", key: "session.ttl", value: "-1s"},
		{name: "zero threshold", key: "review.swipe_threshold", value: 0},
		{name: "zero limit", key: "orders.limit", value: 0},
		{name: "too many tags", key: "review.tags", value: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/trader")
	t.Setenv("HC_DIR", "/var/hc")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: "/home/trader"},
		{in: "~/logs/hc.log", want: "/home/trader/logs/hc.log"},
		{in: "$HC_DIR/hc.log", want: "/var/hc/hc.log"},
		{in: "/abs/path", want: "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
