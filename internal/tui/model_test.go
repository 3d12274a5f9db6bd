package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hyperclaw/internal/api"
	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/signer"
	tuitest "github.com/Veraticus/hyperclaw/internal/tui/testing"
)

const (
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	waitFor     = 2 * time.Second
	tick        = 5 * time.Millisecond
)

func testFills(ids ...int64) []model.Fill {
	fills := make([]model.Fill, 0, len(ids))
	for _, id := range ids {
		fills = append(fills, model.Fill{
			ID:          id,
			Symbol:      "BTC",
			Side:        model.SideBuy,
			Status:      "filled",
			Price:       decimal.NewFromInt(100000),
			Size:        decimal.RequireFromString("0.002"),
			RealizedPnL: decimal.RequireFromString("3.5"),
			CreatedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		})
	}
	return fills
}

func newTestModel(t *testing.T, backend *service.MockBackend, opts ...Option) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := defaultConfig()
	cfg.Backend = backend
	cfg.Wallet = session.New(backend, session.WithTTL(0))
	cfg.Intervals = Intervals{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := newModel(ctx, cfg)
	t.Cleanup(m.screens.unmount)
	m.Init()
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// sendAll feeds msgs and then runs each resulting command once, feeding
// its message back.
func sendAll(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = send(t, m, msg)
		if out := tuitest.RunCmd(cmd, waitFor); out != nil {
			m, _ = send(t, m, out)
		}
	}
	return m
}

func waitForSession(t *testing.T, m Model) {
	t.Helper()
	require.NotNil(t, m.screens.review)
	require.Eventually(t, func() bool {
		return m.screens.review.Session() != nil
	}, waitFor, tick)
}

func TestNew(t *testing.T) {
	backend := service.NewMockBackend()

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "missing backend", opts: []Option{WithWallet(session.New(backend))}},
		{name: "missing wallet", opts: []Option{WithBackend(backend)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.opts...)
			require.ErrorIs(t, err, common.ErrMissingConfig)
		})
	}

	c, err := New(context.Background(), WithBackend(backend), WithWallet(session.New(backend)))
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestModel_InitialTab(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		want    string
	}{
		{name: "default", initial: "", want: screen.NameOverview},
		{name: "review", initial: screen.NameReview, want: screen.NameReview},
		{name: "me", initial: screen.NameMe, want: screen.NameMe},
		{name: "unknown", initial: "settings", want: screen.NameOverview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, service.NewMockBackend(), WithInitialTab(tt.initial))
			assert.Equal(t, tt.want, m.tabName())
			assert.Equal(t, tt.want, m.screens.current().Name())
		})
	}
}

func TestModel_SwitchTabRemounts(t *testing.T) {
	m := newTestModel(t, service.NewMockBackend())
	overview := m.screens.overview
	require.NotNil(t, overview)

	m, _ = send(t, m, tuitest.KeyTab())
	assert.Equal(t, screen.NameStrategy, m.tabName())
	assert.Nil(t, m.screens.overview)
	assert.NotNil(t, m.screens.strategy)
	assert.True(t, overview.Stopped())

	m, _ = send(t, m, tuitest.KeyShiftTab())
	m, _ = send(t, m, tuitest.KeyShiftTab())
	assert.Equal(t, screen.NameMe, m.tabName())
	assert.NotNil(t, m.screens.me)
	assert.NotSame(t, overview, m.screens.overview)
}

func TestModel_ChangedMsgWaitsAgain(t *testing.T) {
	m := newTestModel(t, service.NewMockBackend())
	_, cmd := send(t, m, changedMsg{screen: screen.NameOverview})
	assert.NotNil(t, cmd)
}

func TestModel_TriggerRefreshesActiveScreen(t *testing.T) {
	backend := service.NewMockBackend()
	m := newTestModel(t, backend)

	require.Eventually(t, func() bool {
		return m.screens.overview.Loaded()
	}, waitFor, tick)
	before := backend.CallCount(service.MethodAccountState)

	m.screens.Trigger()
	require.Eventually(t, func() bool {
		return backend.CallCount(service.MethodAccountState) > before
	}, waitFor, tick)
}

func TestModel_ReviewKeys(t *testing.T) {
	backend := service.NewMockBackend()
	backend.SetFills(testFills(1, 2))
	m := newTestModel(t, backend, WithInitialTab(screen.NameReview), WithReview([]string{"breakout", "chased"}, 0, 0))
	waitForSession(t, m)
	s := m.screens.review.Session()

	m = sendAll(t, m, tuitest.KeyPress("2"))
	assert.True(t, s.Draft().HasTag("chased"))

	m, _ = send(t, m, tuitest.KeyPress("n"))
	require.True(t, m.deck.Editing())
	for _, msg := range tuitest.TypeText("late") {
		m, _ = send(t, m, msg)
	}
	m = sendAll(t, m, tuitest.KeyEnter())
	assert.False(t, m.deck.Editing())
	assert.Equal(t, "late", s.Draft().Note())

	m, cmd := send(t, m, tuitest.KeyPress("g"))
	require.NotNil(t, cmd)
	assert.True(t, s.Pending())

	m, _ = send(t, m, cmd())
	assert.False(t, s.Pending())
	assert.Equal(t, 1, s.State().Cursor)
	assert.Equal(t, "Fill #1 marked good", m.notice)

	reviews := backend.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, model.ReviewVerdict{FillID: 1, Verdict: model.VerdictGood, Tags: []string{"chased"}, Notes: "late"}, reviews[0])
	assert.True(t, s.Draft().IsEmpty())
}

func TestModel_ReviewIgnoresInputWhilePending(t *testing.T) {
	backend := service.NewMockBackend()
	backend.SetFills(testFills(1, 2))
	release := backend.Block(service.MethodSubmitReview)
	defer release()

	m := newTestModel(t, backend, WithInitialTab(screen.NameReview))
	waitForSession(t, m)
	s := m.screens.review.Session()

	m, cmd := send(t, m, tuitest.KeyPress("b"))
	require.NotNil(t, cmd)
	require.True(t, s.Pending())

	m, second := send(t, m, tuitest.KeyPress("g"))
	assert.Nil(t, second)
	m, gesture := send(t, m, tuitest.MousePress(0, 5))
	assert.Nil(t, gesture)
	_, gesture = send(t, m, tuitest.MouseRelease(60, 5))
	assert.Nil(t, gesture)

	release()
	msg := cmd()
	assert.Equal(t, reviewSettledMsg{fillID: 1, verdict: model.VerdictBad}, msg)
	assert.Len(t, backend.Reviews(), 1)
}

func TestModel_ReviewFailureKeepsCard(t *testing.T) {
	backend := service.NewMockBackend()
	backend.SetFills(testFills(1))
	backend.Fail(service.MethodSubmitReview, &api.Error{Kind: common.ErrMutation, Message: "fill not found", Status: 404})

	m := newTestModel(t, backend, WithInitialTab(screen.NameReview))
	waitForSession(t, m)
	s := m.screens.review.Session()

	m = sendAll(t, m, tuitest.KeyPress("g"))
	assert.Equal(t, "fill not found", m.notice)
	assert.True(t, m.noticeErr)
	assert.Equal(t, 0, s.State().Cursor)
	assert.Equal(t, "fill not found", s.Err())
	assert.Contains(t, tuitest.StripANSI(m.View()), "fill not found")
}

func TestModel_ReviewGesture(t *testing.T) {
	tests := []struct {
		name    string
		want    model.Verdict
		dx      int
		commits bool
	}{
		{name: "drag right", dx: 30, want: model.VerdictGood, commits: true},
		{name: "drag left", dx: -30, want: model.VerdictBad, commits: true},
		{name: "exactly threshold", dx: 20, want: model.VerdictGood, commits: true},
		{name: "inside dead zone", dx: 12, commits: false},
		{name: "tap", dx: 0, commits: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := service.NewMockBackend()
			backend.SetFills(testFills(1, 2))
			m := newTestModel(t, backend, WithInitialTab(screen.NameReview))
			waitForSession(t, m)

			m = sendAll(t, m, tuitest.Drag(40, tt.dx, 6)...)

			reviews := backend.Reviews()
			if !tt.commits {
				assert.Empty(t, reviews)
				assert.Equal(t, 0, m.screens.review.Session().State().Cursor)
				return
			}
			require.Len(t, reviews, 1)
			assert.Equal(t, tt.want, reviews[0].Verdict)
		})
	}
}

func TestModel_ReviewRestart(t *testing.T) {
	backend := service.NewMockBackend()
	backend.SetFills(testFills(1))
	m := newTestModel(t, backend, WithInitialTab(screen.NameReview))
	waitForSession(t, m)

	m = sendAll(t, m, tuitest.KeyPress("r"))
	assert.Equal(t, "finish the current fills first", m.notice)

	m = sendAll(t, m, tuitest.KeyPress("g"))
	require.True(t, m.screens.review.Session().State().Exhausted)

	backend.SetFills(testFills(2, 1))
	require.NoError(t, m.screens.review.Load(context.Background()))
	assert.Equal(t, 1, m.screens.review.NewFills())

	_ = sendAll(t, m, tuitest.KeyPress("r"))
	s := m.screens.review.Session()
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(2))
}

func TestModel_StrategyActions(t *testing.T) {
	backend := service.NewMockBackend()
	m := newTestModel(t, backend, WithInitialTab(screen.NameStrategy))

	m = sendAll(t, m, tuitest.KeyPress("a"))
	assert.Equal(t, "connect a wallet first", m.notice)
	assert.Zero(t, backend.CallCount(service.MethodSetAutoTrading))

	m = sendAll(t, m, tuitest.KeyPress("s"))
	assert.Equal(t, "Bias updated", m.notice)
	assert.Equal(t, 1, backend.CallCount(service.MethodSetBias))

	status, err := backend.StrategyStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.BiasShort, status.Bias)
}

func TestModel_StrategyToggleWhenApproved(t *testing.T) {
	backend := service.NewMockBackend()
	backend.SetSession(model.WalletSession{Address: testAddress, Connected: true, AgentApproved: true})
	m := newTestModel(t, backend, WithInitialTab(screen.NameStrategy))
	require.Eventually(t, func() bool {
		return m.screens.strategy.Loaded()
	}, waitFor, tick)

	m = sendAll(t, m, tuitest.KeyPress("a"))
	assert.Equal(t, "Auto-trading updated", m.notice)
	assert.False(t, m.noticeErr)

	status, err := backend.StrategyStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.AutoTrading)
}

func TestModel_TradeGated(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		session model.WalletSession
	}{
		{name: "not connected", want: "connect a wallet first"},
		{name: "agent not approved", session: model.WalletSession{Address: testAddress, Connected: true}, want: "approve the trading agent first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := service.NewMockBackend()
			backend.SetSession(tt.session)
			m := newTestModel(t, backend, WithInitialTab(screen.NameTrade))
			require.Eventually(t, func() bool {
				return m.screens.trade.Loaded()
			}, waitFor, tick)

			m = sendAll(t, m, tuitest.KeyEnter())
			assert.Equal(t, tt.want, m.notice)
			assert.Zero(t, backend.CallCount(service.MethodPlaceOrder))
		})
	}
}

func TestModel_TradePlaceOrder(t *testing.T) {
	backend := service.NewMockBackend()
	backend.SetSession(model.WalletSession{Address: testAddress, Connected: true, AgentApproved: true})
	m := newTestModel(t, backend, WithInitialTab(screen.NameTrade))
	require.Eventually(t, func() bool {
		return m.screens.trade.CanTrade()
	}, waitFor, tick)

	m = sendAll(t, m, tuitest.KeyEnter())
	assert.Equal(t, "Order #1 placed", m.notice)
	assert.Equal(t, int64(1), m.screens.trade.LastOrderID())

	calls := backend.Calls()
	var req model.OrderRequest
	for _, c := range calls {
		if c.Method == service.MethodPlaceOrder {
			req = c.Args.(model.OrderRequest)
		}
	}
	assert.Equal(t, "BTC", req.Symbol)
	assert.True(t, req.StopLoss.Equal(decimal.NewFromInt(99500)))
	assert.True(t, req.TakeProfit.Equal(decimal.NewFromInt(100800)))
}

func TestModel_TradeEditTicket(t *testing.T) {
	backend := service.NewMockBackend()
	m := newTestModel(t, backend, WithInitialTab(screen.NameTrade))

	m, _ = send(t, m, tuitest.KeyPress("e"))
	require.True(t, m.orderForm.Editing())

	// q is typed into the ticket instead of quitting.
	m, _ = send(t, m, tuitest.KeyPress("q"))
	assert.False(t, m.quitting)

	m = sendAll(t, m, tuitest.KeyEsc())
	assert.False(t, m.orderForm.Editing())
}

func TestModel_MeBind(t *testing.T) {
	backend := service.NewMockBackend()

	m := newTestModel(t, backend, WithInitialTab(screen.NameMe))
	m = sendAll(t, m, tuitest.KeyPress("w"))
	assert.Equal(t, "no signing wallet configured", m.notice)

	m = sendAll(t, m, tuitest.KeyPress("a"))
	assert.Equal(t, "connect a wallet first", m.notice)

	static := signer.NewStaticSigner(testAddress, "0xdeadbeef", "HyperClaw login nonce 1")
	m = newTestModel(t, backend, WithInitialTab(screen.NameMe), WithSigner(static))
	m = sendAll(t, m, tuitest.KeyPress("w"))
	assert.Equal(t, "Wallet bound", m.notice)
	assert.Equal(t, 1, backend.CallCount(service.MethodConnectWallet))

	require.Eventually(t, func() bool {
		return m.screens.me.CanApproveAgent()
	}, waitFor, tick)
	m = sendAll(t, m, tuitest.KeyPress("a"))
	assert.Equal(t, "Trading agent approved", m.notice)
	assert.Contains(t, tuitest.StripANSI(m.View()), "approved")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, service.NewMockBackend())
	overview := m.screens.overview

	m, cmd := send(t, m, tuitest.KeyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.True(t, overview.Stopped())
	assert.Empty(t, m.View())
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, service.NewMockBackend())
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 200, Height: 60})

	out := tuitest.StripANSI(m.View())
	assert.True(t, tuitest.ContainsInOrder(out, "HyperClaw", "Overview", "Strategy", "Trade", "Review", "Me"))
	assert.Contains(t, out, "Wallet not connected")

	m, _ = send(t, m, tuitest.KeyPress("?"))
	assert.Contains(t, tuitest.StripANSI(m.View()), "bias long")
}
