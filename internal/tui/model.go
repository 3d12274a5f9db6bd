package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/review"
	"github.com/Veraticus/hyperclaw/internal/screen"
	"github.com/Veraticus/hyperclaw/internal/tui/components"
	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

// Model holds the console state.
type Model struct {
	ctx       context.Context
	screens   *screens
	theme     themes.Theme
	help      help.Model
	deck      components.ReviewDeckModel
	orderForm components.OrderFormModel
	keymap    KeyMap
	notice    string
	config    Config
	tab       int
	width     int
	height    int
	noticeErr bool
	showHelp  bool
	quitting  bool
}

// newModel creates a model. Screens are mounted by Init.
func newModel(ctx context.Context, cfg Config) Model {
	tab := slices.Index(screen.Names, cfg.InitialTab)
	if tab < 0 {
		tab = 0
	}

	deck := components.NewReviewDeckModel(cfg.Theme)
	deck.Resize(cfg.Width - 4)

	return Model{
		ctx:       ctx,
		screens:   newScreens(cfg),
		theme:     cfg.Theme,
		help:      help.New(),
		deck:      deck,
		orderForm: components.NewOrderFormModel(cfg.Theme, cfg.OrderDefaults),
		keymap:    DefaultKeyMap(),
		config:    cfg,
		tab:       tab,
		width:     cfg.Width,
		height:    cfg.Height,
	}
}

// Init mounts the initial tab.
func (m Model) Init() tea.Cmd {
	m.screens.mount(m.ctx, m.tabName())
	return tea.Batch(m.waitForChange(), m.deck.Init())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.deck.Resize(msg.Width - 4)
		return m, nil

	case changedMsg:
		return m, m.waitForChange()

	case actionDoneMsg:
		m.handleActionDone(msg)
		return m, nil

	case reviewSettledMsg:
		if msg.err != nil {
			m.setNotice(common.UserMessage(msg.err, "review failed"), true)
		} else {
			m.setNotice(fmt.Sprintf("Fill #%d marked %s", msg.fillID, msg.verdict), false)
		}
		return m, nil

	case noticeMsg:
		m.setNotice(msg.text, msg.isErr)
		return m, nil

	case components.NoteSubmittedMsg:
		if s := m.reviewSession(); s != nil {
			if err := s.SetNote(msg.Note); err != nil {
				m.setNotice(common.UserMessage(err, "note failed"), true)
			}
		}
		return m, nil

	case components.NoteCancelledMsg, components.OrderEditDoneMsg:
		return m, nil

	case components.OrderSubmitMsg:
		return m, m.placeOrder(msg.Form)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.deck, cmd = m.deck.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	// Text entry owns the keyboard until it is submitted or abandoned.
	if m.deck.Editing() {
		var cmd tea.Cmd
		m.deck, cmd = m.deck.Update(msg)
		return m, cmd
	}
	if m.orderForm.Editing() {
		var cmd tea.Cmd
		m.orderForm, cmd = m.orderForm.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keymap.NextTab):
		return m.switchTab((m.tab + 1) % len(screen.Names))
	case key.Matches(msg, m.keymap.PrevTab):
		return m.switchTab((m.tab + len(screen.Names) - 1) % len(screen.Names))
	case key.Matches(msg, m.keymap.Refresh):
		m.screens.Trigger()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.tabName() {
	case screen.NameReview:
		cmd = m.handleReviewKey(msg)
	case screen.NameStrategy:
		cmd = m.handleStrategyKey(msg)
	case screen.NameTrade:
		cmd = m.handleTradeKey(msg)
	case screen.NameMe:
		cmd = m.handleMeKey(msg)
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.screens.unmount()
	return m, tea.Quit
}

func (m Model) switchTab(tab int) (tea.Model, tea.Cmd) {
	if tab == m.tab {
		return m, nil
	}
	m.tab = tab
	m.notice = ""
	m.screens.mount(m.ctx, m.tabName())
	return m, nil
}

func (m Model) tabName() string {
	return screen.Names[m.tab]
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) handleActionDone(msg actionDoneMsg) {
	if msg.err != nil {
		if errors.Is(msg.err, common.ErrBusy) {
			m.setNotice(common.ErrBusy.Error(), true)
			return
		}
		m.setNotice(common.UserMessage(msg.err, msg.action+" failed"), true)
		return
	}

	switch msg.action {
	case screen.ActionOrder:
		m.setNotice(fmt.Sprintf("Order #%d placed", msg.orderID), false)
	case screen.ActionBind:
		m.setNotice("Wallet bound", false)
	case screen.ActionApprove:
		m.setNotice("Trading agent approved", false)
	case screen.ActionSetBias:
		m.setNotice("Bias updated", false)
	case screen.ActionToggle:
		m.setNotice("Auto-trading updated", false)
	default:
		m.setNotice(msg.action+" done", false)
	}
}

// waitForChange turns engine change notifications into messages.
func (m Model) waitForChange() tea.Cmd {
	ch := m.screens.changes
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case name := <-ch:
			return changedMsg{screen: name}
		case <-ctx.Done():
			return nil
		}
	}
}

// mutate runs fn off the event loop and reports its outcome.
func (m Model) mutate(name, action string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{screen: name, action: action, err: fn(ctx)}
	}
}

func (m Model) reviewSession() *review.Session {
	if m.screens.review == nil {
		return nil
	}
	return m.screens.review.Session()
}

// Verdict dispatch runs off the event loop; the session's pending flag
// keeps the card locked until it settles.
func (m Model) commitReview(v model.Verdict) tea.Cmd {
	r := m.screens.review
	if r == nil {
		return nil
	}
	s := r.Session()
	if s == nil {
		return nil
	}
	payload, err := s.BeginCommit(v)
	if err != nil {
		return nil
	}

	ctx := m.ctx
	return func() tea.Msg {
		err := r.Submit(ctx, payload)
		r.Settle(ctx, payload.FillID, err)
		return reviewSettledMsg{fillID: payload.FillID, verdict: v, err: err}
	}
}

func (m *Model) handleReviewKey(msg tea.KeyMsg) tea.Cmd {
	r := m.screens.review
	if r == nil {
		return nil
	}

	switch {
	case key.Matches(msg, m.keymap.Good):
		return m.commitReview(model.VerdictGood)
	case key.Matches(msg, m.keymap.Bad):
		return m.commitReview(model.VerdictBad)
	case key.Matches(msg, m.keymap.Restart):
		if err := r.Restart(); err != nil {
			m.setNotice(common.UserMessage(err, "restart failed"), true)
		}
		return nil
	}

	s := r.Session()
	if s == nil || s.State().Exhausted || s.Pending() {
		return nil
	}

	if key.Matches(msg, m.keymap.Note) {
		return m.deck.EditNote(s.Draft().Note())
	}

	if tag, ok := tagForKey(msg, r.Tags()); ok {
		if err := s.ToggleTag(tag); err != nil {
			m.setNotice(common.UserMessage(err, "tag failed"), true)
		}
	}
	return nil
}

func tagForKey(msg tea.KeyMsg, tags []string) (string, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return "", false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return "", false
	}
	i := int(r - '1')
	if i >= len(tags) {
		return "", false
	}
	return tags[i], true
}

func (m Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.tabName() != screen.NameReview || m.deck.Editing() {
		return nil
	}
	r := m.screens.review
	if r == nil {
		return nil
	}
	s := r.Session()
	if s == nil {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			s.BeginGesture(float64(msg.X))
		}
	case tea.MouseActionRelease:
		if v, ok := s.EndGesture(float64(msg.X)); ok {
			return m.commitReview(v)
		}
	}
	return nil
}

func (m Model) handleStrategyKey(msg tea.KeyMsg) tea.Cmd {
	st := m.screens.strategy
	if st == nil || st.Busy() {
		return nil
	}

	var bias model.Bias
	switch {
	case key.Matches(msg, m.keymap.BiasLong):
		bias = model.BiasLong
	case key.Matches(msg, m.keymap.BiasShort):
		bias = model.BiasShort
	case key.Matches(msg, m.keymap.BiasHybrid):
		bias = model.BiasHybrid
	case key.Matches(msg, m.keymap.ToggleAuto):
		if !st.CanToggleAutoTrading() {
			return gateNotice(gate.CheckAutoTrading(st.Snapshot().Wallet, true))
		}
		return m.mutate(screen.NameStrategy, screen.ActionToggle, st.ToggleAutoTrading)
	default:
		return nil
	}

	return m.mutate(screen.NameStrategy, screen.ActionSetBias, func(ctx context.Context) error {
		return st.SetBias(ctx, bias)
	})
}

func (m *Model) handleTradeKey(msg tea.KeyMsg) tea.Cmd {
	t := m.screens.trade
	if t == nil {
		return nil
	}

	switch {
	case key.Matches(msg, m.keymap.EditOrder):
		return m.orderForm.Focus()
	case key.Matches(msg, m.keymap.PlaceOrder):
		return m.placeOrder(m.orderForm.Values())
	}
	return nil
}

func (m Model) placeOrder(form screen.OrderForm) tea.Cmd {
	t := m.screens.trade
	if t == nil || t.Busy() {
		return nil
	}
	if !t.CanTrade() {
		return gateNotice(gate.CheckTrade(t.Snapshot().Wallet))
	}

	ctx := m.ctx
	return func() tea.Msg {
		id, err := t.PlaceOrder(ctx, form)
		return actionDoneMsg{screen: screen.NameTrade, action: screen.ActionOrder, orderID: id, err: err}
	}
}

func (m Model) handleMeKey(msg tea.KeyMsg) tea.Cmd {
	me := m.screens.me
	if me == nil || me.Busy() {
		return nil
	}

	switch {
	case key.Matches(msg, m.keymap.BindWallet):
		if m.config.Signer == nil {
			return notice("no signing wallet configured", true)
		}
		s := m.config.Signer
		return m.mutate(screen.NameMe, screen.ActionBind, func(ctx context.Context) error {
			return me.BindWallet(ctx, s)
		})
	case key.Matches(msg, m.keymap.ApproveAgent):
		if !me.CanApproveAgent() {
			return gateNotice(gate.CheckApproveAgent(me.Snapshot().Wallet))
		}
		return m.mutate(screen.NameMe, screen.ActionApprove, me.ApproveAgent)
	}
	return nil
}

func notice(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{text: text, isErr: isErr}
	}
}

func gateNotice(err error) tea.Cmd {
	return notice(common.UserMessage(err, "not permitted"), true)
}
