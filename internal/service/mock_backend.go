package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/hyperclaw/internal/model"
)

// MockBackend is an in-memory Backend for tests and offline demos. It
// mirrors the server's validation rules closely enough to exercise the
// client's error paths.
type MockBackend struct {
	errs     map[string]error
	session  model.WalletSession
	account  model.AccountSnapshot
	status   model.StrategyStatus
	calls    []MockCall
	fills    []model.Fill
	reviews  []model.ReviewVerdict
	derives  []model.StrategyDerive
	orders   []model.Order
	nextID   int64
	mu       sync.Mutex
	blockers map[string]chan struct{}
}

// MockCall records one backend invocation.
type MockCall struct {
	Args   any
	Method string
}

// Mock method names, usable with FailNext, Fail and Block.
const (
	MethodFills           = "Fills"
	MethodSubmitReview    = "SubmitReview"
	MethodAccountState    = "AccountState"
	MethodWalletSession   = "WalletSession"
	MethodConnectWallet   = "ConnectWallet"
	MethodApproveAgent    = "ApproveAgent"
	MethodStrategyStatus  = "StrategyStatus"
	MethodStrategyDerives = "StrategyDerives"
	MethodSetAutoTrading  = "SetAutoTrading"
	MethodSetBias         = "SetBias"
	MethodPlaceOrder      = "PlaceOrder"
	MethodOrders          = "Orders"
)

var _ Backend = (*MockBackend)(nil)

// NewMockBackend creates an empty backend with the default strategy status.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		errs:     make(map[string]error),
		blockers: make(map[string]chan struct{}),
		status:   model.DefaultStrategyStatus(),
		account:  model.AccountSnapshot{Bias: model.BiasHybrid},
		nextID:   1,
	}
}

// SetFills replaces the fill list; it is returned newest first as given.
func (m *MockBackend) SetFills(fills []model.Fill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fills = append([]model.Fill(nil), fills...)
}

// AddFill prepends a fill, as a new execution would.
func (m *MockBackend) AddFill(fill model.Fill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fills = append([]model.Fill{fill}, m.fills...)
}

// SetSession replaces the wallet session.
func (m *MockBackend) SetSession(session model.WalletSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session
}

// SetStatus replaces the strategy status.
func (m *MockBackend) SetStatus(status model.StrategyStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// SetAccount replaces the account snapshot.
func (m *MockBackend) SetAccount(account model.AccountSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = account
}

// SetDerives replaces the strategy derives.
func (m *MockBackend) SetDerives(derives []model.StrategyDerive) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.derives = append([]model.StrategyDerive(nil), derives...)
}

// Fail makes every call to method return err until cleared with a nil err.
func (m *MockBackend) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
		return
	}
	m.errs[method] = err
}

// Block makes calls to method wait until the returned release func is called.
func (m *MockBackend) Block(method string) (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.blockers[method] = ch
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.blockers, method)
			m.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns the recorded calls.
func (m *MockBackend) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// CallCount returns how many times method was invoked.
func (m *MockBackend) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reviews returns the accepted verdicts.
func (m *MockBackend) Reviews() []model.ReviewVerdict {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ReviewVerdict(nil), m.reviews...)
}

// begin records the call, honors Block, and returns the injected error.
func (m *MockBackend) begin(ctx context.Context, method string, args any) error {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Method: method, Args: args})
	blocker := m.blockers[method]
	err := m.errs[method]
	m.mu.Unlock()

	if blocker != nil {
		select {
		case <-blocker:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Fills implements FillReader.
func (m *MockBackend) Fills(ctx context.Context, limit int) ([]model.Fill, error) {
	if err := m.begin(ctx, MethodFills, limit); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.fills) {
		limit = len(m.fills)
	}
	return append([]model.Fill(nil), m.fills[:limit]...), nil
}

// SubmitReview implements ReviewSubmitter.
func (m *MockBackend) SubmitReview(ctx context.Context, verdict model.ReviewVerdict) error {
	if err := m.begin(ctx, MethodSubmitReview, verdict); err != nil {
		return err
	}
	if verdict.FillID <= 0 {
		return errors.New("fillId is required")
	}
	if !verdict.Verdict.Valid() {
		return errors.New("verdict must be good or bad")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, verdict)
	return nil
}

// AccountState implements AccountReader.
func (m *MockBackend) AccountState(ctx context.Context) (model.AccountSnapshot, error) {
	if err := m.begin(ctx, MethodAccountState, nil); err != nil {
		return model.AccountSnapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.account
	out.Bias = m.status.Bias
	return out, nil
}

// WalletSession implements WalletBackend.
func (m *MockBackend) WalletSession(ctx context.Context) (model.WalletSession, error) {
	if err := m.begin(ctx, MethodWalletSession, nil); err != nil {
		return model.WalletSession{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

// ConnectWallet implements WalletBackend.
func (m *MockBackend) ConnectWallet(ctx context.Context, req model.BindRequest) error {
	if err := m.begin(ctx, MethodConnectWallet, req); err != nil {
		return err
	}
	if !strings.HasPrefix(strings.ToLower(req.Address), "0x") || len(req.Address) < 10 {
		return errors.New("invalid wallet address")
	}
	if strings.TrimSpace(req.Signature) == "" {
		return errors.New("signature is required")
	}
	now := time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = model.WalletSession{Address: req.Address, Connected: true, UpdatedAt: &now}
	return nil
}

// ApproveAgent implements WalletBackend.
func (m *MockBackend) ApproveAgent(ctx context.Context) (string, error) {
	if err := m.begin(ctx, MethodApproveAgent, nil); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.session.Connected || len(m.session.Address) < 8 {
		return "", errors.New("connect wallet first")
	}
	agent := fmt.Sprintf("agent_%s", strings.ToLower(m.session.Address[len(m.session.Address)-8:]))
	now := time.Now().UTC()
	m.session.AgentApproved = true
	m.session.AgentPubKey = agent
	m.session.UpdatedAt = &now
	return agent, nil
}

// StrategyStatus implements StrategyBackend.
func (m *MockBackend) StrategyStatus(ctx context.Context) (model.StrategyStatus, error) {
	if err := m.begin(ctx, MethodStrategyStatus, nil); err != nil {
		return model.StrategyStatus{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, nil
}

// StrategyDerives implements StrategyBackend.
func (m *MockBackend) StrategyDerives(ctx context.Context) ([]model.StrategyDerive, error) {
	if err := m.begin(ctx, MethodStrategyDerives, nil); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.StrategyDerive(nil), m.derives...), nil
}

// SetAutoTrading implements StrategyBackend.
func (m *MockBackend) SetAutoTrading(ctx context.Context, enabled bool) error {
	if err := m.begin(ctx, MethodSetAutoTrading, enabled); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.AutoTrading = enabled
	m.status.RuntimeStatus = "paused"
	if enabled {
		m.status.RuntimeStatus = "running"
	}
	m.status.UpdatedAt = time.Now().UTC()
	return nil
}

// SetBias implements StrategyBackend.
func (m *MockBackend) SetBias(ctx context.Context, bias model.Bias) error {
	if err := m.begin(ctx, MethodSetBias, bias); err != nil {
		return err
	}
	parsed, err := model.ParseBias(string(bias))
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Bias = parsed
	m.status.UpdatedAt = time.Now().UTC()
	return nil
}

// PlaceOrder implements OrderBackend.
func (m *MockBackend) PlaceOrder(ctx context.Context, req model.OrderRequest) (int64, error) {
	if err := m.begin(ctx, MethodPlaceOrder, req); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.session.AgentApproved {
		return 0, errors.New("agent is not approved")
	}
	id := m.nextID
	m.nextID++
	m.orders = append([]model.Order{{
		ID:         id,
		Symbol:     req.Symbol,
		Side:       req.Side,
		OrderType:  req.OrderType,
		Size:       req.Size,
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Status:     "open",
		Execution:  req.Execution,
		CreatedAt:  time.Now().UTC(),
	}}, m.orders...)
	return id, nil
}

// Orders implements OrderBackend.
func (m *MockBackend) Orders(ctx context.Context, limit int) ([]model.Order, error) {
	if err := m.begin(ctx, MethodOrders, limit); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.orders) {
		limit = len(m.orders)
	}
	return append([]model.Order(nil), m.orders[:limit]...), nil
}
