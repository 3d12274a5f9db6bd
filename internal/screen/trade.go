package screen

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/gate"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/session"
	"github.com/Veraticus/hyperclaw/internal/syncer"
)

// TradeState is the trade page snapshot.
type TradeState struct {
	Orders []model.Order
	Wallet model.WalletSession
}

// OrderForm holds the raw field values of the order ticket.
type OrderForm struct {
	Symbol     string
	Side       string
	OrderType  string
	Execution  string
	Size       string
	EntryPrice string
	StopLoss   string
	TakeProfit string
}

// DefaultOrderForm is the ticket prefilled on the trade page.
func DefaultOrderForm() OrderForm {
	return OrderForm{
		Symbol:     "BTC",
		Side:       string(model.SideBuy),
		OrderType:  string(model.OrderTypeMarket),
		Execution:  string(model.ExecutionPaper),
		Size:       "0.002",
		EntryPrice: "100000",
		StopLoss:   "99500",
		TakeProfit: "100800",
	}
}

// Request validates the form and builds the order request. Stop-loss and
// take-profit are always part of the same request as the parent order.
func (f OrderForm) Request() (model.OrderRequest, error) {
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	if symbol == "" {
		return model.OrderRequest{}, common.ValidationError("symbol is required")
	}
	side, ok := model.ParseSide(f.Side)
	if !ok {
		return model.OrderRequest{}, common.ValidationError("side must be Buy or Sell")
	}

	orderType := model.OrderType(strings.ToLower(strings.TrimSpace(f.OrderType)))
	switch orderType {
	case "":
		orderType = model.OrderTypeMarket
	case model.OrderTypeMarket, model.OrderTypeLimit:
	default:
		return model.OrderRequest{}, common.ValidationError("order type must be market or limit")
	}

	execution, ok := model.ParseExecutionMode(f.Execution)
	if !ok {
		return model.OrderRequest{}, common.ValidationError("execution must be paper or live")
	}

	size, err := positive("size", f.Size)
	if err != nil {
		return model.OrderRequest{}, err
	}
	entry, err := positive("entry price", f.EntryPrice)
	if err != nil {
		return model.OrderRequest{}, err
	}
	stopLoss, err := positive("stop loss", f.StopLoss)
	if err != nil {
		return model.OrderRequest{}, err
	}
	takeProfit, err := positive("take profit", f.TakeProfit)
	if err != nil {
		return model.OrderRequest{}, err
	}

	return model.OrderRequest{
		Symbol:     symbol,
		Side:       side,
		OrderType:  orderType,
		Execution:  execution,
		ClientTag:  model.NewClientTag(),
		Size:       size,
		EntryPrice: entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	}, nil
}

func positive(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, common.ValidationError(field + " is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, common.ValidationError(fmt.Sprintf("%s must be a number", field))
	}
	if !d.IsPositive() {
		return decimal.Zero, common.ValidationError(fmt.Sprintf("%s must be positive", field))
	}
	return d, nil
}

// Trade places orders and lists recent ones.
type Trade struct {
	*syncer.Engine[TradeState]
	backend service.OrderBackend
	lastID  atomic.Int64
}

// NewTrade creates the trade screen. limit bounds the order list.
func NewTrade(backend service.Backend, wallet *session.Cache, interval time.Duration, limit int) *Trade {
	load := func(ctx context.Context) (TradeState, error) {
		var st TradeState
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			st.Wallet, err = wallet.Get(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			st.Orders, err = backend.Orders(gctx, limit)
			return err
		})
		if err := g.Wait(); err != nil {
			return TradeState{}, err
		}
		return st, nil
	}
	return &Trade{
		Engine:  syncer.New(NameTrade, load, TradeState{}, syncer.WithInterval(interval)),
		backend: backend,
	}
}

// CanTrade reports whether the order ticket is enabled.
func (t *Trade) CanTrade() bool {
	return gate.CanTrade(t.Snapshot().Wallet)
}

// PlaceOrder validates form and submits it. It returns the new order id.
func (t *Trade) PlaceOrder(ctx context.Context, form OrderForm) (int64, error) {
	wallet := t.Snapshot().Wallet
	var id int64
	err := t.Mutate(ctx, ActionOrder, func(ctx context.Context) error {
		if err := gate.CheckTrade(wallet); err != nil {
			return err
		}
		req, err := form.Request()
		if err != nil {
			return err
		}
		id, err = t.backend.PlaceOrder(ctx, req)
		return err
	})
	if err != nil {
		return 0, err
	}
	t.lastID.Store(id)
	return id, nil
}

// LastOrderID returns the id of the last order placed from this screen.
func (t *Trade) LastOrderID() int64 {
	return t.lastID.Load()
}
