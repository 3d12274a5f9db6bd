package api

import (
	"context"
	"net/http"

	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
)

// Routes of the trading backend.
const (
	PathFills          = "/v1/me/fills"
	PathReview         = "/v1/me/review"
	PathState          = "/v1/me/state"
	PathWalletSession  = "/v1/wallet/session"
	PathWalletConnect  = "/v1/wallet/connect"
	PathApproveAgent   = "/v1/wallet/approve-agent"
	PathStrategyStatus = "/v1/strategy/status"
	PathDerives        = "/v1/strategy/derives"
	PathAutoTrading    = "/v1/control/auto-trading"
	PathBias           = "/v1/control/bias"
	PathOrders         = "/v1/orders"
)

var _ service.Backend = (*Client)(nil)

// Fills lists the most recent fills, newest first.
func (c *Client) Fills(ctx context.Context, limit int) ([]model.Fill, error) {
	var out struct {
		Fills []model.Fill `json:"fills"`
	}
	err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    PathFills,
		query:   limitQuery(limit),
		out:     &out,
		op:      "fetch fills",
		generic: "failed to fetch fills",
	})
	if err != nil {
		return nil, err
	}
	if out.Fills == nil {
		out.Fills = []model.Fill{}
	}
	return out.Fills, nil
}

// SubmitReview posts a verdict for one fill.
func (c *Client) SubmitReview(ctx context.Context, verdict model.ReviewVerdict) error {
	if verdict.Tags == nil {
		verdict.Tags = []string{}
	}
	var ack struct {
		Status string `json:"status"`
	}
	return c.do(ctx, call{
		method:  http.MethodPost,
		path:    PathReview,
		body:    verdict,
		out:     &ack,
		op:      "submit review",
		generic: "failed to submit review",
		write:   true,
	})
}

// AccountState fetches equity, leverage and the current bias.
func (c *Client) AccountState(ctx context.Context) (model.AccountSnapshot, error) {
	var out model.AccountSnapshot
	err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    PathState,
		out:     &out,
		op:      "fetch state",
		generic: "failed to fetch state",
	})
	return out, err
}

// WalletSession fetches the current wallet session.
func (c *Client) WalletSession(ctx context.Context) (model.WalletSession, error) {
	var out model.WalletSession
	err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    PathWalletSession,
		out:     &out,
		op:      "fetch wallet session",
		generic: "failed to fetch wallet session",
	})
	return out, err
}

// ConnectWallet establishes a session from a signed message.
func (c *Client) ConnectWallet(ctx context.Context, req model.BindRequest) error {
	return c.do(ctx, call{
		method:  http.MethodPost,
		path:    PathWalletConnect,
		body:    req,
		op:      "bind wallet",
		generic: "failed to bind wallet",
		write:   true,
	})
}

// ApproveAgent authorizes the trading agent for the bound wallet and
// returns the agent public key when the backend reports one.
func (c *Client) ApproveAgent(ctx context.Context) (string, error) {
	var out struct {
		AgentPubKey string `json:"agentPubKey"`
	}
	err := c.do(ctx, call{
		method:  http.MethodPost,
		path:    PathApproveAgent,
		out:     &out,
		op:      "approve agent",
		generic: "failed to approve agent",
		write:   true,
	})
	return out.AgentPubKey, err
}

// StrategyStatus fetches the strategy runtime snapshot.
func (c *Client) StrategyStatus(ctx context.Context) (model.StrategyStatus, error) {
	var out model.StrategyStatus
	err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    PathStrategyStatus,
		out:     &out,
		op:      "fetch strategy status",
		generic: "failed to fetch strategy status",
	})
	return out, err
}

// StrategyDerives lists derived strategies.
func (c *Client) StrategyDerives(ctx context.Context) ([]model.StrategyDerive, error) {
	var out struct {
		Derives []model.StrategyDerive `json:"derives"`
	}
	err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    PathDerives,
		out:     &out,
		op:      "fetch strategy derives",
		generic: "failed to fetch strategy derives",
	})
	if err != nil {
		return nil, err
	}
	if out.Derives == nil {
		out.Derives = []model.StrategyDerive{}
	}
	return out.Derives, nil
}

// SetAutoTrading switches automated trading on or off.
func (c *Client) SetAutoTrading(ctx context.Context, enabled bool) error {
	return c.do(ctx, call{
		method:  http.MethodPatch,
		path:    PathAutoTrading,
		body:    map[string]bool{"enabled": enabled},
		op:      "toggle auto trading",
		generic: "failed to toggle auto trading",
		write:   true,
	})
}

// SetBias changes the strategy's directional stance.
func (c *Client) SetBias(ctx context.Context, bias model.Bias) error {
	return c.do(ctx, call{
		method:  http.MethodPatch,
		path:    PathBias,
		body:    map[string]model.Bias{"bias": bias},
		op:      "set bias",
		generic: "failed to set bias",
		write:   true,
	})
}

// PlaceOrder submits an order together with its stop-loss and take-profit.
func (c *Client) PlaceOrder(ctx context.Context, req model.OrderRequest) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, call{
		method:  http.MethodPost,
		path:    PathOrders,
		body:    req,
		out:     &out,
		op:      "place order",
		generic: "failed to place order",
		write:   true,
	})
	return out.ID, err
}

// Orders lists the most recent orders, newest first.
func (c *Client) Orders(ctx context.Context, limit int) ([]model.Order, error) {
	var out struct {
		Orders []model.Order `json:"orders"`
	}
	err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    PathOrders,
		query:   limitQuery(limit),
		out:     &out,
		op:      "fetch orders",
		generic: "failed to fetch orders",
	})
	if err != nil {
		return nil, err
	}
	if out.Orders == nil {
		out.Orders = []model.Order{}
	}
	return out.Orders, nil
}
