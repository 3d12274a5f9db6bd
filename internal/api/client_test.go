package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded captures the last request a test server saw.
type recorded struct {
	header http.Header
	query  map[string][]string
	method string
	path   string
	body   []byte
}

func newTestServer(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.header = r.Header.Clone()
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, WithToken("secret"), WithTimeout(2*time.Second))
	require.NoError(t, err)
	return client, rec
}

func TestNew(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		baseURL string
	}{
		{name: "valid", baseURL: "http://localhost:8080"},
		{name: "trailing slash", baseURL: "http://localhost:8080/"},
		{name: "empty", baseURL: "  ", wantErr: common.ErrMissingConfig},
		{name: "relative", baseURL: "localhost", wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.baseURL)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:8080", client.BaseURL())
		})
	}
}

func TestClient_Fills(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"fills":[
		{"id":7,"symbol":"BTC","side":"Buy","price":100123.5,"size":0.002,"realizedPnl":-1.25,"status":"filled","createdAt":"2025-01-02T03:04:05Z"}
	]}`)

	fills, err := client.Fills(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, fills, 1)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, PathFills, rec.path)
	assert.Equal(t, []string{"20"}, rec.query["limit"])
	assert.Equal(t, "Bearer secret", rec.header.Get("Authorization"))
	assert.NotEmpty(t, rec.header.Get("X-Request-ID"))

	f := fills[0]
	assert.Equal(t, int64(7), f.ID)
	assert.Equal(t, model.SideBuy, f.Side)
	assert.True(t, f.Price.Equal(decimal.RequireFromString("100123.5")))
	assert.False(t, f.IsProfitable())
}

func TestClient_FillsEmpty(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{}`)

	fills, err := client.Fills(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, fills)
	assert.Empty(t, fills)
}

func TestClient_SubmitReview(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"status":"saved"}`)

	err := client.SubmitReview(context.Background(), model.ReviewVerdict{
		FillID:  42,
		Verdict: model.VerdictGood,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, PathReview, rec.path)
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
	assert.JSONEq(t, `{"fillId":42,"verdict":"good","tags":[],"notes":""}`, string(rec.body))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		kind     error
		call     func(*Client) error
		name     string
		response string
		message  string
		status   int
	}{
		{
			name:     "server message is displayed",
			status:   http.StatusNotFound,
			response: `{"error":"fill not found"}`,
			kind:     common.ErrMutation,
			message:  "fill not found",
			call: func(c *Client) error {
				return c.SubmitReview(context.Background(), model.ReviewVerdict{FillID: 1, Verdict: model.VerdictBad})
			},
		},
		{
			name:     "missing error field falls back",
			status:   http.StatusInternalServerError,
			response: `{}`,
			kind:     common.ErrMutation,
			message:  "failed to submit review",
			call: func(c *Client) error {
				return c.SubmitReview(context.Background(), model.ReviewVerdict{FillID: 1, Verdict: model.VerdictBad})
			},
		},
		{
			name:     "unparsable body falls back",
			status:   http.StatusBadGateway,
			response: `<html>bad gateway</html>`,
			kind:     common.ErrTransientFetch,
			message:  "failed to fetch fills",
			call: func(c *Client) error {
				_, err := c.Fills(context.Background(), 10)
				return err
			},
		},
		{
			name:     "approve without session",
			status:   http.StatusBadRequest,
			response: `{"error":"connect wallet first"}`,
			kind:     common.ErrMutation,
			message:  "connect wallet first",
			call: func(c *Client) error {
				_, err := c.ApproveAgent(context.Background())
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, tt.status, tt.response)

			err := tt.call(client)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.True(t, IsStatus(err, tt.status))
			assert.Equal(t, tt.message, common.UserMessage(err, "unused"))
		})
	}
}

func TestClient_WriteWithEmptyBody(t *testing.T) {
	client, rec := newTestServer(t, http.StatusNoContent, "")

	require.NoError(t, client.SetAutoTrading(context.Background(), true))
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, PathAutoTrading, rec.path)
	assert.JSONEq(t, `{"enabled":true}`, string(rec.body))
}

func TestClient_ReadWithEmptyBody(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, "")

	_, err := client.StrategyStatus(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransientFetch)
	assert.Equal(t, "failed to fetch strategy status", common.UserMessage(err, "failed to fetch strategy status"))
}

func TestClient_SetBias(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"status":"ok"}`)

	require.NoError(t, client.SetBias(context.Background(), model.BiasShort))
	assert.Equal(t, PathBias, rec.path)
	assert.JSONEq(t, `{"bias":"Short"}`, string(rec.body))
}

func TestClient_ConnectWallet(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"status":"connected"}`)

	req := model.BindRequest{Address: "0xabc0123456789", Signature: "0xsig", Message: "HyperClaw login nonce 1"}
	require.NoError(t, client.ConnectWallet(context.Background(), req))

	var sent model.BindRequest
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, req, sent)
}

func TestClient_ApproveAgent(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"agentPubKey":"agent_23456789"}`)

	key, err := client.ApproveAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "agent_23456789", key)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Empty(t, rec.body)
}

func TestClient_PlaceOrder(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"id":12}`)

	id, err := client.PlaceOrder(context.Background(), model.OrderRequest{
		Symbol:     "BTC",
		Side:       model.SideBuy,
		OrderType:  model.OrderTypeMarket,
		Execution:  model.ExecutionPaper,
		ClientTag:  "hc-test",
		Size:       decimal.RequireFromString("0.002"),
		EntryPrice: decimal.RequireFromString("100000"),
		StopLoss:   decimal.RequireFromString("99500"),
		TakeProfit: decimal.RequireFromString("100800"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, "BTC", sent["symbol"])
	assert.InDelta(t, 0.002, sent["size"], 1e-9)
	assert.InDelta(t, 99500.0, sent["stopLoss"], 1e-9)
	assert.Equal(t, "paper", sent["execution"])
}

func TestClient_AccountState(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"bias":"Long","state":{"equity":10250.75,"leverage":2.5,"openPnl":-12.5,"updatedAt":"2025-01-02T03:04:05Z"}}`)

	snap, err := client.AccountState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PathState, rec.path)
	assert.Equal(t, model.BiasLong, snap.Bias)
	assert.True(t, snap.State.Equity.Equal(decimal.RequireFromString("10250.75")))
	assert.True(t, snap.State.OpenPnL.IsNegative())
}

func TestClient_Cancelled(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{"fills":[]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fills(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.ErrorIs(t, err, common.ErrTransientFetch)
}
