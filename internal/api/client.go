package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout bounds every request when no HTTP client is supplied.
	DefaultTimeout = 15 * time.Second
	// DefaultLimit is the page size used when a caller passes zero.
	DefaultLimit = 20

	maxResponseBytes = 2 << 20
	requestIDHeader  = "X-Request-ID"
)

func init() {
	// The backend decodes amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Client talks to the trading backend over HTTP/JSON.
type Client struct {
	http      *http.Client
	baseURL   string
	token     string
	userAgent string
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses hc for all requests. A bearer token, if set, is
// layered on top of its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: api base url is empty", common.ErrMissingConfig)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: api base url: %v", common.ErrInvalidConfig, err)
	}

	c := &Client{
		baseURL:   baseURL,
		timeout:   DefaultTimeout,
		userAgent: "hyperclaw",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.http)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"})
		authed := oauth2.NewClient(ctx, src)
		authed.Timeout = c.http.Timeout
		c.http = authed
	}

	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one remote operation.
type call struct {
	query   url.Values
	body    any
	out     any
	method  string
	path    string
	op      string
	generic string
	write   bool
}

func (c call) kind() error {
	if c.write {
		return common.ErrMutation
	}
	return common.ErrTransientFetch
}

func (c *Client) do(ctx context.Context, cl call) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", cl.op, cl.kind(), err)
	}
	requestID := req.Header.Get(requestIDHeader)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveRequest(cl.op, 0)
		slog.Debug("Backend request failed",
			"op", cl.op,
			"request_id", requestID,
			"error", err)
		return fmt.Errorf("%s: %w: %w", cl.op, cl.kind(), err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ObserveRequest(cl.op, resp.StatusCode)

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: %w: read response: %w", cl.op, cl.kind(), err)
	}

	slog.Debug("Backend request",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Kind:    cl.kind(),
			Op:      cl.op,
			Status:  resp.StatusCode,
			Message: errorMessage(b, cl.generic),
		}
	}

	if cl.out == nil {
		return nil
	}
	if len(bytes.TrimSpace(b)) == 0 {
		if cl.write {
			return nil
		}
		return fmt.Errorf("%s: %w: empty response body", cl.op, cl.kind())
	}
	if err := json.Unmarshal(b, cl.out); err != nil {
		if cl.write {
			// The write already happened; an unreadable ack is not a failure.
			slog.Warn("Unreadable backend acknowledgement", "op", cl.op, "error", err)
			return nil
		}
		return fmt.Errorf("%s: %w: decode response: %w", cl.op, cl.kind(), err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var r io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// errorMessage extracts the error field, falling back to generic.
func errorMessage(body []byte, generic string) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return generic
	}
	if msg := strings.TrimSpace(er.Error); msg != "" {
		return msg
	}
	return generic
}

// IsStatus reports whether err is a backend error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return url.Values{"limit": []string{fmt.Sprint(limit)}}
}
