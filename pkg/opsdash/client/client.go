// Package client is a typed HTTP client for the opsdash JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Error is a non-2xx API response.
type Error struct {
	StatusCode int            `json:"-"`
	Code       int            `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("opsdash: %d %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("opsdash: %d %s", e.StatusCode, e.Message)
}

// IsConflict reports whether err is a 409 from the API, e.g. insufficient stock.
func IsConflict(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// Client talks to a running opsdash server. Every call carries the caller's
// context, and a non-2xx response comes back as an *Error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the server at baseURL, for example
// http://localhost:8080. A trailing slash is ignored.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query pages through the visible NAPs.
type Query struct {
	Limit  int
	Offset int
}

// NAPPage is one page of visible NAPs.
type NAPPage struct {
	Count    int      `json:"count"`
	Total    int      `json:"total"`
	Criteria Criteria `json:"criteria"`
	Totals   Totals   `json:"totals"`
	NAPs     []NAP    `json:"naps"`
}

// Selection is the active NAP.
type Selection struct {
	Selected bool   `json:"selected"`
	ActiveID string `json:"activeId"`
	Detail   Detail `json:"detail"`
}

// QuantityResult is the stored quantity after clamping.
type QuantityResult struct {
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Summary  Summary `json:"summary"`
}

// JobOrder is a committed job order.
type JobOrder struct {
	Outcome Outcome  `json:"outcome"`
	Receipt *Receipt `json:"receipt"`
}

// Stats combines the dashboard totals.
type Stats struct {
	Directory        Totals      `json:"directory"`
	Stock            StockTotals `json:"stock"`
	Counters         Counters    `json:"counters"`
	Municipalities   int         `json:"municipalities"`
	ConnectedClients int         `json:"connectedClients"`
}

func (c *Client) ListNAPs(ctx context.Context, q Query) (*NAPPage, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	var page NAPPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/naps", params, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Municipalities(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/v1/naps/municipalities", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFilter merges f into the server-side filter.
func (c *Client) SetFilter(ctx context.Context, f Filter) (*DirectoryView, error) {
	var view DirectoryView
	if err := c.do(ctx, http.MethodPut, "/api/v1/naps/filter", nil, f, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) ActiveNAP(ctx context.Context) (*Selection, error) {
	var sel Selection
	if err := c.do(ctx, http.MethodGet, "/api/v1/naps/active", nil, nil, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (c *Client) SelectNAP(ctx context.Context, id string) (*Selection, error) {
	var sel Selection
	if err := c.do(ctx, http.MethodPost, "/api/v1/naps/"+url.PathEscape(id)+"/select", nil, nil, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (c *Client) ListStock(ctx context.Context) (*StockView, error) {
	var view StockView
	if err := c.do(ctx, http.MethodGet, "/api/v1/stock", nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SetQuantity stages raw for itemID; raw is parsed like typed input.
func (c *Client) SetQuantity(ctx context.Context, itemID, raw string) (*QuantityResult, error) {
	body := map[string]string{"quantity": raw}

	var res QuantityResult
	if err := c.do(ctx, http.MethodPut, "/api/v1/joborders/draft/"+url.PathEscape(itemID), nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Draft(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.do(ctx, http.MethodGet, "/api/v1/joborders/draft", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ClearDraft(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.do(ctx, http.MethodDelete, "/api/v1/joborders/draft", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SubmitJobOrder commits the staged draft. A shortfall is reported as an
// *Error with status 409.
func (c *Client) SubmitJobOrder(ctx context.Context) (*JobOrder, error) {
	var jo JobOrder
	if err := c.do(ctx, http.MethodPost, "/api/v1/joborders", nil, nil, &jo); err != nil {
		return nil, err
	}
	return &jo, nil
}

// CommitLines commits lines as one job order without touching the staged
// draft. Quantities are not clamped: a line above live availability rejects
// the whole order with a 409.
func (c *Client) CommitLines(ctx context.Context, lines []Line) (*JobOrder, error) {
	body := struct {
		Lines []Line `json:"lines"`
	}{Lines: lines}
	if body.Lines == nil {
		body.Lines = []Line{}
	}

	var jo JobOrder
	if err := c.do(ctx, http.MethodPost, "/api/v1/joborders", nil, body, &jo); err != nil {
		return nil, err
	}
	return &jo, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
