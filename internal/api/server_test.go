package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiberflow/opsdash/internal/catalog"
	"github.com/fiberflow/opsdash/internal/config"
	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/internal/metrics"
	"github.com/fiberflow/opsdash/internal/reservation"
)

type testEnv struct {
	server  *Server
	hub     *Hub
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Security.RateLimit = 0

	c, err := catalog.Default()
	require.NoError(t, err)

	m := metrics.New(metrics.DefaultConfig())
	hub := NewHub(nil, m)
	d := dashboard.New(
		directory.New(c.NAPs),
		reservation.New(c.Stock, reservation.WithCounters(reservation.Counters{
			OpenJobOrders: cfg.JobOrders.OpenBaseline,
			Sequence:      cfg.JobOrders.SequenceBaseline,
		})),
		dashboard.WithMetrics(m),
		dashboard.WithPublisher(hub),
	)

	return &testEnv{
		server:  New(cfg, hub, d, WithMetrics(m)),
		hub:     hub,
		metrics: m,
	}
}

func newTestServer(t *testing.T) *Server {
	return newTestEnv(t).server
}

func (env *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "opsdash", health.Service)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestListNAPs(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/naps?limit=2&offset=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[NAPsResponse](t, rec)
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.NAPs, 2)
	assert.Equal(t, "NAP-ODG-02", resp.NAPs[0].ID)
	assert.Equal(t, 29, resp.Totals.AvailablePorts)
	assert.Equal(t, 75, resp.Totals.UtilisationPercent)
}

func TestListNAPs_InvalidLimit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/naps?limit=lots", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decode[APIError](t, rec)
	assert.Equal(t, "Invalid limit parameter", apiErr.Message)
}

func TestListMunicipalities(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/naps/municipalities", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Calatrava", "Odiongan", "San Agustin", "San Andres"}, decode[[]string](t, rec))
}

func TestUpdateFilter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/api/v1/naps/filter", `{"municipality":"San Andres"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[dashboard.DirectoryView](t, rec)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "NAP-SAN-01", view.Rows[0].ID)
	assert.True(t, view.Rows[0].Active)
	assert.Equal(t, 71, view.Totals.UtilisationPercent)

	// Omitted fields are untouched.
	rec = env.do(http.MethodPut, "/api/v1/naps/filter", `{"search":"calunacon"}`)
	view = decode[dashboard.DirectoryView](t, rec)
	assert.Equal(t, "San Andres", view.Criteria.Municipality)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "NAP-SAN-02", view.Rows[0].ID)

	rec = env.do(http.MethodPut, "/api/v1/naps/filter", `{"state":"maintenance"}`)
	view = decode[dashboard.DirectoryView](t, rec)
	assert.Empty(t, view.Rows)
	assert.False(t, view.Detail.Selected)
	assert.Equal(t, 0, view.Totals.UtilisationPercent)
}

func TestUpdateFilter_RequiresJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/naps/filter", strings.NewReader("municipality=Odiongan"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectNAP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/naps/NAP-CAL-01/select", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SelectResponse](t, rec)
	assert.True(t, resp.Selected)
	assert.Equal(t, "NAP-CAL-01", resp.ActiveID)
	assert.Equal(t, "Cable pull scheduled", resp.Detail.Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.NAPSelections))

	rec = env.do(http.MethodGet, "/api/v1/naps/active", "")
	assert.Equal(t, "NAP-CAL-01", decode[SelectResponse](t, rec).ActiveID)
}

func TestSelectNAP_Hidden(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPut, "/api/v1/naps/filter", `{"municipality":"Odiongan"}`)

	rec := env.do(http.MethodPost, "/api/v1/naps/NAP-CAL-01/select", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/naps/active", "")
	assert.Equal(t, "NAP-ODG-01", decode[SelectResponse](t, rec).ActiveID)
}

func TestListStock(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/stock", "")

	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[dashboard.StockView](t, rec)
	assert.Len(t, view.Rows, 6)
	assert.Equal(t, 514, view.Totals.TotalAvailable)
	assert.Equal(t, 3, view.Totals.OpenJobOrders)
}

func TestSetDraftQuantity(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		body     string
		wantCode int
		wantQty  int
	}{
		{name: "number", item: "onu-huawei", body: `{"quantity":5}`, wantCode: http.StatusOK, wantQty: 5},
		{name: "numeric string", item: "onu-huawei", body: `{"quantity":"7"}`, wantCode: http.StatusOK, wantQty: 7},
		{name: "fraction truncates", item: "onu-huawei", body: `{"quantity":2.9}`, wantCode: http.StatusOK, wantQty: 2},
		{name: "clamped to available", item: "drop-cable", body: `{"quantity":500}`, wantCode: http.StatusOK, wantQty: 9},
		{name: "garbage string stages zero", item: "onu-zte", body: `{"quantity":"lots"}`, wantCode: http.StatusOK, wantQty: 0},
		{name: "negative stages zero", item: "onu-zte", body: `{"quantity":-4}`, wantCode: http.StatusOK, wantQty: 0},
		{name: "missing quantity", item: "onu-zte", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "boolean quantity", item: "onu-zte", body: `{"quantity":true}`, wantCode: http.StatusBadRequest},
		{name: "unknown item", item: "ghost-item", body: `{"quantity":1}`, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(http.MethodPut, "/api/v1/joborders/draft/"+tt.item, tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusOK {
				resp := decode[QuantityResponse](t, rec)
				assert.Equal(t, tt.wantQty, resp.Quantity)
				assert.Equal(t, tt.wantQty == 0, resp.Summary.Empty)
			}
		})
	}
}

func TestJobOrderFlow(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPut, "/api/v1/joborders/draft/onu-huawei", `{"quantity":5}`)
	env.do(http.MethodPut, "/api/v1/joborders/draft/onu-zte", `{"quantity":3}`)

	rec := env.do(http.MethodGet, "/api/v1/joborders/draft", "")
	summary := decode[dashboard.JobOrderSummary](t, rec)
	assert.Equal(t, "8 units reserved", summary.Headline)
	assert.Equal(t, []string{"5 × Huawei HG8145V5 ONU", "3 × ZTE F670L ONU"}, summary.Lines)

	rec = env.do(http.MethodPost, "/api/v1/joborders", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[JobOrderResponse](t, rec)
	require.NotNil(t, resp.Receipt)
	assert.Equal(t, "JO-2025-1288", resp.Receipt.Reference)
	assert.Equal(t, "JO-2025-1288 staged with 2 line items (8 pcs).", resp.Outcome.Message)
	assert.Equal(t, dashboard.ToneSuccess, resp.Outcome.Tone)

	rec = env.do(http.MethodGet, "/api/v1/stats", "")
	stats := decode[StatisticsResponse](t, rec)
	assert.Equal(t, 506, stats.Stock.TotalAvailable)
	assert.Equal(t, 4, stats.Counters.OpenJobOrders)
	assert.Equal(t, 1288, stats.Counters.Sequence)
	assert.Equal(t, 4, stats.Municipalities)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.JobOrders.WithLabelValues(metrics.OutcomeCommitted)))
}

func TestSubmitJobOrder_Empty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/joborders", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decode[APIError](t, rec)
	assert.Equal(t, "No items selected", apiErr.Message)
	assert.Equal(t, "Select at least one consumable to reserve.", apiErr.Context["outcome"])
}

func TestSubmitJobOrder_ExplicitLines(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    int
		wantMessage string
		wantOutcome string
	}{
		{
			name:        "commits requested quantities",
			body:        `{"lines":[{"itemId":"onu-huawei","quantity":5},{"itemId":"onu-zte","quantity":3}]}`,
			wantCode:    http.StatusCreated,
			wantOutcome: "JO-2025-1288 staged with 2 line items (8 pcs).",
		},
		{
			name:        "over availability is a conflict",
			body:        `{"lines":[{"itemId":"drop-cable","quantity":20}]}`,
			wantCode:    http.StatusConflict,
			wantMessage: "Insufficient stock",
			wantOutcome: "Only 9 pcs available for 1-Core Drop Cable (1km).",
		},
		{
			name:        "empty list",
			body:        `{"lines":[]}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "No items selected",
			wantOutcome: "Select at least one consumable to reserve.",
		},
		{
			name:        "unknown item",
			body:        `{"lines":[{"itemId":"ghost","quantity":1}]}`,
			wantCode:    http.StatusNotFound,
			wantMessage: "Stock item not found",
		},
		{
			name:        "zero quantity",
			body:        `{"lines":[{"itemId":"onu-zte","quantity":0}]}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Invalid quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(http.MethodPost, "/api/v1/joborders", tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusCreated {
				resp := decode[JobOrderResponse](t, rec)
				assert.Equal(t, tt.wantOutcome, resp.Outcome.Message)
				assert.Equal(t, "Huawei HG8145V5 ONU", resp.Receipt.Lines[0].Name)
				return
			}

			apiErr := decode[APIError](t, rec)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			if tt.wantOutcome != "" {
				assert.Equal(t, tt.wantOutcome, apiErr.Context["outcome"])
			}

			stats := decode[StatisticsResponse](t, env.do(http.MethodGet, "/api/v1/stats", ""))
			assert.Equal(t, 514, stats.Stock.TotalAvailable)
			assert.Equal(t, 1287, stats.Counters.Sequence)
		})
	}
}

func TestClearDraft(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPut, "/api/v1/joborders/draft/patch-cord", `{"quantity":10}`)

	rec := env.do(http.MethodDelete, "/api/v1/joborders/draft", "")

	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[dashboard.JobOrderSummary](t, rec)
	assert.True(t, summary.Empty)
	assert.Equal(t, "No items selected yet.", summary.Headline)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/health", "")

	rec := env.do(http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "opsdash_http_requests_total")
	assert.Contains(t, rec.Body.String(), `opsdash_stock_available_units{item="onu-huawei"} 56`)
}

func TestWebRoutesMounted(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAccept, "text/html")
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "NAP directory")
}

func TestWebSocketFeed(t *testing.T) {
	env := newTestEnv(t)
	go env.hub.Run()
	t.Cleanup(env.hub.Stop)

	ts := httptest.NewServer(env.server)
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/v1/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	env.do(http.MethodPost, "/api/v1/naps/NAP-SAN-01/select", "")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		ID   string                  `json:"id"`
		Type string                  `json:"type"`
		Data dashboard.DirectoryView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, dashboard.EventDirectoryUpdated, event.Type)
	assert.True(t, strings.HasPrefix(event.ID, "evt:"))
	assert.Equal(t, "Maria Santos", event.Data.Detail.Name)

	rec := env.do(http.MethodGet, "/api/v1/ws/stats", "")
	assert.Equal(t, 1, decode[WebSocketStatsResponse](t, rec).ConnectedClients)
}
