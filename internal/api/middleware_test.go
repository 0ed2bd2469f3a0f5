package api

import (
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
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fiberflow/opsdash/internal/dashboard"
)

// send issues a request with exactly the given headers.
func (env *testEnv) send(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:        "filter as JSON",
			method:      http.MethodPut,
			target:      "/api/v1/naps/filter",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"municipality":"Odiongan"}`,
			wantStatus:  http.StatusOK,
		},
		{
			name:        "filter as form",
			method:      http.MethodPut,
			target:      "/api/v1/naps/filter",
			contentType: echo.MIMEApplicationForm,
			body:        "municipality=Odiongan",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "draft quantity as JSON with charset",
			method:      http.MethodPut,
			target:      "/api/v1/joborders/draft/onu-zte",
			contentType: echo.MIMEApplicationJSONCharsetUTF8,
			body:        `{"quantity":3}`,
			wantStatus:  http.StatusOK,
		},
		{
			name:        "draft quantity as form",
			method:      http.MethodPut,
			target:      "/api/v1/joborders/draft/onu-zte",
			contentType: echo.MIMEApplicationForm,
			body:        "quantity=3",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "draft quantity as plain text",
			method:      http.MethodPut,
			target:      "/api/v1/joborders/draft/onu-zte",
			contentType: echo.MIMETextPlain,
			body:        "3",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:       "select without body",
			method:     http.MethodPost,
			target:     "/api/v1/naps/NAP-SAN-01/select",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			header := map[string]string{echo.HeaderAccept: echo.MIMEApplicationJSON}
			if tt.contentType != "" {
				header[echo.HeaderContentType] = tt.contentType
			}

			rec := env.send(tt.method, tt.target, tt.body, header)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusBadRequest {
				apiErr := decode[APIError](t, rec)
				assert.Equal(t, "Invalid Content-Type", apiErr.Message)
				assert.Contains(t, apiErr.Details, tt.contentType)
			}
		})
	}
}

func TestValidateContentType_RejectedFormLeavesDraft(t *testing.T) {
	env := newTestEnv(t)

	env.send(http.MethodPut, "/api/v1/joborders/draft/onu-zte", "quantity=3",
		map[string]string{echo.HeaderContentType: echo.MIMEApplicationForm})

	summary := decode[dashboard.JobOrderSummary](t, env.do(http.MethodGet, "/api/v1/joborders/draft", ""))
	assert.True(t, summary.Empty)
}

func TestWebFormsBypassJSONValidators(t *testing.T) {
	env := newTestEnv(t)
	htmx := map[string]string{
		echo.HeaderContentType: echo.MIMEApplicationForm,
		echo.HeaderAccept:      echo.MIMETextHTML,
		"HX-Request":           "true",
	}

	rec := env.send(http.MethodPost, "/web/joborders/items/onu-zte", "item-onu-zte=3", htmx)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)

	rec = env.send(http.MethodPost, "/web/naps/NAP-CAL-01/activate", "", htmx)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Cable pull scheduled")

	summary := decode[dashboard.JobOrderSummary](t, env.do(http.MethodGet, "/api/v1/joborders/draft", ""))
	assert.Equal(t, 3, summary.TotalUnits)
	sel := decode[SelectResponse](t, env.do(http.MethodGet, "/api/v1/naps/active", ""))
	assert.Equal(t, "NAP-CAL-01", sel.ActiveID)
}

func TestValidateAcceptHeader(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		accept     string
		wantStatus int
	}{
		{name: "json", target: "/api/v1/stock", accept: "application/json", wantStatus: http.StatusOK},
		{name: "any", target: "/api/v1/stock", accept: "*/*", wantStatus: http.StatusOK},
		{name: "any application", target: "/api/v1/naps", accept: "application/*", wantStatus: http.StatusOK},
		{name: "no header", target: "/api/v1/naps/municipalities", wantStatus: http.StatusOK},
		{name: "browser list with json", target: "/api/v1/stats", accept: "text/html,application/json;q=0.9,*/*;q=0.8", wantStatus: http.StatusOK},
		{name: "html only", target: "/api/v1/stock", accept: "text/html", wantStatus: http.StatusBadRequest},
		{name: "html page outside the API", target: "/", accept: "text/html", wantStatus: http.StatusOK},
		{name: "htmx panel outside the API", target: "/web/naps?state=full", accept: "text/html", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			header := map[string]string{}
			if tt.accept != "" {
				header[echo.HeaderAccept] = tt.accept
			}

			rec := env.send(http.MethodGet, tt.target, "", header)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusBadRequest {
				assert.Equal(t, "Invalid Accept header", decode[APIError](t, rec).Message)
			}
		})
	}
}

func TestWebSocketUpgradeAcceptHeader(t *testing.T) {
	env := newTestEnv(t)
	go env.hub.Run()
	t.Cleanup(env.hub.Stop)

	ts := httptest.NewServer(env.server)
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Empty(t, resp.Request.Header.Get(echo.HeaderAccept))
	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, resp, err = websocket.DefaultDialer.Dial(url, http.Header{echo.HeaderAccept: {"text/html"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, env.hub.ClientCount())
}

func TestValidateIDFormat(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{name: "NAP id", method: http.MethodPost, target: "/api/v1/naps/NAP-ODG-02/select", wantStatus: http.StatusOK},
		{name: "NAP id too short", method: http.MethodPost, target: "/api/v1/naps/ab/select", wantStatus: http.StatusBadRequest},
		{name: "NAP id too long", method: http.MethodPost, target: "/api/v1/naps/" + strings.Repeat("N", 300) + "/select", wantStatus: http.StatusBadRequest},
		{name: "unknown NAP of valid shape", method: http.MethodPost, target: "/api/v1/naps/NAP-NOPE/select", wantStatus: http.StatusNotFound},
		{name: "item id", method: http.MethodPut, target: "/api/v1/joborders/draft/patch-cord", body: `{"quantity":1}`, wantStatus: http.StatusOK},
		{name: "item id too short", method: http.MethodPut, target: "/api/v1/joborders/draft/pc", body: `{"quantity":1}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(tt.method, tt.target, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusBadRequest {
				assert.Equal(t, "Invalid ID format", decode[APIError](t, rec).Message)
			}
		})
	}
}

func TestValidateQueryParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantError  string
	}{
		{name: "unknown state is not rejected", query: "state=offline", wantStatus: http.StatusOK},
		{name: "non-numeric limit", query: "limit=ten", wantStatus: http.StatusBadRequest, wantError: "Invalid limit parameter"},
		{name: "negative offset", query: "offset=-1", wantStatus: http.StatusBadRequest, wantError: "Invalid offset parameter"},
		{name: "negative limit", query: "limit=-10", wantStatus: http.StatusBadRequest, wantError: "Invalid limit parameter"},
		{name: "no query", wantStatus: http.StatusOK},
		{name: "limit and offset", query: "limit=50&offset=10", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(http.MethodGet, "/api/v1/naps?"+tt.query, "")

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[APIError](t, rec).Message)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		accept string
	}{
		{name: "API response", method: http.MethodGet, target: "/api/v1/stock", accept: echo.MIMEApplicationJSON},
		{name: "API error", method: http.MethodPost, target: "/api/v1/naps/NAP-NOPE/select", accept: echo.MIMEApplicationJSON},
		{name: "dashboard page", method: http.MethodGet, target: "/", accept: echo.MIMETextHTML},
		{name: "HTMX fragment", method: http.MethodPost, target: "/web/joborders/clear", accept: echo.MIMETextHTML},
	}

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-Xss-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.send(tt.method, tt.target, "", map[string]string{echo.HeaderAccept: tt.accept})

			for header, value := range want {
				assert.Equal(t, value, rec.Header().Get(header), header)
			}
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/api/v1/naps/NAP-XYZ-99/select", "")
	env.do(http.MethodPut, "/api/v1/joborders/draft/onu-zte", `{"quantity":2}`)

	notFound := testutil.ToFloat64(env.metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/naps/:id/select", "404"))
	assert.Equal(t, 1.0, notFound)
	staged := testutil.ToFloat64(env.metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPut, "/api/v1/joborders/draft/:id", "200"))
	assert.Equal(t, 1.0, staged)
	assert.Equal(t, 0.0, testutil.ToFloat64(env.metrics.HTTPRequestsInFlight))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "OK") })
	e.GET("/api/v1/naps/active", func(c echo.Context) error { return NotFoundError("NAP", "none") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/naps/active", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["uri"])
	assert.Equal(t, int64(200), fields["status"])

	failed := logs.FilterMessage("request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "/api/v1/naps/active", failed[0].ContextMap()["uri"])
}
