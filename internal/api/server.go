// Package api provides the HTTP server for the operations dashboard.
// It uses Echo to serve the HTML dashboard, a JSON API over the same
// dashboard events and a WebSocket feed that pushes every updated view.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "github.com/fiberflow/opsdash/docs" // Register API docs
	"github.com/fiberflow/opsdash/internal/config"
	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/internal/metrics"
	"github.com/fiberflow/opsdash/internal/version"
	"github.com/fiberflow/opsdash/internal/web"
)

// Server represents the dashboard HTTP server.
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	dashboard *dashboard.Dashboard
	metrics   *metrics.Metrics
	logger    *zap.Logger
	wsHub     *Hub
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics enables request metrics and the Prometheus endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new server instance. The hub is created first so that
// dashboards built with Publisher can push to it before Start is called.
func New(cfg *config.Config, hub *Hub, d *dashboard.Dashboard, opts ...Option) *Server {
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	server := &Server{
		echo:      e,
		config:    cfg,
		dashboard: d,
		logger:    zap.NewNop(),
		wsHub:     hub,
	}
	for _, opt := range opts {
		opt(server)
	}

	e.HTTPErrorHandler = server.handleError

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	if s.metrics != nil {
		s.echo.Use(Metrics(s.metrics))
	}

	s.echo.Use(RequestLogger(s.logger))

	s.echo.Use(middleware.Recover())

	s.echo.Use(SecurityHeaders)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	s.echo.Use(middleware.RequestID())

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}
}

// setupRoutes configures API and web routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	if s.metrics != nil && s.config.Metrics.Enabled {
		s.echo.GET(s.config.Metrics.Path, echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	v1.Use(ValidateContentType, ValidateAcceptHeader)

	naps := v1.Group("/naps")
	naps.Use(ValidateQueryParams)
	naps.GET("", s.listNAPs)
	naps.GET("/municipalities", s.listMunicipalities)
	naps.GET("/active", s.getActiveNAP)
	naps.PUT("/filter", s.updateFilter)
	naps.POST("/:id/select", s.selectNAP, ValidateIDFormat)

	v1.GET("/stock", s.listStock)

	jobOrders := v1.Group("/joborders")
	jobOrders.GET("/draft", s.getDraft)
	jobOrders.PUT("/draft/:id", s.setDraftQuantity, ValidateIDFormat)
	jobOrders.DELETE("/draft", s.clearDraft)
	jobOrders.POST("", s.submitJobOrder)

	v1.GET("/stats", s.getStatistics)
	v1.POST("/validate/catalog", s.validateCatalog)

	ws := v1.Group("/ws")
	ws.GET("", s.HandleWebSocket)
	ws.GET("/stats", s.GetWebSocketStats)

	web.NewHandler(s.dashboard, s.logger).RegisterRoutes(s.echo)
}

// Start runs the hub and serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	addr := s.config.Server.Address()

	s.logger.Info("starting opsdash server",
		logging.String("address", addr),
		logging.String("version", version.Short()),
		logging.Bool("debug", s.config.Server.Debug),
	)

	go s.wsHub.Run()

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error starting server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down opsdash server")

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.wsHub.Stop()

	s.logger.Info("server shutdown complete")
	return nil
}

// healthCheck handles health check requests.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:           "healthy",
		Service:          "opsdash",
		Version:          version.Short(),
		ConnectedClients: s.wsHub.ClientCount(),
	})
}

// ServeHTTP allows Server to implement http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
