package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/internal/reservation"
)

// Handler handles web UI requests.
type Handler struct {
	dashboard *dashboard.Dashboard
	logger    *zap.Logger
}

// NewHandler creates a new web handler.
func NewHandler(d *dashboard.Dashboard, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dashboard: d,
		logger:    logger,
	}
}

// RegisterRoutes mounts the dashboard page and its HTMX fragments.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Dashboard)

	g := e.Group("/web")
	g.GET("/naps", h.NAPPanel)
	g.POST("/naps/:id/activate", h.ActivateNAP)
	g.POST("/joborders/items/:id", h.ChangeQuantity)
	g.POST("/joborders", h.SubmitJobOrder)
	g.POST("/joborders/clear", h.ClearDraft)
}

// Dashboard renders the main dashboard.
func (h *Handler) Dashboard(c echo.Context) error {
	return Render(c, Page(h.dashboard.View()))
}

// NAPPanel applies the filters present in the query string and renders the
// directory panel (for HTMX).
func (h *Handler) NAPPanel(c echo.Context) error {
	var p directory.Patch
	q := c.QueryParams()
	if q.Has("municipality") {
		p.Municipality = directory.Value(q.Get("municipality"))
	}
	if q.Has("state") {
		p.State = directory.Value(q.Get("state"))
	}
	if q.Has("search") {
		p.Search = directory.Value(q.Get("search"))
	}

	if p == (directory.Patch{}) {
		return Render(c, NAPPanel(h.dashboard.Directory()))
	}
	return Render(c, NAPPanel(h.dashboard.ApplyFilter(p)))
}

// ActivateNAP selects a row and renders the directory panel. Rows that are not
// visible leave the selection unchanged.
func (h *Handler) ActivateNAP(c echo.Context) error {
	view, _ := h.dashboard.ActivateRow(pathID(c))
	return Render(c, NAPPanel(view))
}

// ChangeQuantity stages the quantity typed into an item input and renders the
// job-order summary (for HTMX).
func (h *Handler) ChangeQuantity(c echo.Context) error {
	id := pathID(c)

	_, summary, err := h.dashboard.ChangeQuantity(id, c.FormValue("item-"+id))
	if errors.Is(err, reservation.ErrItemNotFound) {
		return c.String(http.StatusNotFound, "Stock item not found")
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, "Failed to update job order")
	}

	return Render(c, JobSummary(summary))
}

// SubmitJobOrder stages the quantities posted with the form, commits the job
// order and renders the refreshed stock panel.
func (h *Handler) SubmitJobOrder(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid form")
	}

	for _, row := range h.dashboard.Stock().Rows {
		name := "item-" + row.ID
		if form.Has(name) {
			if _, _, err := h.dashboard.ChangeQuantity(row.ID, form.Get(name)); err != nil {
				h.logger.Warn("failed to stage posted quantity", logging.String("item", row.ID), logging.ErrorF(err))
			}
		}
	}

	outcome, _, _ := h.dashboard.SubmitJobOrder()
	return h.renderStock(c, outcome)
}

// ClearDraft drops the staged quantities and renders the stock panel.
func (h *Handler) ClearDraft(c echo.Context) error {
	h.dashboard.ClearDraft()
	return h.renderStock(c, h.dashboard.Outcome())
}

// pathID returns the :id parameter with any percent-encoding removed.
func pathID(c echo.Context) string {
	id := c.Param("id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

func (h *Handler) renderStock(c echo.Context, outcome dashboard.Outcome) error {
	return Render(c, StockPanel(h.dashboard.Stock(), h.dashboard.Summary(), outcome))
}
