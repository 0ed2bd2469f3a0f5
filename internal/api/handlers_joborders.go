package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/reservation"
)

var errQuantityRequired = errors.New("quantity must be a number or numeric string")

// listStock handles GET /api/v1/stock
// @Summary List stock items
// @Description Returns every catalog item with its availability and staged quantity
// @Tags stock
// @Produce json
// @Success 200 {object} dashboard.StockView
// @Router /stock [get]
func (s *Server) listStock(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dashboard.Stock())
}

// getDraft handles GET /api/v1/joborders/draft
// @Summary Get the staged job order
// @Tags joborders
// @Produce json
// @Success 200 {object} dashboard.JobOrderSummary
// @Router /joborders/draft [get]
func (s *Server) getDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dashboard.Summary())
}

// setDraftQuantity handles PUT /api/v1/joborders/draft/:id
// @Summary Stage a quantity
// @Description Stores the quantity for one item, clamped to [0, available]. Non-numeric input stages 0.
// @Tags joborders
// @Accept json
// @Produce json
// @Param id path string true "Stock item ID"
// @Param quantity body QuantityRequest true "Quantity as number or string"
// @Success 200 {object} QuantityResponse
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /joborders/draft/{id} [put]
func (s *Server) setDraftQuantity(c echo.Context) error {
	id := c.Param("id")

	var req QuantityRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}
	raw, err := rawQuantity(req.Quantity)
	if err != nil {
		return BadRequestError("Invalid quantity", err.Error())
	}

	qty, summary, err := s.dashboard.ChangeQuantity(id, raw)
	if err != nil {
		return reservationError(err, id)
	}

	return c.JSON(http.StatusOK, QuantityResponse{
		ItemID:   id,
		Quantity: qty,
		Summary:  summary,
	})
}

// clearDraft handles DELETE /api/v1/joborders/draft
// @Summary Clear the staged job order
// @Tags joborders
// @Produce json
// @Success 200 {object} dashboard.JobOrderSummary
// @Router /joborders/draft [delete]
func (s *Server) clearDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dashboard.ClearDraft())
}

// submitJobOrder handles POST /api/v1/joborders
// @Summary Submit a job order
// @Description Without a body the staged draft is committed. With a body the given lines are committed exactly as requested; nothing is clamped. Either way the order is validated against current availability and committed atomically.
// @Tags joborders
// @Accept json
// @Produce json
// @Param order body SubmitRequest false "Explicit job-order lines"
// @Success 201 {object} JobOrderResponse
// @Failure 400 {object} APIError "No items selected"
// @Failure 404 {object} APIError "Stock item not found"
// @Failure 409 {object} APIError "Insufficient stock"
// @Router /joborders [post]
func (s *Server) submitJobOrder(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	var (
		outcome dashboard.Outcome
		receipt *reservation.Receipt
		err     error
	)
	if req.Lines != nil {
		outcome, receipt, err = s.dashboard.CommitLines(req.Lines)
	} else {
		outcome, receipt, err = s.dashboard.SubmitJobOrder()
	}

	if err != nil {
		apiErr := reservationError(err, "")
		if apiErr.Context == nil {
			apiErr.Context = map[string]any{}
		}
		apiErr.Context["outcome"] = outcome.Message
		return apiErr
	}

	return c.JSON(http.StatusCreated, JobOrderResponse{
		Outcome: outcome,
		Receipt: receipt,
	})
}

// rawQuantity turns a JSON number or string into the text a user would have
// typed into the quantity input.
func rawQuantity(msg json.RawMessage) (string, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return "", errQuantityRequired
	}

	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(msg, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", errQuantityRequired
	}
}
