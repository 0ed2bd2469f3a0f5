package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/internal/reservation"
)

// APIError represents a structured API error with HTTP status code.
type APIError struct {
	Code       int               `json:"code"`
	Message    string            `json:"message"`
	Details    string            `json:"details,omitempty"`
	FieldError map[string]string `json:"field_errors,omitempty"`
	Context    map[string]any    `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewAPIError creates a new API error.
func NewAPIError(code int, message string, details string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func BadRequestError(message, details string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, details)
}

func NotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Context: map[string]any{"id": id},
	}
}

func ValidationError(message string, fieldErrors map[string]string) *APIError {
	return &APIError{
		Code:       http.StatusBadRequest,
		Message:    message,
		FieldError: fieldErrors,
	}
}

func InternalError(message, details string) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, details)
}

func ConflictError(message, details string) *APIError {
	return NewAPIError(http.StatusConflict, message, details)
}

// reservationError maps reservation engine errors to API errors.
func reservationError(err error, itemID string) *APIError {
	var stockErr *reservation.InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		apiErr := ConflictError("Insufficient stock", stockErr.Error())
		apiErr.Context = map[string]any{
			"itemId":    stockErr.ItemID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		}
		return apiErr
	case errors.Is(err, reservation.ErrNoItemsSelected):
		return BadRequestError("No items selected", err.Error())
	case errors.Is(err, reservation.ErrItemNotFound):
		apiErr := NotFoundError("Stock item", itemID)
		apiErr.Details = err.Error()
		return apiErr
	case errors.Is(err, reservation.ErrInvalidQuantity):
		return BadRequestError("Invalid quantity", err.Error())
	default:
		return InternalError("Reservation failed", err.Error())
	}
}

// HTTPErrorHandler is a custom error handler for Echo.
func HTTPErrorHandler(err error, c echo.Context) {
	// Don't send response if already sent
	if c.Response().Committed {
		return
	}

	apiErr := toAPIError(err)

	// Don't expose internal errors in production
	if apiErr.Code == http.StatusInternalServerError && !c.Echo().Debug {
		apiErr.Details = "An internal error occurred. Please try again later."
	}

	if err := c.JSON(apiErr.Code, apiErr); err != nil {
		c.Logger().Error(err)
	}
}

// handleError logs server-side failures before writing the JSON error.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if apiErr := toAPIError(err); apiErr.Code >= http.StatusInternalServerError {
		s.logger.Error("request error",
			logging.String("method", c.Request().Method),
			logging.String("path", c.Path()),
			logging.ErrorF(err),
		)
	}
	HTTPErrorHandler(err, c)
}

func toAPIError(err error) *APIError {
	var he *echo.HTTPError
	var ae *APIError

	switch {
	case errors.As(err, &ae):
		// Copy so the production masking never mutates a shared value.
		cp := *ae
		return &cp
	case errors.As(err, &he):
		return &APIError{
			Code:    he.Code,
			Message: getHTTPMessage(he.Code),
			Details: fmt.Sprintf("%v", he.Message),
		}
	default:
		return &APIError{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
			Details: err.Error(),
		}
	}
}

// getHTTPMessage returns a user-friendly message for HTTP status codes.
func getHTTPMessage(code int) string {
	messages := map[int]string{
		http.StatusBadRequest:          "Bad request",
		http.StatusUnauthorized:        "Unauthorized",
		http.StatusForbidden:           "Forbidden",
		http.StatusNotFound:            "Resource not found",
		http.StatusMethodNotAllowed:    "Method not allowed",
		http.StatusConflict:            "Conflict",
		http.StatusUnprocessableEntity: "Unprocessable entity",
		http.StatusTooManyRequests:     "Too many requests",
		http.StatusInternalServerError: "Internal server error",
		http.StatusBadGateway:          "Bad gateway",
		http.StatusServiceUnavailable:  "Service unavailable",
	}

	if msg, ok := messages[code]; ok {
		return msg
	}
	return http.StatusText(code)
}
