package api

import (
	"encoding/json"

	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/internal/reservation"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Version          string `json:"version"`
	ConnectedClients int    `json:"connectedClients"`
}

// NAPsResponse is a page of the visible NAP rows.
type NAPsResponse struct {
	Count    int                  `json:"count"`
	Total    int                  `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	Criteria directory.Criteria   `json:"criteria"`
	Totals   directory.Aggregates `json:"totals"`
	NAPs     []dashboard.NAPRow   `json:"naps"`
}

// FilterRequest is a partial filter update; omitted fields are unchanged.
type FilterRequest = directory.Patch

// SelectResponse reports whether a NAP became active.
type SelectResponse struct {
	Selected bool             `json:"selected"`
	ActiveID string           `json:"activeId,omitempty"`
	Detail   directory.Detail `json:"detail"`
}

// QuantityRequest carries the raw value of a quantity input. Quantity may be
// a JSON number or string; both are parsed like typed input.
type QuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// QuantityResponse echoes the stored quantity and the refreshed summary.
type QuantityResponse struct {
	ItemID   string                    `json:"itemId"`
	Quantity int                       `json:"quantity"`
	Summary  dashboard.JobOrderSummary `json:"summary"`
}

// SubmitRequest lists explicit job-order lines. When Lines is omitted the
// staged draft is submitted instead.
type SubmitRequest struct {
	Lines []reservation.Line `json:"lines"`
}

// JobOrderResponse is returned for a committed job order.
type JobOrderResponse struct {
	Outcome dashboard.Outcome    `json:"outcome"`
	Receipt *reservation.Receipt `json:"receipt"`
}

// StatisticsResponse combines the directory and stock totals.
type StatisticsResponse struct {
	Directory        directory.Aggregates        `json:"directory"`
	Stock            reservation.StockAggregates `json:"stock"`
	Counters         reservation.Counters        `json:"counters"`
	Municipalities   int                         `json:"municipalities"`
	ConnectedClients int                         `json:"connectedClients"`
}

// WebSocketStatsResponse describes the live feed.
type WebSocketStatsResponse struct {
	ConnectedClients int    `json:"connected_clients"`
	Status           string `json:"status"`
}
