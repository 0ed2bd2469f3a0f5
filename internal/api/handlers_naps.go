package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiberflow/opsdash/internal/dashboard"
)

// listNAPs handles GET /api/v1/naps
// @Summary List visible NAPs
// @Description Returns the NAPs matching the current filter, in catalog order
// @Tags naps
// @Produce json
// @Param limit query int false "Page size (max 1000)"
// @Param offset query int false "Page offset"
// @Success 200 {object} NAPsResponse
// @Failure 400 {object} APIError
// @Router /naps [get]
func (s *Server) listNAPs(c echo.Context) error {
	limit, offset := parsePagination(c)
	view := s.dashboard.Directory()

	page := paginate(view.Rows, limit, offset)
	return c.JSON(http.StatusOK, NAPsResponse{
		Count:    len(page),
		Total:    len(view.Rows),
		Limit:    limit,
		Offset:   offset,
		Criteria: view.Criteria,
		Totals:   view.Totals,
		NAPs:     page,
	})
}

// listMunicipalities handles GET /api/v1/naps/municipalities
// @Summary List municipalities
// @Tags naps
// @Produce json
// @Success 200 {array} string
// @Router /naps/municipalities [get]
func (s *Server) listMunicipalities(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dashboard.Directory().Municipalities)
}

// getActiveNAP handles GET /api/v1/naps/active
// @Summary Get the active NAP
// @Description Returns the detail card of the active NAP, or the placeholder when nothing is visible
// @Tags naps
// @Produce json
// @Success 200 {object} SelectResponse
// @Router /naps/active [get]
func (s *Server) getActiveNAP(c echo.Context) error {
	return c.JSON(http.StatusOK, selectResponse(s.dashboard.Directory()))
}

// updateFilter handles PUT /api/v1/naps/filter
// @Summary Update the directory filter
// @Description Merges the given fields into the current filter. Omitted fields are unchanged; "all" clears a selector.
// @Tags naps
// @Accept json
// @Produce json
// @Param filter body FilterRequest true "Partial filter"
// @Success 200 {object} dashboard.DirectoryView
// @Failure 400 {object} APIError
// @Router /naps/filter [put]
func (s *Server) updateFilter(c echo.Context) error {
	var req FilterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid filter", err.Error())
	}
	return c.JSON(http.StatusOK, s.dashboard.ApplyFilter(req))
}

// selectNAP handles POST /api/v1/naps/:id/select
// @Summary Select a NAP
// @Description Makes a visible NAP the active one
// @Tags naps
// @Produce json
// @Param id path string true "NAP ID"
// @Success 200 {object} SelectResponse
// @Failure 404 {object} APIError
// @Router /naps/{id}/select [post]
func (s *Server) selectNAP(c echo.Context) error {
	id := c.Param("id")

	view, ok := s.dashboard.ActivateRow(id)
	if !ok {
		apiErr := NotFoundError("NAP", id)
		apiErr.Details = "NAP is unknown or hidden by the current filter"
		return apiErr
	}
	return c.JSON(http.StatusOK, selectResponse(view))
}

func selectResponse(view dashboard.DirectoryView) SelectResponse {
	resp := SelectResponse{Detail: view.Detail}
	for _, r := range view.Rows {
		if r.Active {
			resp.Selected = true
			resp.ActiveID = r.ID
			break
		}
	}
	return resp
}
