package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiberflow/opsdash/internal/catalog"
)

// maxCatalogSize bounds uploaded catalog documents.
const maxCatalogSize = 1 << 20

// validateCatalog handles POST /api/v1/validate/catalog
// @Summary Validate a catalog
// @Description Checks a NAP and stock catalog document without loading it
// @Tags validation
// @Accept json
// @Produce json
// @Param catalog body catalog.Catalog true "Catalog document"
// @Success 200 {object} validation.ValidationResult
// @Failure 400 {object} validation.ValidationResult
// @Router /validate/catalog [post]
func (s *Server) validateCatalog(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCatalogSize+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Failed to read request body",
		})
	}
	if len(body) > maxCatalogSize {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: "Catalog too large",
		})
	}

	cat, err := catalog.Decode(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid catalog document",
			Details: err.Error(),
		})
	}

	result := cat.Validate()
	if result.Valid {
		return c.JSON(http.StatusOK, result)
	}

	return c.JSON(http.StatusBadRequest, result)
}
