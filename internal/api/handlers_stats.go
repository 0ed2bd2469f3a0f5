package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// getStatistics handles GET /api/v1/stats
// @Summary Dashboard statistics
// @Description Totals of the visible NAPs, the stock panel and the job-order counters
// @Tags stats
// @Produce json
// @Success 200 {object} StatisticsResponse
// @Router /stats [get]
func (s *Server) getStatistics(c echo.Context) error {
	view := s.dashboard.View()

	return c.JSON(http.StatusOK, StatisticsResponse{
		Directory:        view.Directory.Totals,
		Stock:            view.Stock.Totals,
		Counters:         s.dashboard.Counters(),
		Municipalities:   len(view.Directory.Municipalities),
		ConnectedClients: s.wsHub.ClientCount(),
	})
}
