package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS settings do not apply to upgrades; the feed is read-only.
		return true
	},
}

// HandleWebSocket streams dashboard events to the client.
// @Summary WebSocket feed of dashboard updates
// @Description Pushes directory_updated, draft_updated, joborder_committed and joborder_rejected events
// @Tags websocket
// @Success 101 {string} string "Switching Protocols"
// @Router /ws [get]
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.ErrorF(err))
		return err
	}

	client := &Client{
		id:   models.GenerateID("ws"),
		hub:  s.wsHub,
		conn: ws,
		send: make(chan []byte, 256),
	}

	select {
	case client.hub.register <- client:
	case <-client.hub.done:
		return ws.Close()
	}

	go client.writePump()
	go client.readPump()

	return nil
}

// GetWebSocketStats returns WebSocket connection statistics
// @Summary Get WebSocket statistics
// @Tags websocket
// @Produce json
// @Success 200 {object} WebSocketStatsResponse
// @Router /ws/stats [get]
func (s *Server) GetWebSocketStats(c echo.Context) error {
	return c.JSON(http.StatusOK, WebSocketStatsResponse{
		ConnectedClients: s.wsHub.ClientCount(),
		Status:           "operational",
	})
}
