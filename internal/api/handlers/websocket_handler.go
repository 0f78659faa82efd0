package handlers

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/scraper"
	"github.com/sentilens/backend/pkg/logger"
)

// WebSocketHandler streams scraper progress to the browser: status plus
// any log lines appended since the last frame.
type WebSocketHandler struct {
	session *scraper.Session
}

func NewWebSocketHandler(session *scraper.Session) *WebSocketHandler {
	return &WebSocketHandler{session: session}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	sent := 0
	for range ticker.C {
		status, log := h.session.Snapshot()

		var fresh []string
		if sent < len(log) {
			fresh = log[sent:]
			sent = len(log)
		}

		msg := map[string]interface{}{
			"type":   "progress",
			"status": string(status),
			"lines":  fresh,
		}
		if err := c.WriteJSON(msg); err != nil {
			logger.Debug("WebSocket write failed", zap.Error(err))
			return
		}

		if status == scraper.StatusFinished || status == scraper.StatusFailed {
			c.WriteJSON(map[string]interface{}{
				"type":   "complete",
				"status": string(status),
			})
			return
		}
	}
}
