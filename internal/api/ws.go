package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard runs on a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWS upgrades the connection and bridges a hub subscription to the
// socket. The channel is outbound-only: client frames are read and discarded
// so close frames are still processed, and a read error is the disconnect
// signal.
func (h *Handler) serveWS(c *gin.Context) {
	// Join the hub before completing the handshake so a mutation issued the
	// moment the dial returns cannot slip past this client.
	sub := h.hub.Subscribe()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.Unsubscribe(sub)
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	go func() {
		defer conn.Close()
		for env := range sub.Events() {
			if err := conn.WriteJSON(env); err != nil {
				h.logger.Debug("WebSocket write failed", zap.Error(err))
				h.hub.Unsubscribe(sub)
				return
			}
		}
	}()

	go func() {
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.Unsubscribe(sub)
				return
			}
		}
	}()
}
