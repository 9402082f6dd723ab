package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/d60-Lab/mingle/internal/realtime"
	"github.com/d60-Lab/mingle/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from arbitrary origins; the socket carries no
	// privileged state until the client identifies itself with a join event.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS upgrades the connection and hands it to the hub.
// @Summary Websocket endpoint
// @Tags realtime
// @Router /ws [get]
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	realtime.ServeConn(h.hub, conn)
}
