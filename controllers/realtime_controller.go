package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vitatrack/middlewares"
	"vitatrack/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-device app; the socket is auth'd by the JWT middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeController struct {
	hub *services.RealtimeHub
	log *zap.Logger
}

func NewRealtimeController(hub *services.RealtimeHub, log *zap.Logger) *RealtimeController {
	if log == nil {
		log = zap.NewNop()
	}
	return &RealtimeController{hub: hub, log: log}
}

// Connect upgrades to a websocket and keeps it registered until the client
// goes away. The read loop only exists to notice the close.
func (ctl *RealtimeController) Connect(c *gin.Context) {
	userID := middlewares.UserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.log.Warn("websocket_upgrade_failed", zap.Error(err))
		return
	}

	client := &services.RealtimeClient{UserID: userID, Conn: conn}
	ctl.hub.Register(client)
	defer ctl.hub.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
