package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/maddreams/cleaning-site/events"
	"github.com/maddreams/cleaning-site/sessions"
	"github.com/maddreams/cleaning-site/utils"
)

// Same-origin only: the default CheckOrigin compares Origin with Host.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type EventsController struct {
	Hub      *events.Hub
	Sessions *sessions.Manager
}

func NewEventsController(hub *events.Hub, sm *sessions.Manager) *EventsController {
	return &EventsController{Hub: hub, Sessions: sm}
}

// Subscribe -> GET /admin/ws. The connection belongs to the admin session
// that opened it and is closed when that session ends.
func (ec *EventsController) Subscribe(c *gin.Context) {
	s := ec.Sessions.Current(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.InfoLogger.WithError(err).Debug("websocket upgrade rejected")
		return
	}

	// Replaces the server's read timeout; the read loop ends when the session
	// expires.
	_ = ws.SetReadDeadline(s.ExpiresAt)
	ec.Hub.Register(ws, s.ID)

	// Dashboards never send anything; reading only detects the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	ec.Hub.Unregister(ws)
}
