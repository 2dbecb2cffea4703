// Package events pushes record changes to open admin dashboards over websockets.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maddreams/cleaning-site/utils"
)

const (
	EventAppointmentCreated = "appointment_created"
	EventAppointmentDeleted = "appointment_deleted"
	EventClientCreated      = "client_created"
	EventClientDeleted      = "client_deleted"
	EventComplaintCreated   = "complaint_created"
	EventComplaintDeleted   = "complaint_deleted"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client is one dashboard connection. Only its writer goroutine writes to
// conn.
type client struct {
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds conn on behalf of the admin session sessionID and starts its
// writer.
func (h *Hub) Register(conn *websocket.Conn, sessionID string) {
	cl := &client{conn: conn, sessionID: sessionID, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = cl
	h.mutex.Unlock()

	go h.writePump(cl)
}

// Unregister drops conn and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn)
}

// DropSession disconnects every connection opened by the session.
func (h *Hub) DropSession(sessionID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn, cl := range h.clients {
		if cl.sessionID == sessionID {
			h.drop(conn)
		}
	}
}

func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues the event for every client without waiting on the network.
// A client whose queue is full is disconnected.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", event).Error("marshal event")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			utils.InfoLogger.WithField("event", event).Debug("dropping slow dashboard client")
			h.drop(conn)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		h.drop(conn)
	}
}

func (h *Hub) writePump(cl *client) {
	for payload := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.InfoLogger.WithError(err).Debug("dropping dashboard client")
			h.Unregister(cl.conn)
			return
		}
	}
}

// caller holds h.mutex
func (h *Hub) drop(conn *websocket.Conn) {
	cl, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(cl.send)
	conn.Close()
}
