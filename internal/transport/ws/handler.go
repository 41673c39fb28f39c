package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// SnapshotFunc supplies the initial leaderboard for a fresh subscriber
type SnapshotFunc func(ctx context.Context) ([]model.LeaderboardEntry, error)

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	snapshot SnapshotFunc
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, snapshot SnapshotFunc) *Handler {
	return &Handler{
		hub:      hub,
		snapshot: snapshot,
	}
}

// LeaderboardWS handles GET /v1/ws/leaderboard. The connection is
// public: the server only ever pushes snapshots, and client messages
// beyond keep-alives are ignored.
func (h *Handler) LeaderboardWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		Send: make(chan []byte, 256),
		Hub:  h.hub,
	}

	h.hub.Register(conn)

	// Initial snapshot so the subscriber does not wait for the next
	// qualifying response.
	if entries, err := h.snapshot(r.Context()); err == nil {
		if entries == nil {
			entries = []model.LeaderboardEntry{}
		}
		if data, err := json.Marshal(entries); err == nil {
			conn.Send <- data
		}
	} else {
		log.Printf("initial leaderboard snapshot failed: %v", err)
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// Client messages carry no meaning beyond keeping the
		// connection alive.
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
