package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

// Hub is the process-scoped registry of live leaderboard subscribers.
// Connections are added on connect and removed on disconnect or error;
// nothing here is persisted, so a restart drops all subscribers and
// they reconnect for a fresh snapshot.
type Hub struct {
	conns map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
}

// Connection represents one WebSocket subscriber
type Connection struct {
	Send chan []byte
	Hub  *Hub
}

// NewHub creates a new hub and starts its event loop
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			n := len(h.conns)
			h.mu.Unlock()
			log.Printf("Leaderboard subscriber connected (%d active)", n)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
			}
			n := len(h.conns)
			h.mu.Unlock()
			log.Printf("Leaderboard subscriber disconnected (%d active)", n)

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Count returns the number of active subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastLeaderboard pushes a full replacement snapshot to every
// subscriber (implements service.Broadcaster). The wire format is the
// bare JSON array of ranked entries.
func (h *Hub) BroadcastLeaderboard(entries []model.LeaderboardEntry) {
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("marshal leaderboard snapshot: %v", err)
		return
	}
	h.broadcast <- data
}
