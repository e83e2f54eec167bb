package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 25 * time.Second
	wsSendBuffer = 16
)

// WSClient is one websocket connection of a user. A user may hold several.
type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func NewWSClient(userID uint, conn *websocket.Conn) *WSClient {
	return &WSClient{UserID: userID, Conn: conn, send: make(chan []byte, wsSendBuffer)}
}

// WritePump owns all writes to the connection; it returns when the client is
// unregistered or a write fails.
func (c *WSClient) WritePump(h *RealtimeHub) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		h.Unregister(c)
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	c.once.Do(func() {
		close(c.send)
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// Connected reports how many live connections the user has.
func (h *RealtimeHub) Connected(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast queues payload for every connection of userID. Slow clients with
// a full buffer miss the message rather than block the caller.
func (h *RealtimeHub) Broadcast(userID uint, payload any) error {
	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- msg:
		default:
		}
	}
	return nil
}
