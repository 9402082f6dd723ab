package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/d60-Lab/mingle/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// clientFrame is what the browser sends over the socket.
type clientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinData struct {
	UserID string `json:"userId"`
}

type chatRoomData struct {
	ChatID string `json:"chatId"`
}

// Client is one live connection. It belongs to at most one authenticated
// identity (set by the join event) and any number of conversation rooms.
// Room membership is touched only from the hub goroutine.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	userID string

	joined map[string]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		joined: make(map[string]struct{}),
	}
}

// ServeConn registers an upgraded connection with the hub and starts its
// pumps. It returns immediately.
func ServeConn(hub *Hub, conn *websocket.Conn) {
	c := newClient(hub, conn)
	hub.register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) setUserID(id string) {
	c.mu.Lock()
	c.userID = id
	c.mu.Unlock()
}

func (c *Client) trackRoom(room string)   { c.joined[room] = struct{}{} }
func (c *Client) untrackRoom(room string) { delete(c.joined, room) }

func (c *Client) rooms() []string {
	out := make([]string, 0, len(c.joined))
	for room := range c.joined {
		out = append(out, room)
	}
	return out
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("realtime: read error", zap.Error(err))
			}
			return
		}
		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame clientFrame) {
	switch frame.Event {
	case eventJoin:
		var d joinData
		if err := json.Unmarshal(frame.Data, &d); err != nil || d.UserID == "" {
			return
		}
		c.setUserID(d.UserID)
		c.hub.subscribe <- subscription{client: c, room: userRoom(d.UserID)}
	case eventJoinChat:
		var d chatRoomData
		if err := json.Unmarshal(frame.Data, &d); err != nil || d.ChatID == "" {
			return
		}
		c.hub.subscribe <- subscription{client: c, room: chatRoom(d.ChatID)}
	case eventLeaveChat:
		var d chatRoomData
		if err := json.Unmarshal(frame.Data, &d); err != nil || d.ChatID == "" {
			return
		}
		c.hub.unsubscribe <- subscription{client: c, room: chatRoom(d.ChatID)}
	case eventTyping, eventStopTyping:
		var d TypingPayload
		if err := json.Unmarshal(frame.Data, &d); err != nil || d.ChatID == "" {
			return
		}
		out := EventUserTyping
		if frame.Event == eventStopTyping {
			out = EventUserStoppedTyping
		}
		c.hub.PublishToConversation(d.ChatID, c.UserID(), out, d)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
