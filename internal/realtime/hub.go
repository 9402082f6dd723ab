package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/d60-Lab/mingle/pkg/logger"
)

func userRoom(userID string) string { return "user_" + userID }
func chatRoom(chatID string) string { return "chat_" + chatID }

type envelope struct {
	room    string // empty means broadcast to all connections
	exclude string // user id to skip (typing origin)
	event   string
	payload any
}

type subscription struct {
	client *Client
	room   string
}

// Hub is the process-local live-connection registry: which connection is in
// which room, plus the fan-out loop. All state is owned by Run's goroutine;
// the channels are the only way in. Connections on other instances are
// invisible to it — scaling the fan-out layer needs an external pub/sub
// behind Publisher.
type Hub struct {
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	publish     chan envelope

	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		publish:     make(chan envelope, 4096),
		clients:     make(map[*Client]struct{}),
		rooms:       make(map[string]map[*Client]struct{}),
	}
}

// Run owns all hub state until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				for _, room := range c.rooms() {
					h.leave(c, room)
				}
				close(c.send)
			}
		case sub := <-h.subscribe:
			h.join(sub.client, sub.room)
		case sub := <-h.unsubscribe:
			h.leave(sub.client, sub.room)
		case env := <-h.publish:
			h.fanOut(env)
		}
	}
}

func (h *Hub) join(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.trackRoom(room)
}

func (h *Hub) leave(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	c.untrackRoom(room)
}

func (h *Hub) fanOut(env envelope) {
	frame, err := json.Marshal(map[string]any{"event": env.event, "data": env.payload})
	if err != nil {
		logger.Error("realtime: marshal event", zap.String("event", env.event), zap.Error(err))
		return
	}

	var targets map[*Client]struct{}
	if env.room == "" {
		targets = h.clients
	} else {
		targets = h.rooms[env.room]
	}
	for c := range targets {
		if env.exclude != "" && c.UserID() == env.exclude {
			continue
		}
		select {
		case c.send <- frame:
		default:
			// Slow consumer: drop this event for this connection only.
			logger.Warn("realtime: send buffer full, drop",
				zap.String("event", env.event),
				zap.String("user", c.UserID()),
			)
		}
	}
}

// enqueue hands an event to the fan-out loop without ever blocking the
// originating request.
func (h *Hub) enqueue(env envelope) {
	select {
	case h.publish <- env:
	default:
		logger.Warn("realtime: publish queue full, drop", zap.String("event", env.event))
	}
}

func (h *Hub) PublishToUser(userID, event string, payload any) {
	h.enqueue(envelope{room: userRoom(userID), event: event, payload: payload})
}

func (h *Hub) PublishToConversation(conversationID, excludeUserID, event string, payload any) {
	h.enqueue(envelope{room: chatRoom(conversationID), exclude: excludeUserID, event: event, payload: payload})
}

func (h *Hub) Broadcast(event string, payload any) {
	h.enqueue(envelope{event: event, payload: payload})
}

var _ Publisher = (*Hub)(nil)
