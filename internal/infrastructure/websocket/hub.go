package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"livechat/pkg/logger"
)

// Event is the wire shape pushed to chat subscribers. Polling stays
// authoritative; the stream is best-effort.
type Event struct {
	Type    string      `json:"type"`
	ChatID  string      `json:"chat_id"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventMessageNew      = "message.new"
	EventMessageEdited   = "message.edited"
	EventMessageDeleted  = "message.deleted"
	EventMessageReaction = "message.reaction"
	EventChatCleared     = "chat.cleared"
	EventTyping          = "typing"
	EventPresence        = "presence"
)

// Client represents one subscriber socket, bound to a single chat.
type Client struct {
	ChatID      string
	Participant string
	Conn        *websocket.Conn
	Send        chan []byte
}

// Hub fans events out to every subscriber of the same chat.
type Hub struct {
	clients    map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	events     chan Event
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		events:     make(chan Event, 64),
	}
}

// Start runs the hub's main loop in a goroutine
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.Register:
				h.mutex.Lock()
				if h.clients[client.ChatID] == nil {
					h.clients[client.ChatID] = make(map[*Client]bool)
				}
				h.clients[client.ChatID][client] = true
				h.mutex.Unlock()
				logger.Debug("Subscriber registered: chat=%s participant=%s", client.ChatID, client.Participant)

			case client := <-h.Unregister:
				h.mutex.Lock()
				if subs, ok := h.clients[client.ChatID]; ok && subs[client] {
					delete(subs, client)
					close(client.Send)
					if len(subs) == 0 {
						delete(h.clients, client.ChatID)
					}
				}
				h.mutex.Unlock()
				logger.Debug("Subscriber unregistered: chat=%s participant=%s", client.ChatID, client.Participant)

			case event := <-h.events:
				data, err := json.Marshal(event)
				if err != nil {
					logger.Error("Failed to marshal event: %v", err)
					continue
				}
				h.mutex.Lock()
				for client := range h.clients[event.ChatID] {
					select {
					case client.Send <- data:
					default:
						// Slow consumer; drop it rather than block the hub.
						delete(h.clients[event.ChatID], client)
						close(client.Send)
					}
				}
				h.mutex.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Broadcast queues an event for every subscriber of the chat. Never blocks
// the caller; when the hub is saturated the event is dropped.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.events <- event:
	default:
		logger.Warn("Event queue full, dropping %s for chat %s", event.Type, event.ChatID)
	}
}

// ReadPump drains (and discards) inbound frames so pings and closes are
// processed, unregistering on error.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("Subscriber read error: %v", err)
			}
			break
		}
	}
}

// WritePump sends queued events to the socket until Send is closed.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Debug("Subscriber write error: %v", err)
			return
		}
	}
}
