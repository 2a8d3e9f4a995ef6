package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the portal frontend is served from a different origin
	},
}

// clientAction represents a JSON frame sent by a websocket client.
type clientAction struct {
	Action string `json:"action"`
	ChatID string `json:"chatId"`
}

// Client represents a single websocket connection and its chat subscriptions.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	chats map[string]bool
	mu    sync.Mutex
}

// Hub maintains the set of active clients and fans new messages out to
// clients subscribed to the message's chat. Delivery is not filtered by
// sender: the author's own connection receives the message like everyone
// else's, which is how the client confirms the send.
type Hub struct {
	// clients is the set of all registered clients.
	clients map[*Client]bool

	// chatSubs maps chat IDs to sets of subscribed clients.
	chatSubs map[string]map[*Client]bool

	// register channel for new clients.
	register chan *Client

	// unregister channel for departing clients.
	unregister chan *Client

	// broadcast receives a chat-scoped message to be sent to subscribers.
	broadcast chan broadcastMsg

	mu sync.RWMutex
}

// broadcastMsg pairs a chat ID with the raw JSON payload to broadcast.
type broadcastMsg struct {
	chatID string
	data   []byte
}

// NewHub creates and returns a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		chatSubs:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 256),
	}
}

// Run starts the hub's main event loop. It must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.dropClient(client)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			if subs, ok := h.chatSubs[msg.chatID]; ok {
				for client := range subs {
					select {
					case client.send <- msg.data:
					default:
						// client's send buffer is full; drop it
						slow = append(slow, client)
					}
				}
			}
			h.mu.RUnlock()

			if len(slow) > 0 {
				h.mu.Lock()
				for _, client := range slow {
					if _, ok := h.clients[client]; ok {
						h.dropClient(client)
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

// dropClient removes a client and all its subscriptions. Caller holds h.mu.
func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)
	close(client.send)

	client.mu.Lock()
	for ch := range client.chats {
		if subs, exists := h.chatSubs[ch]; exists {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.chatSubs, ch)
			}
		}
	}
	client.mu.Unlock()
}

// Broadcast sends a message to all clients subscribed to the given chat.
func (h *Hub) Broadcast(chatID string, msg []byte) {
	h.broadcast <- broadcastMsg{chatID: chatID, data: msg}
}

// subscribe adds a client to a chat's subscriber set.
func (h *Hub) subscribe(client *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	client.chats[chatID] = true
	client.mu.Unlock()

	if h.chatSubs[chatID] == nil {
		h.chatSubs[chatID] = make(map[*Client]bool)
	}
	h.chatSubs[chatID][client] = true
}

// unsubscribe removes a client from a chat's subscriber set.
func (h *Hub) unsubscribe(client *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	delete(client.chats, chatID)
	client.mu.Unlock()

	if subs, ok := h.chatSubs[chatID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.chatSubs, chatID)
		}
	}
}

// readPump pumps messages from the websocket connection to the hub.
// It handles subscribe/unsubscribe actions from the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.S().Warnw("ws: unexpected close error", "error", err)
			}
			break
		}

		var action clientAction
		if err := json.Unmarshal(message, &action); err != nil {
			zap.S().Debugw("ws: invalid message from client", "error", err)
			continue
		}

		switch action.Action {
		case "subscribe":
			if action.ChatID != "" {
				c.hub.subscribe(c, action.ChatID)
			}
		case "unsubscribe":
			if action.ChatID != "" {
				c.hub.unsubscribe(c, action.ChatID)
			}
		default:
			zap.S().Debugw("ws: unknown action", "action", action.Action)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message, ok := <-c.send; ok; message, ok = <-c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}

	// channel closed; write a close message
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ServeWS handles websocket upgrade requests and registers the new client
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("ws: upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 256),
		chats: make(map[string]bool),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}
