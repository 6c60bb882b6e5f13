package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client is one connected learner.
type Client struct {
	ID          string
	UserID      string
	DisplayName string
	RoomID      string
	Conn        *websocket.Conn

	// writeMu serializes frames: the hub loop and the connection's own
	// handler share the socket, and the websocket package allows only
	// one concurrent writer.
	writeMu sync.Mutex
}

// Send writes a text frame to the client's socket.
func (c *Client) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// SendJSON marshals v and sends it as a text frame.
func (c *Client) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(data)
}

// Envelope is the frame pushed to WebSocket clients.
type Envelope struct {
	Type    string `json:"type"`
	RoomID  string `json:"room_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Hub fans events out to connected WebSocket clients. Room-scoped frames
// reach only that room's members; frames with an empty room ID reach
// everyone (the shared chat).
type Hub struct {
	clients    map[string]*Client
	rooms      map[string]map[string]bool // roomID -> set of clientIDs
	register   chan *Client
	unregister chan *Client
	broadcast  chan Envelope
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Envelope, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It accepts a context for shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[hub] Shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case env := <-h.broadcast:
			h.handleBroadcast(env)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if client.RoomID != "" {
		if h.rooms[client.RoomID] == nil {
			h.rooms[client.RoomID] = make(map[string]bool)
		}
		h.rooms[client.RoomID][client.ID] = true
	}
	log.Printf("[hub] Client %s (%s) registered", client.ID, client.DisplayName)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		if client.RoomID != "" && h.rooms[client.RoomID] != nil {
			delete(h.rooms[client.RoomID], client.ID)
			if len(h.rooms[client.RoomID]) == 0 {
				delete(h.rooms, client.RoomID)
			}
		}
		log.Printf("[hub] Client %s (%s) unregistered", client.ID, client.DisplayName)
	}
}

func (h *Hub) handleBroadcast(env Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("[hub] Failed to marshal broadcast frame: %v", err)
		return
	}

	if env.RoomID == "" {
		for _, client := range h.clients {
			h.sendToClient(client, data)
		}
		return
	}
	if clientIDs, ok := h.rooms[env.RoomID]; ok {
		for clientID := range clientIDs {
			if client, ok := h.clients[clientID]; ok {
				h.sendToClient(client, data)
			}
		}
	}
}

func (h *Hub) sendToClient(client *Client, data []byte) {
	if err := client.Send(data); err != nil {
		log.Printf("[hub] Failed to send to client %s: %v", client.ID, err)
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast pushes a frame to a room's members, or to everyone when the
// room ID is empty.
func (h *Hub) Broadcast(roomID, frameType string, payload any) {
	h.broadcast <- Envelope{
		Type:    frameType,
		RoomID:  roomID,
		Payload: payload,
	}
}

// JoinRoom moves a client into a room's recipient set.
func (h *Hub) JoinRoom(clientID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	if client.RoomID != "" && h.rooms[client.RoomID] != nil {
		delete(h.rooms[client.RoomID], clientID)
		if len(h.rooms[client.RoomID]) == 0 {
			delete(h.rooms, client.RoomID)
		}
	}

	client.RoomID = roomID
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]bool)
	}
	h.rooms[roomID][clientID] = true
	log.Printf("[hub] Client %s joined room %s", clientID, roomID)
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients in a room.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.rooms[roomID]; ok {
		return len(clients)
	}
	return 0
}
