package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	gamedomain "github.com/example/lingo-rooms-demo/domain/game"
	"github.com/example/lingo-rooms-demo/modules/broadcast"
)

const maxChatMessageLength = 4096

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	// WebSocket endpoint
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	// REST API v1 (read-only views; all mutations flow over the socket)
	api := m.app.Group("/api/v1")
	api.Get("/rooms", m.listRooms)
	api.Get("/rooms/:id", m.getRoom)
	api.Get("/chat/history", m.getChatHistory)
	api.Get("/progress/:user_id", m.getProgress)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// listRooms handles GET /api/v1/rooms.
func (m *APIModule) listRooms(c *fiber.Ctx) error {
	return c.JSON(RoomListResponse{Rooms: m.gameSvc.Rooms()})
}

// getRoom handles GET /api/v1/rooms/:id.
func (m *APIModule) getRoom(c *fiber.Ctx) error {
	room, ok := m.gameSvc.Room(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Room not found",
		})
	}
	return c.JSON(room)
}

// getChatHistory handles GET /api/v1/chat/history.
func (m *APIModule) getChatHistory(c *fiber.Ctx) error {
	return c.JSON(ChatHistoryResponse{Messages: m.chatSvc.Join()})
}

// getProgress handles GET /api/v1/progress/:user_id.
func (m *APIModule) getProgress(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	xp, err := m.progress.XP(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "progress_failed",
			Message: "Failed to look up progress",
		})
	}
	return c.JSON(ProgressResponse{UserID: userID, XP: xp})
}

// handleWebSocket handles WebSocket connections at /ws.
// Identity travels in the query string: ?user=u1&name=Ana&track=es-en
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	clientID := uuid.New().String()
	userID := c.Query("user")
	if userID == "" {
		userID = clientID
	}
	displayName := c.Query("name", "anonymous")
	track := gamedomain.LearningTrack(c.Query("track", string(gamedomain.TrackLearningSpanish)))
	if !track.Valid() {
		_ = c.WriteJSON(broadcast.Envelope{Type: "error", Payload: "unknown learning track"})
		_ = c.Close()
		return
	}

	client := &broadcast.Client{
		ID:          clientID,
		UserID:      userID,
		DisplayName: displayName,
		Conn:        c,
	}

	m.hub.Register(client)
	defer func() {
		m.hub.Unregister(client)
		log.Printf("[api] WebSocket client disconnected: %s (%s)", clientID, displayName)
	}()

	log.Printf("[api] WebSocket client connected: %s (%s, track %s)", clientID, displayName, track)

	if err := client.SendJSON(broadcast.Envelope{Type: "connected", Payload: clientID}); err != nil {
		log.Printf("[api] Failed to send welcome: %v", err)
		return
	}

	participant := gamedomain.Participant{
		UserID:      userID,
		DisplayName: displayName,
		Track:       track,
	}

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Client %s closed connection", clientID)
			} else {
				log.Printf("[api] Read error from %s: %v", clientID, err)
			}
			break
		}

		var msg WSRequest
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			m.sendError(client, "Invalid message format")
			continue
		}

		switch msg.Type {
		case WSTypeJoin:
			m.handleJoin(client, participant, msg)
		case WSTypeAnswer:
			m.handleAnswer(client, msg)
		case WSTypeHint:
			m.handleHint(client)
		case WSTypePeerHint:
			m.handlePeerHint(client)
		case WSTypeChatJoin:
			m.handleChatJoin(client)
		case WSTypeChat:
			m.handleChat(client, msg)
		default:
			m.sendError(client, "Unknown message type: "+msg.Type)
		}
	}
}

func (m *APIModule) handleJoin(client *broadcast.Client, p gamedomain.Participant, msg WSRequest) {
	if msg.RoomID == "" {
		m.sendError(client, "Room ID is required")
		return
	}
	// Move the socket into the room before joining so the resulting
	// RoomUpdated broadcast reaches this client too. JoinRoom also sets
	// client.RoomID, under the hub lock.
	m.hub.JoinRoom(client.ID, msg.RoomID)
	if err := m.gameSvc.JoinRoom(msg.RoomID, p); err != nil {
		m.sendError(client, "Failed to join room: "+err.Error())
		return
	}
}

func (m *APIModule) handleAnswer(client *broadcast.Client, msg WSRequest) {
	if client.RoomID == "" {
		m.sendError(client, "Join a room first")
		return
	}
	m.gameSvc.SubmitAnswer(client.RoomID, client.UserID, msg.Content)
}

func (m *APIModule) handleHint(client *broadcast.Client) {
	if client.RoomID == "" {
		m.sendError(client, "Join a room first")
		return
	}
	m.gameSvc.AskForHint(context.Background(), client.RoomID)
}

func (m *APIModule) handlePeerHint(client *broadcast.Client) {
	if client.RoomID == "" {
		m.sendError(client, "Join a room first")
		return
	}
	m.gameSvc.AskPeerHint(context.Background(), client.RoomID, client.UserID)
}

func (m *APIModule) handleChatJoin(client *broadcast.Client) {
	// History replay goes straight to the asking socket, not the bus.
	history := m.chatSvc.Join()
	_ = client.SendJSON(broadcast.Envelope{Type: "chat_history", Payload: history})
}

func (m *APIModule) handleChat(client *broadcast.Client, msg WSRequest) {
	if msg.Content == "" {
		m.sendError(client, "Message content is required")
		return
	}
	if len(msg.Content) > maxChatMessageLength {
		m.sendError(client, "Message too long")
		return
	}
	m.chatSvc.Post(client.UserID, client.DisplayName, msg.Content)
}

func (m *APIModule) sendError(client *broadcast.Client, message string) {
	_ = client.SendJSON(broadcast.Envelope{Type: "error", Payload: message})
}
