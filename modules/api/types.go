package api

import (
	chatdomain "github.com/example/lingo-rooms-demo/domain/chat"
	gamedomain "github.com/example/lingo-rooms-demo/domain/game"
)

// WSRequest is the inbound WebSocket frame.
type WSRequest struct {
	Type    string `json:"type"`
	RoomID  string `json:"room_id,omitempty"`
	Content string `json:"content,omitempty"`
}

// Inbound WebSocket operation types.
const (
	WSTypeJoin     = "join"
	WSTypeAnswer   = "answer"
	WSTypeHint     = "hint"
	WSTypePeerHint = "peer_hint"
	WSTypeChatJoin = "chat_join"
	WSTypeChat     = "chat"
)

// RoomListResponse is the API response for listing rooms.
type RoomListResponse struct {
	Rooms []gamedomain.Room `json:"rooms"`
}

// ChatHistoryResponse is the API response for the chat log.
type ChatHistoryResponse struct {
	Messages []chatdomain.Message `json:"messages"`
}

// ProgressResponse is the API response for a user's XP total.
type ProgressResponse struct {
	UserID string `json:"user_id"`
	XP     int    `json:"xp"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
