package broadcast

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/lingo-rooms-demo/events"
)

// Frame types pushed to WebSocket clients.
const (
	FrameRoomUpdated  = "room_updated"
	FrameHint         = "hint"
	FrameRoundSuccess = "round_success"
	FrameChatMessage  = "chat_message"
)

// BroadcastModule consumes the domain events and pushes them to connected
// WebSocket clients through the hub.
type BroadcastModule struct {
	hub       *Hub
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*BroadcastModule)(nil)
	_ mono.EventConsumerModule   = (*BroadcastModule)(nil)
	_ mono.HealthCheckableModule = (*BroadcastModule)(nil)
)

// NewModule creates a new BroadcastModule.
func NewModule() *BroadcastModule {
	return &BroadcastModule{
		hub: NewHub(),
	}
}

// Name returns the module name.
func (m *BroadcastModule) Name() string {
	return "broadcast"
}

// Start starts the hub.
func (m *BroadcastModule) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	log.Println("[broadcast] Module started - WebSocket hub running")
	return nil
}

// Stop shuts down the hub.
func (m *BroadcastModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	log.Printf("[broadcast] Module stopped - %d clients were connected", clientCount)
	return nil
}

// Health returns the health status.
func (m *BroadcastModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers registers event handlers.
func (m *BroadcastModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomUpdatedV1, m.handleRoomUpdated, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomUpdated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.HintIssuedV1, m.handleHintIssued, m,
	); err != nil {
		return fmt.Errorf("failed to register HintIssued consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoundSuccessV1, m.handleRoundSuccess, m,
	); err != nil {
		return fmt.Errorf("failed to register RoundSuccess consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.ChatMessageV1, m.handleChatMessage, m,
	); err != nil {
		return fmt.Errorf("failed to register ChatMessage consumer: %w", err)
	}

	log.Println("[broadcast] Registered event consumers: RoomUpdated, HintIssued, RoundSuccess, ChatMessage")
	return nil
}

func (m *BroadcastModule) handleRoomUpdated(_ context.Context, event events.RoomUpdatedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(event.Room.ID, FrameRoomUpdated, event.Room)
	return nil
}

func (m *BroadcastModule) handleHintIssued(_ context.Context, event events.HintIssuedEvent, _ *mono.Msg) error {
	log.Printf("[broadcast] Hint for room %s (source: %s)", event.RoomID, event.Source)
	m.hub.Broadcast(event.RoomID, FrameHint, event)
	return nil
}

func (m *BroadcastModule) handleRoundSuccess(_ context.Context, event events.RoundSuccessEvent, _ *mono.Msg) error {
	m.hub.Broadcast(event.RoomID, FrameRoundSuccess, event)
	return nil
}

func (m *BroadcastModule) handleChatMessage(_ context.Context, event events.ChatMessageEvent, _ *mono.Msg) error {
	// Chat is shared across rooms; empty room ID fans out to everyone.
	m.hub.Broadcast("", FrameChatMessage, event.Message)
	return nil
}

// GetHub returns the WebSocket hub for the API module to use.
func (m *BroadcastModule) GetHub() *Hub {
	return m.hub
}
