package chat

import (
	"context"
	"log"
	"os"

	"github.com/go-monolith/mono"

	domain "github.com/example/lingo-rooms-demo/domain/chat"
	"github.com/example/lingo-rooms-demo/events"
)

// Defaults for the AI tutor persona living in the chat.
const (
	defaultHandle      = "profe"
	defaultDisplayName = "Profe Sofía"
)

// Module wires the chat relay into the framework and publishes appended
// messages on the EventBus.
type Module struct {
	service  *Service
	eventBus mono.EventBus
	handle   string
	name     string
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
	_ Sink                     = (*Module)(nil)
)

// NewModule creates the chat module with the relay seeded and the module
// itself as the message sink. TUTOR_HANDLE and TUTOR_NAME override the
// persona identity.
func NewModule(tutor ReplyPort) *Module {
	handle := os.Getenv("TUTOR_HANDLE")
	if handle == "" {
		handle = defaultHandle
	}
	name := os.Getenv("TUTOR_NAME")
	if name == "" {
		name = defaultDisplayName
	}
	m := &Module{handle: handle, name: name}
	m.service = NewService(handle, name, tutor, m)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ChatMessageV1.ToBase(),
	}
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	log.Printf("[chat] Module started (persona: %s, mention: @%s)", m.name, m.handle)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Printf("[chat] Module stopped - %d messages in log", m.service.HistoryLen())
	return nil
}

// Service returns the relay for driving adapters.
func (m *Module) Service() *Service {
	return m.service
}

// ChatMessage publishes an appended message on the bus.
func (m *Module) ChatMessage(msg domain.Message) {
	if err := events.ChatMessageV1.Publish(m.eventBus, events.ChatMessageEvent{Message: msg}, nil); err != nil {
		log.Printf("[chat] Failed to publish ChatMessage: %v", err)
	}
}
