package game

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-monolith/mono"

	domain "github.com/example/lingo-rooms-demo/domain/game"
	"github.com/example/lingo-rooms-demo/events"
)

const defaultAdvanceDelay = 1500 * time.Millisecond

// Module wires the rules engine into the mono framework: it owns the room
// store and publishes the engine's events on the EventBus.
type Module struct {
	service  *Service
	store    *RoomStore
	eventBus mono.EventBus
	delay    time.Duration
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ EventSink                  = (*Module)(nil)
)

// NewModule creates the game module with its store and rules engine. The
// advance delay can be overridden with ADVANCE_DELAY_MS (tests and demos
// shrink it).
func NewModule(tutor TutorPort) *Module {
	delay := defaultAdvanceDelay
	if raw := os.Getenv("ADVANCE_DELAY_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			delay = time.Duration(ms) * time.Millisecond
		}
	}
	m := &Module{delay: delay}
	m.store = NewRoomStore()
	m.service = NewService(m.store, NewGenerator(), tutor, m, delay)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "game"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.RoomUpdatedV1.ToBase(),
		events.HintIssuedV1.ToBase(),
		events.RoundSuccessV1.ToBase(),
	}
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	log.Printf("[game] Module started (advance delay: %s)", m.delay)
	return nil
}

// Stop stops the module. Rooms are in-memory only; nothing to flush.
func (m *Module) Stop(_ context.Context) error {
	log.Printf("[game] Module stopped - %d rooms active", m.store.Len())
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.service != nil,
		Message: "operational",
		Details: map[string]any{
			"active_rooms": m.store.Len(),
		},
	}
}

// Service returns the rules engine for driving adapters.
func (m *Module) Service() *Service {
	return m.service
}

// EventSink implementation: each engine-side mutation becomes a typed
// event on the bus. Publish failures are logged and dropped; a missed
// broadcast must never corrupt room state.

func (m *Module) RoomUpdated(room domain.Room) {
	if err := events.RoomUpdatedV1.Publish(m.eventBus, events.RoomUpdatedEvent{Room: room}, nil); err != nil {
		log.Printf("[game] Failed to publish RoomUpdated: %v", err)
	}
}

func (m *Module) HintIssued(roomID, hint, source string) {
	event := events.HintIssuedEvent{
		RoomID:    roomID,
		Hint:      hint,
		Source:    source,
		Timestamp: time.Now(),
	}
	if err := events.HintIssuedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[game] Failed to publish HintIssued: %v", err)
	}
}

func (m *Module) RoundSuccess(roomID string, newLevel int, participantIDs []string) {
	event := events.RoundSuccessEvent{
		RoomID:         roomID,
		NewLevel:       newLevel,
		ParticipantIDs: participantIDs,
		Timestamp:      time.Now(),
	}
	if err := events.RoundSuccessV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[game] Failed to publish RoundSuccess: %v", err)
	}
}
