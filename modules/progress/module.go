package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"

	"github.com/example/lingo-rooms-demo/events"
)

// xpPerLevel is the passport stamp granted to every participant of a room
// when it clears a level.
const xpPerLevel = 10

// Module is the external progress tracker: it consumes RoundSuccess
// events and persists XP counters, and answers get-xp queries over the
// service container.
type Module struct {
	store     Store
	client    *redis.Client
	redisAddr string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the progress module. With REDIS_ADDR unset the
// counters live in memory only.
func NewModule() *Module {
	return &Module{redisAddr: os.Getenv("REDIS_ADDR")}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "progress"
}

// Start selects and connects the backing store.
func (m *Module) Start(ctx context.Context) error {
	if m.redisAddr == "" {
		m.store = NewMemoryStore()
		log.Println("[progress] Module started - REDIS_ADDR not set, using in-memory store")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	m.store = NewRedisStore(m.client, "xp:")
	log.Printf("[progress] Module started - connected to Redis at %s", m.redisAddr)
	return nil
}

// Stop closes the Redis connection if one is open.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[progress] Module stopped")
	return nil
}

// Health returns the health status.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client != nil {
		if err := m.client.Ping(ctx).Err(); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
			}
		}
	}
	return mono.HealthStatus{
		Healthy: m.store != nil,
		Message: "operational",
		Details: map[string]any{
			"backend": m.backendName(),
		},
	}
}

func (m *Module) backendName() string {
	if m.client != nil {
		return "redis"
	}
	return "memory"
}

// RegisterEventConsumers subscribes to the game's RoundSuccess events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoundSuccessV1, m.handleRoundSuccess, m,
	); err != nil {
		return fmt.Errorf("failed to register RoundSuccess consumer: %w", err)
	}
	log.Println("[progress] Registered event consumer: RoundSuccess")
	return nil
}

// handleRoundSuccess stamps every participant's passport. Store errors
// are logged and swallowed; a lost stamp must not poison the stream.
func (m *Module) handleRoundSuccess(ctx context.Context, event events.RoundSuccessEvent, _ *mono.Msg) error {
	for _, userID := range event.ParticipantIDs {
		total, err := m.store.AddXP(ctx, userID, xpPerLevel)
		if err != nil {
			log.Printf("[progress] Failed to add XP for %s: %v", userID, err)
			continue
		}
		log.Printf("[progress] %s reached %d XP (room %s, level %d)", userID, total, event.RoomID, event.NewLevel)
	}
	return nil
}

// RegisterServices registers the get-xp request-reply service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceGetXP,
		json.Unmarshal,
		json.Marshal,
		m.handleGetXP,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetXP, err)
	}
	return nil
}

func (m *Module) handleGetXP(ctx context.Context, req GetXPRequest, _ *mono.Msg) (GetXPResponse, error) {
	total, err := m.store.XP(ctx, req.UserID)
	if err != nil {
		return GetXPResponse{}, err
	}
	return GetXPResponse{UserID: req.UserID, XP: total}, nil
}

// Store returns the backing store, for tests.
func (m *Module) Store() Store {
	return m.store
}
