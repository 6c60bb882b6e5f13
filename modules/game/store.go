package game

import (
	"sync"
	"time"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

// RoomStore owns the canonical state of all active rooms. It is an
// explicit, constructor-injected object so tests can run isolated
// instances. Rooms are created lazily on first join and retained for the
// life of the process; there is no eviction.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

// NewRoomStore creates an empty store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*domain.Room)}
}

// GetOrCreate returns the room with the given ID, creating it via the
// factory if it does not exist yet. Reports whether it was created.
func (s *RoomStore) GetOrCreate(id string, factory func() *domain.Room) (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		room = factory()
		room.ID = id
		room.CreatedAt = time.Now()
		s.rooms[id] = room
	}
	return room.Snapshot(), !ok
}

// Update runs fn on the room under the store lock and returns a snapshot
// of the result. All mutations go through here so that per-room changes
// are serialized and each mutation can be broadcast before the next one
// is admitted. Returns false if the room does not exist.
func (s *RoomStore) Update(id string, fn func(*domain.Room)) (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	fn(room)
	return room.Snapshot(), true
}

// Get returns a snapshot of a room.
func (s *RoomStore) Get(id string) (domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	return room.Snapshot(), true
}

// List returns snapshots of all rooms.
func (s *RoomStore) List() []domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		result = append(result, room.Snapshot())
	}
	return result
}

// Len returns the number of active rooms.
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
