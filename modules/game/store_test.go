package game

import (
	"testing"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

func TestRoomStore_GetOrCreate(t *testing.T) {
	store := NewRoomStore()
	factory := func() *domain.Room {
		return &domain.Room{Level: 1, Round: 1, Game: testState()}
	}

	room, created := store.GetOrCreate("room1", factory)
	if !created {
		t.Fatal("first GetOrCreate did not report created")
	}
	if room.ID != "room1" {
		t.Errorf("room ID = %q, want room1", room.ID)
	}
	if room.CreatedAt.IsZero() {
		t.Error("CreatedAt not set on creation")
	}

	_, created = store.GetOrCreate("room1", factory)
	if created {
		t.Error("second GetOrCreate reported created")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestRoomStore_UpdateMissingRoom(t *testing.T) {
	store := NewRoomStore()

	_, ok := store.Update("nope", func(r *domain.Room) {
		t.Error("update fn called for missing room")
	})
	if ok {
		t.Error("Update on missing room reported ok")
	}
	if _, ok := store.Get("nope"); ok {
		t.Error("Get on missing room reported ok")
	}
}

func TestRoomStore_SnapshotIsolation(t *testing.T) {
	store := NewRoomStore()
	store.GetOrCreate("room1", func() *domain.Room {
		return &domain.Room{Level: 1, Round: 1, Game: testState()}
	})

	snap, _ := store.Update("room1", func(r *domain.Room) {
		r.Participants = append(r.Participants, domain.Participant{UserID: "alice"})
	})

	// Mutating the snapshot must not leak into the store.
	snap.Participants[0].UserID = "mallory"
	snap.Game.Answers["mallory"] = "gato"

	fresh, _ := store.Get("room1")
	if fresh.Participants[0].UserID != "alice" {
		t.Errorf("store participant = %q, snapshot mutation leaked", fresh.Participants[0].UserID)
	}
	if len(fresh.Game.Answers) != 0 {
		t.Errorf("store answers = %v, snapshot mutation leaked", fresh.Game.Answers)
	}
}
