package progress

import (
	"context"
	"testing"

	"github.com/example/lingo-rooms-demo/events"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	total, err := store.AddXP(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	if total != 10 {
		t.Errorf("total after first add = %d, want 10", total)
	}

	total, _ = store.AddXP(ctx, "alice", 10)
	if total != 20 {
		t.Errorf("total after second add = %d, want 20", total)
	}

	got, err := store.XP(ctx, "alice")
	if err != nil || got != 20 {
		t.Errorf("XP() = %d, %v, want 20, nil", got, err)
	}

	got, err = store.XP(ctx, "stranger")
	if err != nil || got != 0 {
		t.Errorf("XP() for unknown user = %d, %v, want 0, nil", got, err)
	}
}

func TestHandleRoundSuccess_StampsEveryParticipant(t *testing.T) {
	m := &Module{store: NewMemoryStore()}
	ctx := context.Background()

	event := events.RoundSuccessEvent{
		RoomID:         "room_test",
		NewLevel:       2,
		ParticipantIDs: []string{"alice", "bob"},
	}
	if err := m.handleRoundSuccess(ctx, event, nil); err != nil {
		t.Fatalf("handleRoundSuccess() error = %v", err)
	}
	event.NewLevel = 3
	if err := m.handleRoundSuccess(ctx, event, nil); err != nil {
		t.Fatalf("handleRoundSuccess() error = %v", err)
	}

	for _, userID := range []string{"alice", "bob"} {
		got, _ := m.store.XP(ctx, userID)
		if got != 2*xpPerLevel {
			t.Errorf("XP(%s) = %d, want %d", userID, got, 2*xpPerLevel)
		}
	}
}

func TestHandleGetXP(t *testing.T) {
	m := &Module{store: NewMemoryStore()}
	ctx := context.Background()
	m.store.AddXP(ctx, "alice", 30)

	resp, err := m.handleGetXP(ctx, GetXPRequest{UserID: "alice"}, nil)
	if err != nil {
		t.Fatalf("handleGetXP() error = %v", err)
	}
	if resp.UserID != "alice" || resp.XP != 30 {
		t.Errorf("response = %+v, want alice/30", resp)
	}

	resp, err = m.handleGetXP(ctx, GetXPRequest{UserID: "nobody"}, nil)
	if err != nil || resp.XP != 0 {
		t.Errorf("response for unknown user = %+v, %v, want zero XP", resp, err)
	}
}
