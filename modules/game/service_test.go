package game

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

type hintRecord struct {
	RoomID string
	Hint   string
	Source string
}

type successRecord struct {
	RoomID         string
	NewLevel       int
	ParticipantIDs []string
}

// recordingSink captures everything the service emits so tests can assert
// on broadcast order and content without an event bus.
type recordingSink struct {
	mu        sync.Mutex
	rooms     []domain.Room
	hints     []hintRecord
	successes []successRecord
}

func (s *recordingSink) RoomUpdated(room domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, room)
}

func (s *recordingSink) HintIssued(roomID, hint, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints = append(s.hints, hintRecord{RoomID: roomID, Hint: hint, Source: source})
}

func (s *recordingSink) RoundSuccess(roomID string, newLevel int, participantIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes = append(s.successes, successRecord{RoomID: roomID, NewLevel: newLevel, ParticipantIDs: participantIDs})
}

func (s *recordingSink) roomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func (s *recordingSink) hintList() []hintRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hintRecord(nil), s.hints...)
}

func (s *recordingSink) successList() []successRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]successRecord(nil), s.successes...)
}

type stubTutor struct {
	hint string
}

func (s *stubTutor) Hint(_ context.Context, _ domain.State) string {
	return s.hint
}

func newTestService() (*Service, *recordingSink) {
	sink := &recordingSink{}
	store := NewRoomStore()
	svc := NewService(store, NewGeneratorWithSeed(1), &stubTutor{hint: "think of a pet"}, sink, 25*time.Millisecond)
	return svc, sink
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestJoinRoom_CreatesRoom(t *testing.T) {
	svc, sink := newTestService()

	alice := domain.Participant{UserID: "alice", DisplayName: "Alice", Track: domain.TrackLearningSpanish}
	if err := svc.JoinRoom("room_test", alice); err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}

	room, ok := svc.Room("room_test")
	if !ok {
		t.Fatal("room not created")
	}
	if room.Level != 1 || room.Round != 1 || room.HelpUsed {
		t.Errorf("new room level/round/help = %d/%d/%v, want 1/1/false", room.Level, room.Round, room.HelpUsed)
	}
	if room.Game == nil {
		t.Fatal("new room has no exercise")
	}
	if len(room.Participants) != 1 || room.Participants[0].UserID != "alice" {
		t.Errorf("participants = %v", room.Participants)
	}
	if sink.roomCount() != 1 {
		t.Errorf("broadcasts = %d, want 1", sink.roomCount())
	}
}

func TestJoinRoom_Idempotent(t *testing.T) {
	svc, sink := newTestService()
	alice := domain.Participant{UserID: "alice", Track: domain.TrackLearningSpanish}

	svc.JoinRoom("room_test", alice)
	svc.JoinRoom("room_test", alice)

	room, _ := svc.Room("room_test")
	if len(room.Participants) != 1 {
		t.Errorf("participants after double join = %d, want 1", len(room.Participants))
	}
	// A rejoin still concludes with a broadcast.
	if sink.roomCount() != 2 {
		t.Errorf("broadcasts = %d, want 2", sink.roomCount())
	}
}

func TestJoinRoom_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name    string
		roomID  string
		p       domain.Participant
		wantErr error
	}{
		{
			name:    "empty room id",
			roomID:  "",
			p:       domain.Participant{UserID: "a", Track: domain.TrackLearningSpanish},
			wantErr: ErrEmptyRoomID,
		},
		{
			name:    "unknown track",
			roomID:  "room_test",
			p:       domain.Participant{UserID: "a", Track: "fr-de"},
			wantErr: ErrInvalidTrack,
		},
		{
			name:    "empty track",
			roomID:  "room_test",
			p:       domain.Participant{UserID: "a"},
			wantErr: ErrInvalidTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.JoinRoom(tt.roomID, tt.p); err != tt.wantErr {
				t.Errorf("JoinRoom() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitAnswer_CorrectAdvancesAfterDelay(t *testing.T) {
	svc, sink := newTestService()
	// Spanish native learning English: the level 1 target is "cat".
	svc.JoinRoom("room_test", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})

	svc.SubmitAnswer("room_test", "maria", "Cat ")

	room, _ := svc.Room("room_test")
	if room.Feedback != FeedbackCorrect {
		t.Fatalf("feedback = %q, want %q", room.Feedback, FeedbackCorrect)
	}
	if room.Game.Answers["maria"] != "Cat " {
		t.Errorf("recorded answer = %q, want the raw submission", room.Game.Answers["maria"])
	}
	// The advance is paced; the level must not change synchronously.
	if room.Level != 1 {
		t.Fatalf("level advanced synchronously to %d", room.Level)
	}

	waitFor(t, func() bool {
		r, _ := svc.Room("room_test")
		return r.Level == 2
	}, "room never advanced to level 2")

	room, _ = svc.Room("room_test")
	if room.Round != 2 {
		t.Errorf("round = %d, want 2", room.Round)
	}
	if room.Feedback != "" {
		t.Errorf("feedback = %q, want cleared after advance", room.Feedback)
	}
	if room.Game.WordEN == "cat" {
		t.Errorf("exercise not regenerated on advance")
	}
	if len(room.Game.Answers) != 0 {
		t.Errorf("answers carried into the new level: %v", room.Game.Answers)
	}

	successes := sink.successList()
	if len(successes) != 1 {
		t.Fatalf("successes = %d, want 1", len(successes))
	}
	if successes[0].NewLevel != 2 || successes[0].RoomID != "room_test" {
		t.Errorf("success = %+v", successes[0])
	}
	if len(successes[0].ParticipantIDs) != 1 || successes[0].ParticipantIDs[0] != "maria" {
		t.Errorf("success participants = %v", successes[0].ParticipantIDs)
	}
}

func TestSubmitAnswer_WrongDoesNotAdvance(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})

	svc.SubmitAnswer("room_test", "maria", "perro")

	room, _ := svc.Room("room_test")
	if room.Feedback != FeedbackRetry {
		t.Errorf("feedback = %q, want %q", room.Feedback, FeedbackRetry)
	}

	time.Sleep(80 * time.Millisecond)
	room, _ = svc.Room("room_test")
	if room.Level != 1 {
		t.Errorf("level = %d after wrong answer, want 1", room.Level)
	}
	if len(sink.successList()) != 0 {
		t.Errorf("successes = %v, want none", sink.successList())
	}
}

func TestSubmitAnswer_TargetDependsOnTrack(t *testing.T) {
	svc, _ := newTestService()
	// Same level 1 exercise, opposite tracks: the words swap roles.
	svc.JoinRoom("room_en", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})
	svc.JoinRoom("room_es", domain.Participant{UserID: "john", Track: domain.TrackLearningSpanish})

	svc.SubmitAnswer("room_en", "maria", "gato")
	if room, _ := svc.Room("room_en"); room.Feedback != FeedbackRetry {
		t.Errorf("English learner answering the Spanish word: feedback = %q, want retry", room.Feedback)
	}
	svc.SubmitAnswer("room_es", "john", "cat")
	if room, _ := svc.Room("room_es"); room.Feedback != FeedbackRetry {
		t.Errorf("Spanish learner answering the English word: feedback = %q, want retry", room.Feedback)
	}

	svc.SubmitAnswer("room_es", "john", "GATO")
	if room, _ := svc.Room("room_es"); room.Feedback != FeedbackCorrect {
		t.Errorf("Spanish learner answering gato: feedback = %q, want correct", room.Feedback)
	}
}

func TestSubmitAnswer_UnknownRoomOrUser(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})
	before := sink.roomCount()

	svc.SubmitAnswer("ghost", "maria", "cat")
	svc.SubmitAnswer("room_test", "ghost", "cat")

	if sink.roomCount() != before {
		t.Errorf("broadcasts changed on no-op submissions")
	}
	room, _ := svc.Room("room_test")
	if room.Level != 1 || room.Feedback != "" {
		t.Errorf("room mutated by no-op submissions: %+v", room)
	}
}

func TestAskForHint_OnlyOnEvenRound(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})
	ctx := context.Background()

	// Round 1 is odd: the gate is closed.
	before := sink.roomCount()
	svc.AskForHint(ctx, "room_test")
	if len(sink.hintList()) != 0 {
		t.Fatal("hint issued on an odd round")
	}
	if sink.roomCount() != before {
		t.Error("no-op hint request still broadcast")
	}
	if room, _ := svc.Room("room_test"); room.HelpUsed {
		t.Error("HelpUsed set on an odd round")
	}

	svc.store.Update("room_test", func(r *domain.Room) { r.Round = 2 })

	svc.AskForHint(ctx, "room_test")
	hints := sink.hintList()
	if len(hints) != 1 {
		t.Fatalf("hints = %d, want 1", len(hints))
	}
	if hints[0].Hint != "think of a pet" || hints[0].Source != HintSourceTutor {
		t.Errorf("hint = %+v", hints[0])
	}
	if room, _ := svc.Room("room_test"); !room.HelpUsed {
		t.Error("HelpUsed not set after a granted hint")
	}

	// Spent for this cycle: a second request is a no-op.
	svc.AskForHint(ctx, "room_test")
	if len(sink.hintList()) != 1 {
		t.Error("hint granted twice in one cycle")
	}
}

func TestAskForHint_ForcedOddRound(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})
	svc.store.Update("room_test", func(r *domain.Room) { r.Round = 3 })

	svc.AskForHint(context.Background(), "room_test")

	if len(sink.hintList()) != 0 {
		t.Error("hint issued on round 3")
	}
}

func TestAskForHint_BroadcastsGateBeforeHint(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})
	svc.store.Update("room_test", func(r *domain.Room) { r.Round = 2 })

	svc.AskForHint(context.Background(), "room_test")

	sink.mu.Lock()
	defer sink.mu.Unlock()
	last := sink.rooms[len(sink.rooms)-1]
	if !last.HelpUsed {
		t.Error("gate flag not visible in the broadcast preceding the hint")
	}
}

func TestAskPeerHint(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "john", Track: domain.TrackLearningSpanish})
	svc.store.Update("room_test", func(r *domain.Room) { r.Round = 2 })

	svc.AskPeerHint(context.Background(), "room_test", "john")

	hints := sink.hintList()
	if len(hints) != 1 {
		t.Fatalf("hints = %d, want 1", len(hints))
	}
	if hints[0].Source != HintSourcePeer {
		t.Errorf("source = %q, want %q", hints[0].Source, HintSourcePeer)
	}
	// The hint reveals the asker's own word (gato), not the partner's.
	if !strings.Contains(hints[0].Hint, "'g'") {
		t.Errorf("hint = %q, want first letter of gato", hints[0].Hint)
	}
	if room, _ := svc.Room("room_test"); !room.HelpUsed {
		t.Error("peer hint did not spend the cycle")
	}
}

func TestAskPeerHint_UnknownUser(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "john", Track: domain.TrackLearningSpanish})
	svc.store.Update("room_test", func(r *domain.Room) { r.Round = 2 })

	svc.AskPeerHint(context.Background(), "room_test", "ghost")

	if len(sink.hintList()) != 0 {
		t.Error("hint issued for an unknown participant")
	}
	if room, _ := svc.Room("room_test"); room.HelpUsed {
		t.Error("cycle spent by an unknown participant")
	}
}

func TestHelpCycleResetsOnOddRound(t *testing.T) {
	svc, sink := newTestService()
	svc.JoinRoom("room_test", domain.Participant{UserID: "maria", Track: domain.TrackLearningEnglish})
	ctx := context.Background()

	svc.store.Update("room_test", func(r *domain.Room) { r.Round = 2 })
	svc.AskForHint(ctx, "room_test")
	if len(sink.hintList()) != 1 {
		t.Fatal("setup hint not granted")
	}

	// Advance to round 3: the flag must reset, yet round 3 stays gated.
	room, _ := svc.Room("room_test")
	svc.SubmitAnswer("room_test", "maria", TargetWordFor(domain.TrackLearningEnglish, room.Game))
	waitFor(t, func() bool {
		r, _ := svc.Room("room_test")
		return r.Round == 3
	}, "room never reached round 3")

	room, _ = svc.Room("room_test")
	if room.HelpUsed {
		t.Error("HelpUsed not reset entering an odd round")
	}
	svc.AskForHint(ctx, "room_test")
	if len(sink.hintList()) != 1 {
		t.Error("hint granted on round 3")
	}
}
