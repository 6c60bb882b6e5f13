package game

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

// Validation errors returned to callers before any state is touched.
var (
	ErrInvalidTrack = errors.New("unknown learning track")
	ErrEmptyRoomID  = errors.New("room id cannot be empty")
)

// TutorPort is the content-generation collaborator. Implementations are
// best-effort: they return a usable hint string even when the upstream
// call fails.
type TutorPort interface {
	Hint(ctx context.Context, state domain.State) string
}

// EventSink receives the outbound events of the rules engine. The module
// adapts it onto the EventBus; tests plug in a recorder.
type EventSink interface {
	RoomUpdated(room domain.Room)
	HintIssued(roomID, hint, source string)
	RoundSuccess(roomID string, newLevel int, participantIDs []string)
}

// Service implements room lifecycle and the game rules: answer checking
// per learning track, the hint duty cycle, and level progression.
type Service struct {
	store *RoomStore
	gen   *Generator
	tutor TutorPort
	sink  EventSink

	// advanceDelay paces the jump to the next level after a correct
	// answer; it is a UX device, not a correctness mechanism.
	advanceDelay time.Duration
	tutorTimeout time.Duration
}

// NewService creates the rules engine with its collaborators injected.
func NewService(store *RoomStore, gen *Generator, tutor TutorPort, sink EventSink, advanceDelay time.Duration) *Service {
	return &Service{
		store:        store,
		gen:          gen,
		tutor:        tutor,
		sink:         sink,
		advanceDelay: advanceDelay,
		tutorTimeout: 10 * time.Second,
	}
}

// JoinRoom adds a participant to a room, creating the room on first join
// with level 1, round 1 and a fresh exercise. Joining twice with the same
// user ID is idempotent. Always concludes with a RoomUpdated broadcast.
func (s *Service) JoinRoom(roomID string, p domain.Participant) error {
	if roomID == "" {
		return ErrEmptyRoomID
	}
	if !p.Track.Valid() {
		return ErrInvalidTrack
	}

	s.store.GetOrCreate(roomID, func() *domain.Room {
		return &domain.Room{
			Level: 1,
			Round: 1,
			Game:  s.gen.Generate(1),
		}
	})

	snap, _ := s.store.Update(roomID, func(r *domain.Room) {
		if _, ok := r.Find(p.UserID); ok {
			return
		}
		r.Participants = append(r.Participants, p)
	})
	s.sink.RoomUpdated(snap)
	return nil
}

// SubmitAnswer checks a submission against the participant's own target
// word. A wrong answer updates feedback and broadcasts immediately; a
// correct one broadcasts the success feedback and schedules the level
// advance after the configured delay. Unknown rooms and unknown
// participants are silent no-ops.
func (s *Service) SubmitAnswer(roomID, userID, answer string) {
	var (
		scored  bool
		correct bool
		level   int
	)
	snap, ok := s.store.Update(roomID, func(r *domain.Room) {
		if r.Game == nil {
			return
		}
		p, found := r.Find(userID)
		if !found {
			return
		}
		scored = true
		level = r.Level
		r.Game.Answers[userID] = answer
		if AnswerCorrect(p.Track, r.Game, answer) {
			correct = true
			r.Feedback = FeedbackCorrect
		} else {
			r.Feedback = FeedbackRetry
		}
	})
	if !ok || !scored {
		return
	}
	s.sink.RoomUpdated(snap)

	if correct {
		time.AfterFunc(s.advanceDelay, func() {
			s.advance(roomID, level)
		})
	}
}

// advance moves a room to the next level. fromLevel guards against a
// double advance when two correct answers land within one delay window.
func (s *Service) advance(roomID string, fromLevel int) {
	var (
		newLevel int
		ids      []string
	)
	snap, ok := s.store.Update(roomID, func(r *domain.Room) {
		if r.Level != fromLevel {
			return
		}
		r.Level++
		r.Round++
		if r.Round%2 == 1 {
			r.HelpUsed = false
		}
		r.Game = s.gen.Next(r.Level, r.Game)
		r.Feedback = ""
		newLevel = r.Level
		for _, p := range r.Participants {
			ids = append(ids, p.UserID)
		}
	})
	if !ok || newLevel == 0 {
		return
	}
	s.sink.RoomUpdated(snap)
	s.sink.RoundSuccess(roomID, newLevel, ids)
}

// AskForHint requests a generated hint for the room's current exercise.
// Only takes effect on an even round whose hint is not yet spent; the
// flag mutation is broadcast before the tutor is consulted, so the room
// is never silently stale while the call is in flight.
func (s *Service) AskForHint(ctx context.Context, roomID string) {
	var (
		granted bool
		state   domain.State
	)
	snap, ok := s.store.Update(roomID, func(r *domain.Room) {
		if r.Game == nil || !r.HintAllowed() {
			return
		}
		r.HelpUsed = true
		granted = true
		state = *r.Game
	})
	if !ok || !granted {
		return
	}
	s.sink.RoomUpdated(snap)

	ctx, cancel := context.WithTimeout(ctx, s.tutorTimeout)
	defer cancel()
	hint := s.tutor.Hint(ctx, state)
	s.sink.HintIssued(roomID, hint, HintSourceTutor)
}

// AskPeerHint is gated like AskForHint but synthesizes the hint locally
// from the asking participant's own target word. Revealing the asker's
// word rather than the partner's is intentional: it invites assistance
// over chat without spoiling the other direction.
func (s *Service) AskPeerHint(ctx context.Context, roomID, userID string) {
	var (
		granted bool
		hint    string
	)
	snap, ok := s.store.Update(roomID, func(r *domain.Room) {
		if r.Game == nil || !r.HintAllowed() {
			return
		}
		p, found := r.Find(userID)
		if !found {
			return
		}
		r.HelpUsed = true
		granted = true
		hint = PeerHint(p.Track, r.Game)
	})
	if !ok || !granted {
		return
	}
	s.sink.RoomUpdated(snap)
	s.sink.HintIssued(roomID, hint, HintSourcePeer)
}

// Room returns a snapshot of one room.
func (s *Service) Room(roomID string) (domain.Room, bool) {
	return s.store.Get(roomID)
}

// Rooms returns snapshots of all active rooms.
func (s *Service) Rooms() []domain.Room {
	return s.store.List()
}
