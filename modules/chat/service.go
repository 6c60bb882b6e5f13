package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/example/lingo-rooms-demo/domain/chat"
)

// ReplyPort is the content-generation collaborator for persona replies.
// Implementations are best-effort and always return a usable string.
type ReplyPort interface {
	PersonaReply(ctx context.Context, persona, text string) string
}

// Sink receives every message appended to the log.
type Sink interface {
	ChatMessage(msg domain.Message)
}

// Service is the chat relay: an append-only message log with history
// replay on join and opportunistic tutor replies on @mention.
type Service struct {
	mu      sync.Mutex
	history []domain.Message

	handle      string // mention token, matched as "@"+handle
	displayName string
	tutor       ReplyPort
	sink        Sink

	replyTimeout time.Duration
}

// NewService creates the relay and seeds the log with the tutor's welcome
// message, so new joiners always have something to replay.
func NewService(handle, displayName string, tutor ReplyPort, sink Sink) *Service {
	s := &Service{
		handle:       strings.ToLower(handle),
		displayName:  displayName,
		tutor:        tutor,
		sink:         sink,
		replyTimeout: 15 * time.Second,
	}
	s.history = append(s.history, domain.Message{
		ID:          uuid.New().String(),
		UserID:      "tutor",
		DisplayName: displayName,
		Content:     "¡Hola! I'm " + displayName + ". Mention @" + s.handle + " whenever you get stuck.",
		SentAt:      time.Now(),
		Author:      domain.AuthorAssistant,
	})
	return s
}

// Join replays the entire history for a newly joined subscriber. Replay
// is the relay's responsibility; the event bus only carries messages
// emitted after subscription.
func (s *Service) Join() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Message, len(s.history))
	copy(result, s.history)
	return result
}

// Post appends a human message and broadcasts it immediately. If the body
// mentions the tutor handle, a persona reply is requested asynchronously
// and appended when it arrives; no ordering is guaranteed between the
// original broadcast and the eventual reply.
func (s *Service) Post(userID, displayName, content string) domain.Message {
	msg := domain.Message{
		ID:          uuid.New().String(),
		UserID:      userID,
		DisplayName: displayName,
		Content:     content,
		SentAt:      time.Now(),
		Author:      domain.AuthorHuman,
	}

	s.mu.Lock()
	s.history = append(s.history, msg)
	s.mu.Unlock()
	s.sink.ChatMessage(msg)

	if s.mentioned(content) {
		go s.reply(content)
	}
	return msg
}

// HistoryLen returns the current log length.
func (s *Service) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Service) mentioned(content string) bool {
	return strings.Contains(strings.ToLower(content), "@"+s.handle)
}

func (s *Service) reply(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.replyTimeout)
	defer cancel()

	msg := domain.Message{
		ID:          uuid.New().String(),
		UserID:      "tutor",
		DisplayName: s.displayName,
		Content:     s.tutor.PersonaReply(ctx, s.displayName, text),
		SentAt:      time.Now(),
		Author:      domain.AuthorAssistant,
	}

	s.mu.Lock()
	s.history = append(s.history, msg)
	s.mu.Unlock()
	s.sink.ChatMessage(msg)
}
