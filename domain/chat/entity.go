package chat

import "time"

// Author discriminates human-authored messages from tutor replies.
type Author string

const (
	AuthorHuman     Author = "human"
	AuthorAssistant Author = "assistant"
)

// Message is one entry in the append-only chat log. Messages are never
// mutated or deleted after creation.
type Message struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
	Author      Author    `json:"author"`
}
