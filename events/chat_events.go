package events

import (
	"github.com/go-monolith/mono/pkg/helper"

	chatdomain "github.com/example/lingo-rooms-demo/domain/chat"
)

// ChatMessageEvent is emitted for every message appended to the chat log,
// human and tutor alike. History replay on join does not go through the
// bus; new subscribers only see messages emitted after they subscribe.
type ChatMessageEvent struct {
	Message chatdomain.Message `json:"message"`
}

// Event definitions for the chat domain.
var (
	ChatMessageV1 = helper.EventDefinition[ChatMessageEvent](
		"chat",
		"ChatMessage",
		"v1",
	)
)
