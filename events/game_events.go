package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"

	gamedomain "github.com/example/lingo-rooms-demo/domain/game"
)

// RoomUpdatedEvent carries the full room state after any mutation. Every
// state change in the game module is immediately followed by one of these
// so subscribers never render a stale room.
type RoomUpdatedEvent struct {
	Room gamedomain.Room `json:"room"`
}

// HintIssuedEvent is emitted when a hint was granted for a room.
type HintIssuedEvent struct {
	RoomID string `json:"room_id"`
	Hint   string `json:"hint"`
	// Source is "tutor" for generated hints, "peer" for the
	// first-letter reveal framed as partner help.
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// RoundSuccessEvent is emitted once per level advance. It is the only
// signal the core sends to the external progress tracker.
type RoundSuccessEvent struct {
	RoomID         string    `json:"room_id"`
	NewLevel       int       `json:"new_level"`
	ParticipantIDs []string  `json:"participant_ids"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event definitions for the game domain.
var (
	RoomUpdatedV1 = helper.EventDefinition[RoomUpdatedEvent](
		"game",
		"RoomUpdated",
		"v1",
	)

	HintIssuedV1 = helper.EventDefinition[HintIssuedEvent](
		"game",
		"HintIssued",
		"v1",
	)

	RoundSuccessV1 = helper.EventDefinition[RoundSuccessEvent](
		"game",
		"RoundSuccess",
		"v1",
	)
)
