package game

import "time"

// LearningTrack is the direction a participant is studying in. Two
// participants in the same room may practice opposite directions, so the
// track lives on the participant, never on the room.
type LearningTrack string

const (
	// TrackLearningSpanish: native English speaker filling Spanish blanks.
	TrackLearningSpanish LearningTrack = "en-es"
	// TrackLearningEnglish: native Spanish speaker filling English blanks.
	TrackLearningEnglish LearningTrack = "es-en"
)

// Valid reports whether t is one of the two supported tracks.
func (t LearningTrack) Valid() bool {
	return t == TrackLearningSpanish || t == TrackLearningEnglish
}

// Participant is a member of a practice room.
type Participant struct {
	UserID      string        `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Track       LearningTrack `json:"track"`
}

// State is the fill-in-the-blank exercise currently active in a room.
// It holds both renderings of the sentence pair; which blank a participant
// must fill depends on their track.
type State struct {
	SentenceEN string `json:"sentence_en"`
	SentenceES string `json:"sentence_es"`
	WordEN     string `json:"word_en"`
	WordES     string `json:"word_es"`
	// Answers maps user ID to that user's last submitted answer.
	// Overwritten on each submission, never appended.
	Answers map[string]string `json:"answers"`
}

// SamePair reports whether two states carry the exact same sentence pair.
func (s *State) SamePair(other *State) bool {
	if s == nil || other == nil {
		return false
	}
	return s.SentenceEN == other.SentenceEN && s.SentenceES == other.SentenceES
}

// Room is the canonical state of one practice room.
type Room struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`
	Level        int           `json:"level"`
	Round        int           `json:"round"`
	// HelpUsed is true only while Round is even; it resets when a new
	// odd round begins. Hints are obtainable once per even round.
	HelpUsed  bool      `json:"help_used"`
	Game      *State    `json:"game"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HintAllowed reports whether the room's help-cycle gate is open: the
// round must be even and the hint for this cycle not yet spent.
func (r *Room) HintAllowed() bool {
	return r.Round%2 == 0 && !r.HelpUsed
}

// Find returns the participant with the given user ID, if present.
func (r *Room) Find(userID string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// Snapshot returns a deep copy safe to hand to subscribers while the
// original keeps being mutated.
func (r *Room) Snapshot() Room {
	cp := *r
	cp.Participants = make([]Participant, len(r.Participants))
	copy(cp.Participants, r.Participants)
	if r.Game != nil {
		game := *r.Game
		game.Answers = make(map[string]string, len(r.Game.Answers))
		for k, v := range r.Game.Answers {
			game.Answers[k] = v
		}
		cp.Game = &game
	}
	return cp
}
