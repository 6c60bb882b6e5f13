package game

import (
	"fmt"
	"strings"
	"unicode/utf8"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

// Feedback strings shown to the room after a submission.
const (
	FeedbackCorrect = "Correct! +10 XP"
	FeedbackRetry   = "Try again!"
)

// Hint sources carried on HintIssued events.
const (
	HintSourceTutor = "tutor"
	HintSourcePeer  = "peer"
)

// TargetWordFor returns the word a participant on the given track must
// fill in. The target depends on the participant, not the room: two
// participants on opposite tracks are checked against different words
// of the same exercise.
func TargetWordFor(track domain.LearningTrack, state *domain.State) string {
	if state == nil {
		return ""
	}
	if track == domain.TrackLearningEnglish {
		return state.WordEN
	}
	return state.WordES
}

// AnswerCorrect checks a submission against the participant's target word.
// Comparison is case-insensitive with surrounding whitespace ignored.
func AnswerCorrect(track domain.LearningTrack, state *domain.State, answer string) bool {
	target := TargetWordFor(track, state)
	if target == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), target)
}

// PeerHint builds the locally synthesized hint: the first letter of the
// asking participant's own target word, framed as coming from a partner.
func PeerHint(track domain.LearningTrack, state *domain.State) string {
	target := TargetWordFor(track, state)
	if target == "" {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(target)
	return fmt.Sprintf("Your partner leans over: your word starts with %q.", first)
}
