package game

import (
	"strings"
	"testing"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

func testState() *domain.State {
	return &domain.State{
		SentenceEN: "The ___ sleeps on the sofa.",
		SentenceES: "El ___ duerme en el sofá.",
		WordEN:     "cat",
		WordES:     "gato",
		Answers:    map[string]string{},
	}
}

func TestTargetWordFor(t *testing.T) {
	state := testState()

	tests := []struct {
		name  string
		track domain.LearningTrack
		want  string
	}{
		{
			name:  "learning English targets the English word",
			track: domain.TrackLearningEnglish,
			want:  "cat",
		},
		{
			name:  "learning Spanish targets the Spanish word",
			track: domain.TrackLearningSpanish,
			want:  "gato",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetWordFor(tt.track, state); got != tt.want {
				t.Errorf("TargetWordFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetWordFor_NilState(t *testing.T) {
	if got := TargetWordFor(domain.TrackLearningEnglish, nil); got != "" {
		t.Errorf("TargetWordFor(nil state) = %q, want empty", got)
	}
}

func TestAnswerCorrect(t *testing.T) {
	state := testState()

	tests := []struct {
		name   string
		track  domain.LearningTrack
		answer string
		want   bool
	}{
		{
			name:   "exact match",
			track:  domain.TrackLearningEnglish,
			answer: "cat",
			want:   true,
		},
		{
			name:   "case varied with trailing space",
			track:  domain.TrackLearningEnglish,
			answer: "Cat ",
			want:   true,
		},
		{
			name:   "leading whitespace and caps",
			track:  domain.TrackLearningSpanish,
			answer: "  GATO",
			want:   true,
		},
		{
			name:   "wrong word",
			track:  domain.TrackLearningEnglish,
			answer: "dog",
			want:   false,
		},
		{
			name:   "right word for the other track",
			track:  domain.TrackLearningEnglish,
			answer: "gato",
			want:   false,
		},
		{
			name:   "empty answer",
			track:  domain.TrackLearningSpanish,
			answer: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnswerCorrect(tt.track, state, tt.answer); got != tt.want {
				t.Errorf("AnswerCorrect(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestPeerHint_UsesAskersOwnWord(t *testing.T) {
	state := testState()

	hint := PeerHint(domain.TrackLearningSpanish, state)
	if !strings.Contains(hint, "'g'") {
		t.Errorf("PeerHint() for Spanish learner = %q, want first letter of %q", hint, state.WordES)
	}

	hint = PeerHint(domain.TrackLearningEnglish, state)
	if !strings.Contains(hint, "'c'") {
		t.Errorf("PeerHint() for English learner = %q, want first letter of %q", hint, state.WordEN)
	}
}

func TestPeerHint_NonASCIIFirstLetter(t *testing.T) {
	state := testState()
	state.WordES = "árbol"

	hint := PeerHint(domain.TrackLearningSpanish, state)
	if !strings.Contains(hint, "'á'") {
		t.Errorf("PeerHint() = %q, want the full first rune 'á'", hint)
	}
}
