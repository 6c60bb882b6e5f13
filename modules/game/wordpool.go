package game

import (
	"math/rand"
	"sync"
	"time"

	domain "github.com/example/lingo-rooms-demo/domain/game"
)

// seedPairs are the curated exercises for the first levels. Level N uses
// seedPairs[N-1]; beyond the table, exercises are assembled procedurally.
var seedPairs = []domain.State{
	{SentenceEN: "The ___ sleeps on the sofa.", SentenceES: "El ___ duerme en el sofá.", WordEN: "cat", WordES: "gato"},
	{SentenceEN: "I drink a glass of ___ every morning.", SentenceES: "Bebo un vaso de ___ cada mañana.", WordEN: "milk", WordES: "leche"},
	{SentenceEN: "She reads a ___ before bed.", SentenceES: "Ella lee un ___ antes de dormir.", WordEN: "book", WordES: "libro"},
	{SentenceEN: "The ___ is shining today.", SentenceES: "El ___ brilla hoy.", WordEN: "sun", WordES: "sol"},
	{SentenceEN: "We eat ___ for breakfast.", SentenceES: "Comemos ___ en el desayuno.", WordEN: "bread", WordES: "pan"},
	{SentenceEN: "My ___ lives near the beach.", SentenceES: "Mi ___ vive cerca de la playa.", WordEN: "family", WordES: "familia"},
	{SentenceEN: "The ___ barks at strangers.", SentenceES: "El ___ ladra a los desconocidos.", WordEN: "dog", WordES: "perro"},
	{SentenceEN: "There is a ___ on the table.", SentenceES: "Hay una ___ en la mesa.", WordEN: "apple", WordES: "manzana"},
	{SentenceEN: "He opens the ___ slowly.", SentenceES: "Él abre la ___ lentamente.", WordEN: "door", WordES: "puerta"},
	{SentenceEN: "The ___ flows through the city.", SentenceES: "El ___ atraviesa la ciudad.", WordEN: "river", WordES: "río"},
}

// poolWords and poolTemplates feed the procedural range. Templates avoid
// articles next to the blank so any noun fits both renderings.
var poolWords = []struct{ EN, ES string }{
	{"house", "casa"},
	{"water", "agua"},
	{"friend", "amigo"},
	{"school", "escuela"},
	{"music", "música"},
	{"window", "ventana"},
	{"garden", "jardín"},
	{"cheese", "queso"},
	{"train", "tren"},
	{"moon", "luna"},
	{"coffee", "café"},
	{"street", "calle"},
}

var poolTemplates = []struct{ EN, ES string }{
	{"I wrote the word ___ in my notebook.", "Escribí la palabra ___ en mi cuaderno."},
	{"Yesterday we talked about ___ in class.", "Ayer hablamos de ___ en clase."},
	{"Can you draw ___ for me?", "¿Puedes dibujarme ___?"},
	{"My favorite flashcard shows ___.", "Mi tarjeta favorita muestra ___."},
	{"The next lesson is all about ___.", "La próxima lección trata de ___."},
}

// Generator produces the exercise for a given level: a fixed curated pair
// in the seeded range, a pseudo-random word/template combination beyond it.
// Generation is not deterministic in the procedural range.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a time-seeded generator.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a generator with a fixed seed, for tests.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// SeededLevels returns how many levels use the curated table.
func SeededLevels() int {
	return len(seedPairs)
}

// Generate returns a fresh exercise state for the given level.
func (g *Generator) Generate(level int) *domain.State {
	var state domain.State
	if level >= 1 && level <= len(seedPairs) {
		state = seedPairs[level-1]
	} else {
		g.mu.Lock()
		word := poolWords[g.rng.Intn(len(poolWords))]
		tmpl := poolTemplates[g.rng.Intn(len(poolTemplates))]
		g.mu.Unlock()
		state = domain.State{
			SentenceEN: tmpl.EN,
			SentenceES: tmpl.ES,
			WordEN:     word.EN,
			WordES:     word.ES,
		}
	}
	state.Answers = make(map[string]string)
	return &state
}

// Next generates the exercise for a level advance. In the procedural range
// it retries until the sentence pair differs from the previous state, so a
// level advance never serves the exact same exercise twice in a row.
func (g *Generator) Next(level int, prev *domain.State) *domain.State {
	state := g.Generate(level)
	for attempts := 0; state.SamePair(prev) && attempts < 16; attempts++ {
		state = g.Generate(level)
	}
	return state
}
