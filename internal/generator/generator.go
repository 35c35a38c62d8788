// Package generator builds the word stream for a typing test.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/wordlist"
)

// Generator samples words from a vocabulary.
type Generator struct {
	vocab *wordlist.Vocabulary
	rnd   *rand.Rand
}

// New returns a Generator seeded with the current time.
func New(vocab *wordlist.Vocabulary) *Generator {
	return NewWithSeed(vocab, time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(vocab *wordlist.Vocabulary, seed int64) *Generator {
	return &Generator{vocab: vocab, rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns n words by shuffling the vocabulary and taking from the front.
// A fresh shuffle is drawn whenever the previous one runs out.
func (g *Generator) Generate(n int) []string {
	if n <= 0 {
		return nil
	}
	result := make([]string, 0, n)
	for len(result) < n {
		for _, idx := range g.rnd.Perm(g.vocab.Len()) {
			result = append(result, g.vocab.At(idx))
			if len(result) == n {
				break
			}
		}
	}
	return result
}

// Extend appends n generated words to stream and n pending verdicts to verdicts.
// Existing entries are left untouched.
func (g *Generator) Extend(stream []string, verdicts []model.Verdict, n int) ([]string, []model.Verdict) {
	more := g.Generate(n)
	stream = append(stream, more...)
	for range more {
		verdicts = append(verdicts, model.VerdictPending)
	}
	return stream, verdicts
}
