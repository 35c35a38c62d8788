package engine

import "github.com/verte-zerg/typotester/internal/model"

// KeyType classifies a keystroke for the engine.
type KeyType int

// Key types the engine reacts to.
const (
	KeyRune KeyType = iota
	KeySpace
	KeyBackspace
)

// Key is a single keystroke.
type Key struct {
	Type KeyType
	Rune rune
}

// RuneKey builds a printable keystroke. A space rune maps to KeySpace.
func RuneKey(r rune) Key {
	if r == ' ' {
		return Key{Type: KeySpace, Rune: ' '}
	}
	return Key{Type: KeyRune, Rune: r}
}

// SpaceKey is the word submission key.
func SpaceKey() Key {
	return Key{Type: KeySpace, Rune: ' '}
}

// BackspaceKey removes the last typed rune.
func BackspaceKey() Key {
	return Key{Type: KeyBackspace}
}

// KeyResult reports what a keystroke did. The caller decides whether to play
// a keystroke sound based on PlaySound.
type KeyResult struct {
	PlaySound bool
	Committed bool
	Index     int
	Verdict   model.Verdict
	Extended  bool
}
