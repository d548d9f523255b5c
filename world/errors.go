package world

import (
	"fmt"

	"github.com/hoangpq/snake-engine/grid"
)

// roundError is a fatal per-round condition. It classifies as a game over so
// the restart layer can recover from it.
type roundError string

func (e roundError) Error() string  { return string(e) }
func (e roundError) GameOver() bool { return true }

var (
	// ErrOutOfBound is returned when the head would leave a bounded grid.
	ErrOutOfBound = roundError("world: head out of bounds")
	// ErrCollideBody is returned when the head runs into the body.
	ErrCollideBody = roundError("world: head collided with body")
)

// Corruption marks a structural invariant violation: the grid and the body
// disagree about where the snake is. It is used as a panic value, never as a
// returned error, so it can never be mistaken for an ordinary game over.
type Corruption struct {
	Reason string
	At     grid.Coordinate
}

func (c Corruption) Error() string {
	return fmt.Sprintf("world: corrupt state at (%d,%d): %s", c.At.X, c.At.Y, c.Reason)
}
