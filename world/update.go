package world

import "github.com/hoangpq/snake-engine/grid"

// Update is the sole channel through which an observer learns about world
// state. Renderers apply updates idempotently and in order; they never read
// world fields directly.
type Update interface {
	update()
}

// SetSize announces the board dimensions. It is always the first event of an
// initialize sequence.
type SetSize struct {
	Width  grid.Nat
	Height grid.Nat
}

// SetBlock places a block at a coordinate, overwriting whatever was there.
type SetBlock struct {
	Block grid.Block
	At    grid.Coordinate
}

// Clear empties a coordinate. Prev carries the block that was removed so
// replay tooling can invert the event.
type Clear struct {
	Prev grid.Block
	At   grid.Coordinate
}

// Banner overlays a message on the scene, e.g. the game-over screen. It is
// emitted by the death machine, never by the world itself.
type Banner struct {
	Text string
}

func (SetSize) update()  {}
func (SetBlock) update() {}
func (Clear) update()    {}
func (Banner) update()   {}
