package world

import "github.com/hoangpq/snake-engine/grid"

// Body is the snake's ordered run of coordinates, head first. It is a ring
// over a slice so both ends move in O(1), with a count map for O(1)
// collision lookups.
type Body struct {
	ring     []grid.Coordinate
	head     int
	size     int
	occupied map[grid.Coordinate]int
}

// NewBody builds a body from head-first coordinates. A body of length zero
// is invalid.
func NewBody(segments ...grid.Coordinate) *Body {
	if len(segments) == 0 {
		panic("world: body must have at least one segment")
	}
	b := &Body{
		ring:     make([]grid.Coordinate, len(segments)*2),
		occupied: make(map[grid.Coordinate]int, len(segments)),
	}
	for i := len(segments) - 1; i >= 0; i-- {
		b.PushHead(segments[i])
	}
	return b
}

func (b *Body) Len() int { return b.size }

func (b *Body) Head() grid.Coordinate {
	if b.size == 0 {
		panic("world: head of empty body")
	}
	return b.ring[b.head]
}

func (b *Body) Tail() grid.Coordinate {
	if b.size == 0 {
		panic("world: tail of empty body")
	}
	return b.ring[(b.head+b.size-1)%len(b.ring)]
}

// PushHead extends the body at the front.
func (b *Body) PushHead(c grid.Coordinate) {
	if b.size == len(b.ring) {
		b.grow()
	}
	b.head = (b.head - 1 + len(b.ring)) % len(b.ring)
	b.ring[b.head] = c
	b.size++
	b.occupied[c]++
}

// PopTail removes and returns the rearmost coordinate.
func (b *Body) PopTail() grid.Coordinate {
	if b.size == 0 {
		panic("world: pop from empty body")
	}
	tail := b.ring[(b.head+b.size-1)%len(b.ring)]
	b.size--
	if b.occupied[tail] <= 1 {
		delete(b.occupied, tail)
	} else {
		b.occupied[tail]--
	}
	return tail
}

// Contains reports whether any segment sits at c.
func (b *Body) Contains(c grid.Coordinate) bool {
	return b.occupied[c] > 0
}

// Coordinates returns the segments head to tail.
func (b *Body) Coordinates() []grid.Coordinate {
	out := make([]grid.Coordinate, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.ring[(b.head+i)%len(b.ring)]
	}
	return out
}

func (b *Body) grow() {
	next := make([]grid.Coordinate, len(b.ring)*2)
	copy(next, b.Coordinates())
	b.ring = next
	b.head = 0
}
