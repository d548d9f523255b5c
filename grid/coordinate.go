package grid

// Nat is the unsigned scalar used for grid indices and dimensions.
type Nat uint16

// Coordinate addresses one cell of the grid. Coordinates are never negative;
// edge behavior is delegated to a Bounding policy.
type Coordinate struct {
	X Nat `json:"x"`
	Y Nat `json:"y"`
}

// Move shifts the coordinate one cell toward dir. The result is unchecked:
// it may sit outside the grid (unsigned arithmetic wraps at the type bound,
// which a Bounding policy then folds back into the grid or rejects).
func (c Coordinate) Move(dir Direction) Unchecked {
	switch dir {
	case North:
		return Unchecked{Coordinate{X: c.X, Y: c.Y - 1}}
	case South:
		return Unchecked{Coordinate{X: c.X, Y: c.Y + 1}}
	case East:
		return Unchecked{Coordinate{X: c.X + 1, Y: c.Y}}
	default:
		return Unchecked{Coordinate{X: c.X - 1, Y: c.Y}}
	}
}

// Unchecked is a tentative coordinate that has not yet been resolved against
// the grid edges. It cannot be used to address cells until a Bounding policy
// turns it back into a Coordinate.
type Unchecked struct {
	c Coordinate
}

// WrapInside folds the coordinate back into [0,width)x[0,height), wrapping
// toroidally. width and height must be nonzero.
func (u Unchecked) WrapInside(width, height Nat) Coordinate {
	return Coordinate{
		X: (u.c.X + width) % width,
		Y: (u.c.Y + height) % height,
	}
}

// BoundInside reports whether the coordinate already sits inside
// [0,width)x[0,height), returning it unchanged if so.
func (u Unchecked) BoundInside(width, height Nat) (Coordinate, bool) {
	if u.c.X < width && u.c.Y < height {
		return u.c, true
	}
	return Coordinate{}, false
}
