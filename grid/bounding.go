package grid

// Bounding decides how a tentative head position resolves against the grid
// edges. It is pure and stateless; the world never hardcodes a policy.
// ok is false only when the policy rejects the coordinate outright.
type Bounding func(u Unchecked, width, height Nat) (Coordinate, bool)

// Wrapping folds coordinates toroidally. It never rejects.
func Wrapping(u Unchecked, width, height Nat) (Coordinate, bool) {
	return u.WrapInside(width, height), true
}

// Bounded rejects any coordinate that would leave the grid.
func Bounded(u Unchecked, width, height Nat) (Coordinate, bool) {
	return u.BoundInside(width, height)
}
