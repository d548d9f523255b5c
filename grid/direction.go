package grid

// Direction is one of the four cardinal headings on the grid. North points
// toward decreasing Y, matching screen coordinates.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

// Opposite returns the reverse heading. A command equal to the opposite of
// the current heading is treated as deceleration, never an instant reversal.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Left returns the heading after a 90 degree counter-clockwise turn.
func (d Direction) Left() Direction {
	switch d {
	case North:
		return West
	case South:
		return East
	case East:
		return North
	default:
		return South
	}
}

// Right returns the heading after a 90 degree clockwise turn.
func (d Direction) Right() Direction {
	return d.Opposite().Left()
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// ParseDirection maps the lowercase wire names back to headings.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north":
		return North, true
	case "south":
		return South, true
	case "east":
		return East, true
	case "west":
		return West, true
	}
	return North, false
}

// DirectionFromKeyCode maps browser arrow key codes to headings. Codes that
// are not arrow keys report false, which the driver treats as no input.
func DirectionFromKeyCode(code int) (Direction, bool) {
	switch code {
	case 37:
		return West, true
	case 38:
		return North, true
	case 39:
		return East, true
	case 40:
		return South, true
	}
	return North, false
}
