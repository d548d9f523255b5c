package grid

// BlockKind enumerates what a cell can hold.
type BlockKind uint8

const (
	Empty BlockKind = iota
	SnakeSegment
	Food
	Wall
)

func (k BlockKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case SnakeSegment:
		return "snake"
	case Food:
		return "food"
	case Wall:
		return "wall"
	}
	return "unknown"
}

// Block is the content of a single cell. Snake segments remember the
// direction they were traveling when placed; the fixture codec and partial
// tile animations depend on it.
type Block struct {
	Kind BlockKind `json:"kind"`
	Dir  Direction `json:"dir,omitempty"`
}

func EmptyBlock() Block              { return Block{Kind: Empty} }
func FoodBlock() Block               { return Block{Kind: Food} }
func WallBlock() Block               { return Block{Kind: Wall} }
func SnakeBlock(dir Direction) Block { return Block{Kind: SnakeSegment, Dir: dir} }

// IsEmpty reports whether the cell holds nothing.
func (b Block) IsEmpty() bool { return b.Kind == Empty }

// Snake returns the segment's travel direction when the block is a snake
// segment.
func (b Block) Snake() (Direction, bool) {
	if b.Kind == SnakeSegment {
		return b.Dir, true
	}
	return North, false
}
