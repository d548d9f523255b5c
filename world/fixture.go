package world

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/hoangpq/snake-engine/grid"
)

// ParseFixture rebuilds a running world from its ASCII form: a rectangular
// block of glyphs, one row per line. Body segments are walked back from the
// single head marker using each segment's stored direction, which restores
// the head-to-tail order exactly. The returned world has already consumed
// its initialize step.
func ParseFixture(text string, bound grid.Bounding, seed int64) (*World, error) {
	rows := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(rows) == 0 || rows[0] == "" {
		return nil, errors.New("fixture: empty")
	}

	height := grid.Nat(len(rows))
	width := grid.Nat(len([]rune(rows[0])))

	g := grid.New(width, height)
	var head *grid.Coordinate
	var heading grid.Direction
	var food *grid.Coordinate

	for y, row := range rows {
		runes := []rune(row)
		if grid.Nat(len(runes)) != width {
			return nil, errors.Errorf("fixture: row %d is %d wide, want %d", y, len(runes), width)
		}
		for x, r := range runes {
			at := grid.Coordinate{X: grid.Nat(x), Y: grid.Nat(y)}
			block, isHead, ok := grid.ParseGlyph(r)
			if !ok {
				return nil, errors.Errorf("fixture: unknown glyph %q at (%d,%d)", r, x, y)
			}
			if isHead {
				if head != nil {
					return nil, errors.New("fixture: multiple heads")
				}
				c := at
				head = &c
				heading = block.Dir
			}
			if block.Kind == grid.Food {
				if food != nil {
					return nil, errors.New("fixture: multiple food cells")
				}
				c := at
				food = &c
			}
			g.Set(at, block)
		}
	}
	if head == nil {
		return nil, errors.New("fixture: no head marker")
	}

	segments, err := walkBody(g, *head, bound)
	if err != nil {
		return nil, err
	}

	return &World{
		grid:    g,
		body:    NewBody(segments...),
		food:    food,
		rng:     rand.New(rand.NewSource(seed)),
		heading: heading,
		bound:   bound,
		state:   running,
	}, nil
}

// walkBody follows stored segment directions backwards from the head. The
// predecessor of a cell is the neighboring segment whose direction points at
// it. Neighbors resolve through the world's bounding policy, so a bounded
// fixture cannot link a body across the board edge.
func walkBody(g *grid.Grid, head grid.Coordinate, bound grid.Bounding) ([]grid.Coordinate, error) {
	used := map[grid.Coordinate]bool{head: true}
	segments := []grid.Coordinate{head}

	cur := head
	for {
		var prev *grid.Coordinate
		for _, dir := range []grid.Direction{grid.North, grid.South, grid.East, grid.West} {
			cand, ok := bound(cur.Move(dir), g.Width(), g.Height())
			if !ok || used[cand] || cand == head {
				continue
			}
			segDir, isSnake := g.Get(cand).Snake()
			if !isSnake {
				continue
			}
			if next, ok := bound(cand.Move(segDir), g.Width(), g.Height()); !ok || next != cur {
				continue
			}
			if prev != nil {
				return nil, errors.Errorf("fixture: ambiguous body at (%d,%d)", cur.X, cur.Y)
			}
			c := cand
			prev = &c
		}
		if prev == nil {
			break
		}
		used[*prev] = true
		segments = append(segments, *prev)
		cur = *prev
	}

	// Every snake cell must have been reached, otherwise the fixture holds a
	// disconnected body.
	for y := grid.Nat(0); y < g.Height(); y++ {
		for x := grid.Nat(0); x < g.Width(); x++ {
			at := grid.Coordinate{X: x, Y: y}
			if _, isSnake := g.Get(at).Snake(); isSnake && !used[at] {
				return nil, errors.Errorf("fixture: disconnected segment at (%d,%d)", x, y)
			}
		}
	}
	return segments, nil
}

// Fixture serializes the world back to its ASCII form. Parsing the result
// reproduces an equivalent world, and for text produced by this method the
// round trip is exact.
func (w *World) Fixture() string {
	head := w.body.Head()
	var sb strings.Builder
	for y := grid.Nat(0); y < w.grid.Height(); y++ {
		for x := grid.Nat(0); x < w.grid.Width(); x++ {
			at := grid.Coordinate{X: x, Y: y}
			sb.WriteRune(grid.BlockGlyph(w.grid.Get(at), at == head))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
