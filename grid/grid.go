// Package grid models the addressable cell space of the game: coordinates,
// headings, cell contents and the edge policies that resolve movement at the
// grid boundary.
package grid

import (
	"fmt"
	"math/rand"
)

// Grid is the authoritative Coordinate to Block mapping. Exactly one Block
// occupies each coordinate at any time.
type Grid struct {
	width  Nat
	height Nat
	blocks []Block
}

// New returns an all-empty grid. Dimensions are clamped to at least 1.
func New(width, height Nat) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Grid{
		width:  width,
		height: height,
		blocks: make([]Block, int(width)*int(height)),
	}
}

func (g *Grid) Width() Nat  { return g.width }
func (g *Grid) Height() Nat { return g.height }

func (g *Grid) index(c Coordinate) int {
	return int(c.Y)*int(g.width) + int(c.X)
}

func (g *Grid) inside(c Coordinate) bool {
	return c.X < g.width && c.Y < g.height
}

// Get returns the block at c. Coordinates outside the grid read as walls.
func (g *Grid) Get(c Coordinate) Block {
	if !g.inside(c) {
		return WallBlock()
	}
	return g.blocks[g.index(c)]
}

// Set writes b at c and returns the previous block. Writing outside the grid
// is a caller bug: bounding policies must resolve coordinates first.
func (g *Grid) Set(c Coordinate, b Block) Block {
	if !g.inside(c) {
		panic(fmt.Sprintf("grid: set outside %dx%d at (%d,%d)", g.width, g.height, c.X, c.Y))
	}
	i := g.index(c)
	prev := g.blocks[i]
	g.blocks[i] = b
	return prev
}

// Clear resets every cell to empty.
func (g *Grid) Clear() {
	for i := range g.blocks {
		g.blocks[i] = Block{}
	}
}

// RandomCoordinate picks a uniformly random cell, occupied or not.
func (g *Grid) RandomCoordinate(rng *rand.Rand) Coordinate {
	return Coordinate{
		X: Nat(rng.Intn(int(g.width))),
		Y: Nat(rng.Intn(int(g.height))),
	}
}

// EmptyCoordinates returns every empty cell in row-major order. Food
// placement picks uniformly from this set so a crowded board stays fair.
func (g *Grid) EmptyCoordinates() []Coordinate {
	var open []Coordinate
	for y := Nat(0); y < g.height; y++ {
		for x := Nat(0); x < g.width; x++ {
			c := Coordinate{X: x, Y: y}
			if g.Get(c).IsEmpty() {
				open = append(open, c)
			}
		}
	}
	return open
}
