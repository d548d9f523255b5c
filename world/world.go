// Package world owns the core simulation: the grid, the snake body, food
// placement and the per-tick incremental update algorithm. Observers consume
// the Update event stream; only two cells change on an ordinary tick.
package world

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/hoangpq/snake-engine/grid"
)

type state uint8

const (
	uninitialized state = iota
	running
	terminated
	errored
)

// Config describes a new world. Zero values fall back to defaults.
type Config struct {
	Width  grid.Nat
	Height grid.Nat
	// Start is the initial body, head first. Defaults to a single segment in
	// the board center.
	Start []grid.Coordinate
	// Heading is the initial travel direction.
	Heading grid.Direction
	// Bound resolves head movement at the edges. Defaults to Wrapping.
	Bound grid.Bounding
	// Seed drives food placement. The same seed and command sequence always
	// replays the same round.
	Seed int64
}

// World is the core state machine. Lifecycle: New, Init exactly once, Step
// once per tick, TearDown exactly once.
type World struct {
	grid    *grid.Grid
	body    *Body
	food    *grid.Coordinate
	rng     *rand.Rand
	heading grid.Direction
	bound   grid.Bounding
	state   state
}

// New constructs an uninitialized world.
func New(cfg Config) *World {
	if cfg.Width < 1 {
		cfg.Width = 16
	}
	if cfg.Height < 1 {
		cfg.Height = 16
	}
	if cfg.Bound == nil {
		cfg.Bound = grid.Wrapping
	}
	if len(cfg.Start) == 0 {
		cfg.Start = []grid.Coordinate{{X: cfg.Width / 2, Y: cfg.Height / 2}}
	}
	return &World{
		grid:    grid.New(cfg.Width, cfg.Height),
		body:    NewBody(cfg.Start...),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		heading: cfg.Heading,
		bound:   cfg.Bound,
	}
}

// Init produces the full ordered event sequence for the starting scene:
// one SetSize, one SetBlock per body segment, one SetBlock for the food.
// A renderer that applies them to a blank canvas needs no special first
// frame path.
func (w *World) Init() []Update {
	if w.state != uninitialized {
		panic("world: initialize called twice")
	}
	w.state = running

	segments := w.body.Coordinates()
	updates := make([]Update, 0, len(segments)+2)
	updates = append(updates, SetSize{Width: w.grid.Width(), Height: w.grid.Height()})

	// Each segment's block points toward its predecessor so the body can be
	// walked tail to head. The head carries the current heading.
	for i, seg := range segments {
		dir := w.heading
		if i > 0 {
			dir = directionBetween(seg, segments[i-1], w.grid)
		}
		w.grid.Set(seg, grid.SnakeBlock(dir))
		updates = append(updates, SetBlock{Block: grid.SnakeBlock(dir), At: seg})
	}

	if at := w.placeFood(); at != nil {
		w.food = at
		updates = append(updates, SetBlock{Block: grid.FoodBlock(), At: *at})
	}
	return updates
}

// Step advances the simulation exactly one tick. cmd is the optional
// directional command for this tick; nil continues the current heading.
// The returned slice holds this tick's grid deltas in application order.
func (w *World) Step(cmd *grid.Direction) ([]Update, error) {
	if w.state != running {
		return nil, errStopped(w.state)
	}

	// An exact reversal would drive the head into the neck; ignore it.
	if cmd != nil && *cmd != w.heading.Opposite() {
		w.heading = *cmd
	}

	oldHead := w.body.Head()
	next, ok := w.bound(oldHead.Move(w.heading), w.grid.Width(), w.grid.Height())
	if !ok {
		w.state = errored
		return nil, ErrOutOfBound
	}

	grows := w.food != nil && next == *w.food

	var tailClear *Clear
	if !grows {
		// Vacate the tail before the collision check so moving into the cell
		// being freed this same tick stays legal.
		tail := w.body.PopTail()
		prev := w.grid.Set(tail, grid.EmptyBlock())
		if _, wasSnake := prev.Snake(); !wasSnake {
			panic(Corruption{Reason: "tail detached from grid", At: tail})
		}
		tailClear = &Clear{Prev: prev, At: tail}
	}

	if _, hitSnake := w.grid.Get(next).Snake(); hitSnake {
		w.state = errored
		return nil, ErrCollideBody
	}

	// The old head becomes the neck; rewrite its stored direction when the
	// heading turned so the tail-to-head walk stays intact.
	if w.body.Len() > 0 {
		neck := w.grid.Get(oldHead)
		if dir, isSnake := neck.Snake(); !isSnake {
			panic(Corruption{Reason: "head detached from grid", At: oldHead})
		} else if dir != w.heading {
			w.grid.Set(oldHead, grid.SnakeBlock(w.heading))
		}
	}

	w.body.PushHead(next)
	prev := w.grid.Set(next, grid.SnakeBlock(w.heading))

	updates := make([]Update, 0, 3)
	updates = append(updates, SetBlock{Block: grid.SnakeBlock(w.heading), At: next})

	if grows {
		if prev.Kind != grid.Food {
			panic(Corruption{Reason: "food detached from grid", At: next})
		}
		log.WithFields(log.Fields{
			"at":     next,
			"length": w.body.Len(),
		}).Debug("snake ate")
		w.food = nil
		if at := w.placeFood(); at != nil {
			w.food = at
			updates = append(updates, SetBlock{Block: grid.FoodBlock(), At: *at})
		}
	} else {
		updates = append(updates, *tailClear)
	}
	return updates, nil
}

// TearDown releases the held grid. It must not be called more than once.
func (w *World) TearDown() {
	if w.state == terminated {
		panic("world: tear down called twice")
	}
	w.state = terminated
	w.grid.Clear()
}

// placeFood picks a uniformly random empty cell, or nil when the board is
// full.
func (w *World) placeFood() *grid.Coordinate {
	open := w.grid.EmptyCoordinates()
	if len(open) == 0 {
		return nil
	}
	at := open[w.rng.Intn(len(open))]
	w.grid.Set(at, grid.FoodBlock())
	return &at
}

type errStopped state

func (e errStopped) Error() string {
	switch state(e) {
	case uninitialized:
		return "world: step before initialize"
	case errored:
		return "world: step after fatal error"
	default:
		return "world: step after tear down"
	}
}

// directionBetween gives the heading that moves from c to succ, trying the
// wrapped neighbor relation. Used only for seeding initial segment blocks.
func directionBetween(c, succ grid.Coordinate, g *grid.Grid) grid.Direction {
	for _, dir := range []grid.Direction{grid.North, grid.South, grid.East, grid.West} {
		if c.Move(dir).WrapInside(g.Width(), g.Height()) == succ {
			return dir
		}
	}
	panic(Corruption{Reason: "initial body is not contiguous", At: c})
}
