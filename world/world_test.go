package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangpq/snake-engine/grid"
)

func dir(d grid.Direction) *grid.Direction { return &d }

// requireConsistent checks the central invariant: every body coordinate maps
// to a snake block, no other cell does, and the food field matches the grid.
func requireConsistent(t *testing.T, w *World) {
	t.Helper()
	snakeCells := 0
	foodCells := 0
	for y := grid.Nat(0); y < w.grid.Height(); y++ {
		for x := grid.Nat(0); x < w.grid.Width(); x++ {
			at := grid.Coordinate{X: x, Y: y}
			switch w.grid.Get(at).Kind {
			case grid.SnakeSegment:
				snakeCells++
				require.True(t, w.body.Contains(at), "grid snake at (%d,%d) missing from body", x, y)
			case grid.Food:
				foodCells++
				require.NotNil(t, w.food)
				require.Equal(t, *w.food, at)
			}
		}
	}
	require.Equal(t, w.body.Len(), snakeCells, "body and grid disagree on length")
	if w.food == nil {
		require.Zero(t, foodCells)
	} else {
		require.Equal(t, 1, foodCells)
	}
}

func TestInitEmitsFullScene(t *testing.T) {
	w := New(Config{
		Width:   8,
		Height:  6,
		Start:   []grid.Coordinate{{X: 4, Y: 3}, {X: 3, Y: 3}, {X: 2, Y: 3}},
		Heading: grid.East,
		Seed:    7,
	})
	updates := w.Init()

	require.NotEmpty(t, updates)
	assert.Equal(t, SetSize{Width: 8, Height: 6}, updates[0])

	// one SetSize, one SetBlock per segment, one SetBlock for food
	require.Len(t, updates, 1+3+1)

	seen := map[grid.Coordinate]bool{}
	for _, u := range updates[1:] {
		sb, ok := u.(SetBlock)
		require.True(t, ok, "init emits only SetBlock after SetSize")
		require.False(t, seen[sb.At], "duplicate init event at (%d,%d)", sb.At.X, sb.At.Y)
		seen[sb.At] = true
	}
	requireConsistent(t, w)
}

func TestInitTwicePanics(t *testing.T) {
	w := New(Config{})
	w.Init()
	assert.Panics(t, func() { w.Init() })
}

func TestStepMovesHeadAndTail(t *testing.T) {
	w, err := ParseFixture(""+
		"..........\n"+
		".eee>.....\n"+
		"..........\n"+
		"....*.....\n"+
		"..........\n", grid.Bounded, 1)
	require.NoError(t, err)

	updates, err := w.Step(nil)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	assert.Equal(t, SetBlock{Block: grid.SnakeBlock(grid.East), At: c(5, 1)}, updates[0])
	assert.Equal(t, Clear{Prev: grid.SnakeBlock(grid.East), At: c(1, 1)}, updates[1])

	assert.Equal(t, 4, w.body.Len())
	assert.Equal(t, c(5, 1), w.body.Head())
	assert.Equal(t, c(2, 1), w.body.Tail())
	requireConsistent(t, w)
}

func TestOppositeCommandIsHeadingNoOp(t *testing.T) {
	w, err := ParseFixture(""+
		".....\n"+
		".ee>.\n"+
		".....\n", grid.Wrapping, 1)
	require.NoError(t, err)

	_, err = w.Step(dir(grid.West))
	require.NoError(t, err)
	assert.Equal(t, c(4, 1), w.body.Head(), "snake keeps going east")
	assert.Equal(t, grid.East, w.heading)
}

func TestTurnRewritesNeckDirection(t *testing.T) {
	w, err := ParseFixture(""+
		".....\n"+
		".ee>.\n"+
		".....\n", grid.Wrapping, 1)
	require.NoError(t, err)

	_, err = w.Step(dir(grid.South))
	require.NoError(t, err)

	// the former head now points south so the fixture walk stays intact
	neckDir, isSnake := w.grid.Get(c(3, 1)).Snake()
	require.True(t, isSnake)
	assert.Equal(t, grid.South, neckDir)
	assert.Equal(t, c(3, 2), w.body.Head())
}

func TestGrowthOnFood(t *testing.T) {
	w, err := ParseFixture(""+
		"......\n"+
		".ee>*.\n"+
		"......\n", grid.Bounded, 3)
	require.NoError(t, err)
	tailBefore := w.body.Tail()
	lenBefore := w.body.Len()

	updates, err := w.Step(nil)
	require.NoError(t, err)

	assert.Equal(t, lenBefore+1, w.body.Len(), "eating grows by exactly one")
	assert.Equal(t, tailBefore, w.body.Tail(), "tail does not move on a growth tick")

	// head placement plus respawned food, no tail clear
	require.Len(t, updates, 2)
	assert.Equal(t, SetBlock{Block: grid.SnakeBlock(grid.East), At: c(4, 1)}, updates[0])
	respawn, ok := updates[1].(SetBlock)
	require.True(t, ok)
	assert.Equal(t, grid.FoodBlock(), respawn.Block)
	assert.NotEqual(t, c(4, 1), respawn.At, "food respawns on an unoccupied cell")
	requireConsistent(t, w)
}

func TestSelfCollision(t *testing.T) {
	// the head points straight at its own body
	w, err := ParseFixture(""+
		"....\n"+
		".s..\n"+
		".e<.\n"+
		"....\n", grid.Wrapping, 1)
	require.NoError(t, err)

	_, err = w.Step(nil)
	require.Equal(t, ErrCollideBody, err)

	_, err = w.Step(nil)
	require.Error(t, err, "stepping a dead world keeps failing")
}

func TestCoiledSnakeIsDoomed(t *testing.T) {
	w, err := ParseFixture(""+
		"..........\n"+
		"..........\n"+
		"..........\n"+
		"..........\n"+
		"..........\n"+
		".eeeeeee>.\n"+
		"..........\n"+
		"..........\n"+
		"..........\n"+
		"..........\n", grid.Bounded, 1)
	require.NoError(t, err)

	// keep turning left; the head loops back into the body
	script := []grid.Direction{grid.North, grid.West, grid.South, grid.East}
	var stepErr error
	for i := 0; i < 10 && stepErr == nil; i++ {
		_, stepErr = w.Step(dir(script[i%len(script)]))
	}
	require.Equal(t, ErrCollideBody, stepErr)
}

func TestMovingIntoVacatedTailIsLegal(t *testing.T) {
	// the head chases the tail around a 2x2 loop forever
	w, err := ParseFixture(""+
		"....\n"+
		".sw.\n"+
		".>n.\n"+
		"....\n", grid.Bounded, 1)
	require.NoError(t, err)

	script := []grid.Direction{grid.East, grid.North, grid.West, grid.South}
	for i := 0; i < 40; i++ {
		_, err := w.Step(dir(script[i%len(script)]))
		require.NoError(t, err, "tick %d", i)
		requireConsistent(t, w)
	}
}

func TestBoundedModeRejectsEdgeEscape(t *testing.T) {
	w, err := ParseFixture(""+
		".....\n"+
		".ee>.\n"+
		".....\n", grid.Bounded, 1)
	require.NoError(t, err)

	_, err = w.Step(nil)
	require.NoError(t, err)
	_, err = w.Step(nil)
	require.Equal(t, ErrOutOfBound, err)
}

func TestWrappingNeverEscapes(t *testing.T) {
	w := New(Config{Width: 6, Height: 5, Heading: grid.East, Seed: 11})
	w.Init()

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 300; i++ {
		var cmd *grid.Direction
		if rng.Intn(2) == 0 {
			d := grid.Direction(rng.Intn(4))
			cmd = &d
		}
		_, err := w.Step(cmd)
		if err != nil {
			require.Equal(t, ErrCollideBody, err, "wrapping mode only dies by collision")
			return
		}
		head := w.body.Head()
		require.True(t, head.X < 6, "head X %d escapes the board", head.X)
		require.True(t, head.Y < 5, "head Y %d escapes the board", head.Y)
		requireConsistent(t, w)
	}
}

// requireCorruption runs fn expecting a Corruption panic; an ordinary error
// return or any other panic value fails the test.
func requireCorruption(t *testing.T, reason string, fn func()) {
	t.Helper()
	defer func() {
		recovered := recover()
		require.NotNil(t, recovered, "expected a corruption panic")
		corruption, ok := recovered.(Corruption)
		require.True(t, ok, "panic value %v is not a Corruption", recovered)
		assert.Equal(t, reason, corruption.Reason)
	}()
	fn()
}

func TestStepPanicsWhenTailDetached(t *testing.T) {
	w, err := ParseFixture(""+
		".....\n"+
		".ee>.\n"+
		".....\n", grid.Wrapping, 1)
	require.NoError(t, err)

	w.grid.Set(w.body.Tail(), grid.EmptyBlock())

	requireCorruption(t, "tail detached from grid", func() {
		w.Step(nil)
	})
}

func TestStepPanicsWhenHeadDetached(t *testing.T) {
	w, err := ParseFixture(""+
		".....\n"+
		".ee>.\n"+
		".....\n", grid.Wrapping, 1)
	require.NoError(t, err)

	w.grid.Set(w.body.Head(), grid.EmptyBlock())

	requireCorruption(t, "head detached from grid", func() {
		w.Step(nil)
	})
}

func TestStepLifecycleGuards(t *testing.T) {
	w := New(Config{})
	_, err := w.Step(nil)
	require.EqualError(t, err, "world: step before initialize")

	w.Init()
	w.TearDown()
	_, err = w.Step(nil)
	require.EqualError(t, err, "world: step after tear down")
	assert.Panics(t, func() { w.TearDown() })
}

func TestRoundErrorsClassifyAsGameOver(t *testing.T) {
	assert.True(t, ErrOutOfBound.GameOver())
	assert.True(t, ErrCollideBody.GameOver())
}
