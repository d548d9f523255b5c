package machine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted is a machine whose Step outcomes are given up front. It counts
// lifecycle calls so combinator tests can audit them.
type scripted struct {
	initEvents []string
	steps      []func() ([]string, error)

	stepCount int
	inits     int
	teardowns int
}

func (s *scripted) Init() []string {
	s.inits++
	return s.initEvents
}

func (s *scripted) Step(_ *int) ([]string, error) {
	i := s.stepCount
	s.stepCount++
	if i < len(s.steps) {
		return s.steps[i]()
	}
	return nil, ErrHalt
}

func (s *scripted) TearDown() { s.teardowns++ }

func ok(events ...string) func() ([]string, error) {
	return func() ([]string, error) { return events, nil }
}

func fail(err error) func() ([]string, error) {
	return func() ([]string, error) { return nil, err }
}

func TestIsGameOver(t *testing.T) {
	assert.True(t, IsGameOver(ErrHalt))
	assert.False(t, IsGameOver(errors.New("disk on fire")))
	assert.False(t, IsGameOver(ErrRestart))
	assert.False(t, IsGameOver(nil))
}

func TestZipWithRunsBothSidesInLockstep(t *testing.T) {
	left := &scripted{initEvents: []string{"L"}, steps: []func() ([]string, error){ok("l1"), ok("l2")}}
	right := &scripted{initEvents: []string{"R"}, steps: []func() ([]string, error){ok("r1"), ok("r2")}}

	z := ZipWith[int](left, right, func(a, b []string) []string {
		return append(append([]string{}, a...), b...)
	})

	assert.Equal(t, []string{"L", "R"}, z.Init())

	events, err := z.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "r1"}, events)

	z.TearDown()
	assert.Equal(t, 1, left.teardowns)
	assert.Equal(t, 1, right.teardowns)
}

func TestZipWithLeftErrorShortCircuits(t *testing.T) {
	left := &scripted{steps: []func() ([]string, error){fail(ErrHalt)}}
	right := &scripted{steps: []func() ([]string, error){ok("r1")}}

	z := ZipWith[int](left, right, func(a, b []string) []string { return append(a, b...) })
	z.Init()

	_, err := z.Step(nil)
	require.Equal(t, ErrHalt, err)
	assert.Zero(t, right.stepCount, "right side must not step after left failed")
}

func TestAlternatingRestartFlow(t *testing.T) {
	var primaries []*scripted
	newPrimary := func() Stateful[int, string] {
		p := &scripted{
			initEvents: []string{"scene"},
			steps:      []func() ([]string, error){ok("move"), fail(ErrHalt)},
		}
		primaries = append(primaries, p)
		return p
	}
	var deaths []*scripted
	newSecondary := func() Stateful[int, string] {
		d := &scripted{
			initEvents: []string{"banner"},
			steps:      []func() ([]string, error){ok(), fail(ErrRestart)},
		}
		deaths = append(deaths, d)
		return d
	}

	a := Alternating(newPrimary, newSecondary)
	assert.Equal(t, []string{"scene"}, a.Init())
	require.Len(t, primaries, 1)

	events, err := a.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"move"}, events)

	// primary dies: its teardown runs and the death screen's Init shows
	events, err = a.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"banner"}, events)
	assert.Equal(t, 1, primaries[0].teardowns)
	require.Len(t, deaths, 1)

	// death screen holds the ticks until it asks for a restart
	events, err = a.Step(nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	// restart: a fresh primary appears with its own Init
	events, err = a.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"scene"}, events)
	require.Len(t, primaries, 2)
	assert.Equal(t, 1, deaths[0].teardowns)
	assert.Equal(t, 1, primaries[1].inits)

	a.TearDown()
	assert.Equal(t, 1, primaries[1].teardowns)
}

func TestAlternatingPropagatesStructuralFaults(t *testing.T) {
	boom := errors.New("corrupt state")
	a := Alternating(
		func() Stateful[int, string] {
			return &scripted{steps: []func() ([]string, error){fail(boom)}}
		},
		func() Stateful[int, string] { return Empty[int, string]() },
	)
	a.Init()

	_, err := a.Step(nil)
	require.Equal(t, boom, err)
}

func TestDeadWaitsForRestart(t *testing.T) {
	restart := func(c int) bool { return c == 13 }
	d := Dead(restart, []string{"game over"})

	assert.Equal(t, []string{"game over"}, d.Init())

	events, err := d.Step(nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	cmd := 7
	_, err = d.Step(&cmd)
	require.NoError(t, err)

	cmd = 13
	_, err = d.Step(&cmd)
	require.Equal(t, ErrRestart, err)
}

func TestReplayPlaysFramesThenHalts(t *testing.T) {
	r := Replay[int]([][]string{{"a", "b"}, {"c"}})
	assert.Empty(t, r.Init())

	events, err := r.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, events)

	events, err = r.Step(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, events)

	_, err = r.Step(nil)
	require.Equal(t, ErrHalt, err)
	assert.True(t, IsGameOver(err))
}

func TestEmptyIsOverImmediately(t *testing.T) {
	e := Empty[int, string]()
	assert.Empty(t, e.Init())
	_, err := e.Step(nil)
	assert.Equal(t, ErrHalt, err)
}

func TestGameDrivesModelAndRenderer(t *testing.T) {
	m := &scripted{
		initEvents: []string{"size", "snake"},
		steps:      []func() ([]string, error){ok("head", "tail"), fail(ErrHalt)},
	}
	var rendered []string
	g := NewGame[int, string](m, func(u string) error {
		rendered = append(rendered, u)
		return nil
	})

	require.NoError(t, g.Start())
	assert.Equal(t, []string{"size", "snake"}, rendered)

	require.NoError(t, g.Tick(nil))
	assert.Equal(t, []string{"size", "snake", "head", "tail"}, rendered)

	err := g.Tick(nil)
	require.Equal(t, ErrHalt, err)
	assert.True(t, IsGameOver(err))

	g.Close()
	g.Close()
	assert.Equal(t, 1, m.teardowns, "close is idempotent")
	assert.Panics(t, func() { g.Start() })
}

func TestMailboxLatestWins(t *testing.T) {
	var m Mailbox[int]

	assert.Nil(t, m.Take())

	m.Put(1)
	m.Put(2)
	got := m.Take()
	require.NotNil(t, got)
	assert.Equal(t, 2, *got)
	assert.Nil(t, m.Take(), "slot drains on take")

	m.Put(3)
	got = m.Take()
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)
}
