// Package machine is the generic composition layer: a capability contract
// that the world and every auxiliary state machine implement, plus the
// combinators that compose them into a single externally driven graph.
package machine

import "errors"

// Stateful is the lifecycle contract of a composable state machine.
// Init is called exactly once before any Step, Step once per tick, and
// TearDown exactly once at end of life. C is the per-tick command type, U
// the update event type. Step returns this tick's events in application
// order; a nil command means no input this tick.
type Stateful[C, U any] interface {
	Init() []U
	Step(cmd *C) ([]U, error)
	TearDown()
}

// gameOverer is the capability every round-ending error provides, letting
// combinators treat failure uniformly regardless of which layer produced it.
type gameOverer interface {
	GameOver() bool
}

// IsGameOver reports whether err classifies as an ordinary end of round.
// Anything else is a structural fault and must propagate.
func IsGameOver(err error) bool {
	var g gameOverer
	return errors.As(err, &g) && g.GameOver()
}

// ErrRestart is returned by a death machine's Step when the player asked for
// a new round. Alternating consumes it; it never escapes the combinator.
var ErrRestart = errors.New("machine: restart requested")

// haltError is the generic round-ending error used by machines that have no
// richer failure of their own.
type haltError string

func (e haltError) Error() string  { return string(e) }
func (e haltError) GameOver() bool { return true }

// ErrHalt ends the round with no further detail.
var ErrHalt = haltError("machine: halted")
