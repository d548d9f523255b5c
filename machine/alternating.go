package machine

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

// Alternating toggles control between a primary machine (normal play) and a
// secondary machine (the death screen). When the primary fails with a game
// over, the secondary takes the ticks until it returns ErrRestart, at which
// point a freshly constructed primary takes over and its Init events become
// that tick's output. Both sides are built through factories so each
// instance still sees Init exactly once.
func Alternating[C, U any](
	newPrimary func() Stateful[C, U],
	newSecondary func() Stateful[C, U],
) Stateful[C, U] {
	return &alternating[C, U]{newPrimary: newPrimary, newSecondary: newSecondary}
}

type alternating[C, U any] struct {
	newPrimary   func() Stateful[C, U]
	newSecondary func() Stateful[C, U]

	active      Stateful[C, U]
	onSecondary bool
}

func (a *alternating[C, U]) Init() []U {
	a.active = a.newPrimary()
	return a.active.Init()
}

func (a *alternating[C, U]) Step(cmd *C) ([]U, error) {
	updates, err := a.active.Step(cmd)
	if err == nil {
		return updates, nil
	}

	if a.onSecondary {
		if !errors.Is(err, ErrRestart) {
			return nil, err
		}
		log.Debug("restarting round")
		return a.swap(a.newPrimary(), false), nil
	}

	if !IsGameOver(err) {
		// structural fault, not a player-caused end state
		return nil, err
	}
	log.WithError(err).Debug("round over")
	return a.swap(a.newSecondary(), true), nil
}

func (a *alternating[C, U]) swap(next Stateful[C, U], toSecondary bool) []U {
	a.active.TearDown()
	a.active = next
	a.onSecondary = toSecondary
	return a.active.Init()
}

func (a *alternating[C, U]) TearDown() {
	a.active.TearDown()
}
