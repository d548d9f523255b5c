package machine

import "github.com/hoangpq/snake-engine/grid"

// SpeedRamp gates how often commands reach the wrapped machine, modelling
// acceleration: holding a direction shrinks the delegation period down to
// minPeriod, pressing the opposite direction stretches it back toward
// maxPeriod. The inner machine steps only every period-th tick; commands
// arriving in between are buffered latest-wins. It never touches grid or
// snake state.
func SpeedRamp[U any](
	inner Stateful[grid.Direction, U],
	startPeriod, minPeriod, maxPeriod int,
) Stateful[grid.Direction, U] {
	if minPeriod < 1 {
		minPeriod = 1
	}
	if startPeriod < minPeriod {
		startPeriod = minPeriod
	}
	if maxPeriod < startPeriod {
		maxPeriod = startPeriod
	}
	return &speedRamp[U]{
		inner:     inner,
		period:    startPeriod,
		minPeriod: minPeriod,
		maxPeriod: maxPeriod,
	}
}

type speedRamp[U any] struct {
	inner     Stateful[grid.Direction, U]
	period    int
	minPeriod int
	maxPeriod int
	ticks     int

	held    grid.Direction
	holding bool
	pending *grid.Direction
}

func (s *speedRamp[U]) Init() []U { return s.inner.Init() }

func (s *speedRamp[U]) Step(cmd *grid.Direction) ([]U, error) {
	if cmd != nil {
		s.adjust(*cmd)
		c := *cmd
		s.pending = &c
	}

	s.ticks++
	if s.ticks < s.period {
		return nil, nil
	}
	s.ticks = 0

	delegated := s.pending
	s.pending = nil
	return s.inner.Step(delegated)
}

func (s *speedRamp[U]) adjust(cmd grid.Direction) {
	switch {
	case !s.holding:
		s.held = cmd
		s.holding = true
	case cmd == s.held:
		if s.period > s.minPeriod {
			s.period--
		}
	case cmd == s.held.Opposite():
		if s.period < s.maxPeriod {
			s.period++
		}
	default:
		s.held = cmd
	}
}

func (s *speedRamp[U]) TearDown() { s.inner.TearDown() }
