package machine

// Replay plays back a recorded run, one frame of events per tick, ignoring
// commands. When the recording runs out it halts the round.
func Replay[C, U any](frames [][]U) Stateful[C, U] {
	return &replayer[C, U]{frames: frames}
}

type replayer[C, U any] struct {
	frames [][]U
	index  int
}

func (r *replayer[C, U]) Init() []U {
	r.index = 0
	return nil
}

func (r *replayer[C, U]) Step(_ *C) ([]U, error) {
	if r.index >= len(r.frames) {
		return nil, ErrHalt
	}
	frame := r.frames[r.index]
	r.index++
	return frame, nil
}

func (r *replayer[C, U]) TearDown() {}

// Empty is a machine that is over before it starts: every Step reports a
// game over. Useful as a combinator fixture.
func Empty[C, U any]() Stateful[C, U] { return empty[C, U]{} }

type empty[C, U any] struct{}

func (empty[C, U]) Init() []U            { return nil }
func (empty[C, U]) Step(*C) ([]U, error) { return nil, ErrHalt }
func (empty[C, U]) TearDown()            {}
