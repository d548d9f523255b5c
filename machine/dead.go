package machine

// Dead is the game-over screen machine. Init yields the banner events, Step
// swallows ticks until a restart command arrives and then reports ErrRestart
// for Alternating to act on.
func Dead[C, U any](isRestart func(C) bool, banner []U) Stateful[C, U] {
	return &dead[C, U]{isRestart: isRestart, banner: banner}
}

type dead[C, U any] struct {
	isRestart func(C) bool
	banner    []U
}

func (d *dead[C, U]) Init() []U { return d.banner }

func (d *dead[C, U]) Step(cmd *C) ([]U, error) {
	if cmd != nil && d.isRestart(*cmd) {
		return nil, ErrRestart
	}
	return nil, nil
}

func (d *dead[C, U]) TearDown() {}
