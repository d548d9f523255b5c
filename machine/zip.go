package machine

// ZipWith runs two machines in lockstep, one Step each per tick, merging
// their event slices into one. Either side's error fails the pair; the left
// side steps first and short-circuits the right.
func ZipWith[C, U1, U2, U any](
	left Stateful[C, U1],
	right Stateful[C, U2],
	merge func([]U1, []U2) []U,
) Stateful[C, U] {
	return &zipped[C, U1, U2, U]{left: left, right: right, merge: merge}
}

type zipped[C, U1, U2, U any] struct {
	left  Stateful[C, U1]
	right Stateful[C, U2]
	merge func([]U1, []U2) []U
}

func (z *zipped[C, U1, U2, U]) Init() []U {
	return z.merge(z.left.Init(), z.right.Init())
}

func (z *zipped[C, U1, U2, U]) Step(cmd *C) ([]U, error) {
	ul, err := z.left.Step(cmd)
	if err != nil {
		return nil, err
	}
	ur, err := z.right.Step(cmd)
	if err != nil {
		return nil, err
	}
	return z.merge(ul, ur), nil
}

func (z *zipped[C, U1, U2, U]) TearDown() {
	z.right.TearDown()
	z.left.TearDown()
}
